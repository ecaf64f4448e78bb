// ABOUTME: Field validation for submitted customer records
// ABOUTME: Mirrors the persisted schema constraints before anything hits the store

package customer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/wrkspot/customerd/internal/store"
)

var (
	mobileRe = regexp.MustCompile(`^[0-9]{10}$`)
	stateRe  = regexp.MustCompile(`^[A-Za-z]{2}$`)
	zipRe    = regexp.MustCompile(`^\d{5}$`)
)

// ValidateCustomer checks a submitted customer against the field constraints.
// Returns an error wrapping ErrInvalidCustomer describing the first violation.
func ValidateCustomer(c *store.Customer) error {
	if c.CustomerID == "" {
		return fmt.Errorf("%w: customer id cannot be empty", ErrInvalidCustomer)
	}
	if l := len(c.FirstName); l < 2 || l > 30 {
		return fmt.Errorf("%w: first name length must be between 2 and 30", ErrInvalidCustomer)
	}
	if l := len(c.LastName); l < 2 || l > 30 {
		return fmt.Errorf("%w: last name length must be between 2 and 30", ErrInvalidCustomer)
	}
	if c.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrInvalidCustomer)
	}
	if c.SpendingLimit != "" {
		limit, err := strconv.ParseFloat(c.SpendingLimit, 64)
		if err != nil {
			return fmt.Errorf("%w: spending limit must be a decimal number", ErrInvalidCustomer)
		}
		if limit < 0 {
			return fmt.Errorf("%w: spending limit must be positive", ErrInvalidCustomer)
		}
	}
	if c.MobileNumber != "" && !mobileRe.MatchString(c.MobileNumber) {
		return fmt.Errorf("%w: mobile number must be 10 digits", ErrInvalidCustomer)
	}

	for i := range c.Addresses {
		if err := validateAddress(&c.Addresses[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateAddress(a *store.Address) error {
	if a.Type == "" {
		return fmt.Errorf("%w: address type cannot be blank", ErrInvalidCustomer)
	}
	if a.Address1 == "" {
		return fmt.Errorf("%w: address1 cannot be blank", ErrInvalidCustomer)
	}
	if a.City == "" {
		return fmt.Errorf("%w: city cannot be blank", ErrInvalidCustomer)
	}
	if a.State != "" && !stateRe.MatchString(a.State) {
		return fmt.Errorf("%w: state should be a 2-letter abbreviation", ErrInvalidCustomer)
	}
	if a.ZipCode != "" && !zipRe.MatchString(a.ZipCode) {
		return fmt.Errorf("%w: zip code should be a 5-digit number", ErrInvalidCustomer)
	}
	return nil
}
