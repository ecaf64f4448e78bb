// ABOUTME: Store interfaces and data types for customerd persistence
// ABOUTME: Defines User, Customer, Address structs and the store interfaces

package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrUserNotFound is returned when a requested user does not exist
var ErrUserNotFound = errors.New("user not found")

// ErrCustomerNotFound is returned when a requested customer does not exist
var ErrCustomerNotFound = errors.New("customer not found")

// ErrDuplicateUser is returned when trying to create a user whose name is taken
var ErrDuplicateUser = errors.New("user already exists")

// User represents a stored identity with credentials and role tokens.
// Roles are persisted as a comma-delimited string and parsed once at load.
type User struct {
	Name         string
	PasswordHash string // bcrypt hash, never plaintext
	Email        string
	Roles        []string
	CreatedAt    time.Time
}

// Customer represents a customer record with its addresses
type Customer struct {
	CustomerID    string    `json:"customerId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Age           int       `json:"age"`
	SpendingLimit string    `json:"spendingLimit,omitempty"`
	MobileNumber  string    `json:"mobileNumber,omitempty"`
	Addresses     []Address `json:"addresses,omitempty"`
}

// Address represents a single address attached to a customer
type Address struct {
	ID         int64  `json:"id,omitempty"`
	CustomerID string `json:"-"`
	Type       string `json:"type"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
}

// CustomerFilter holds the optional filters for ListCustomers.
// Name matches first names case-insensitively as a substring; City and
// State match any address of the customer exactly.
type CustomerFilter struct {
	Name  string
	City  string
	State string
}

// UserStore defines read and write access to stored users
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByName(ctx context.Context, name string) (*User, error)
	CountUsers(ctx context.Context) (int, error)
}

// CustomerStore defines access to stored customers
type CustomerStore interface {
	UpsertCustomers(ctx context.Context, customers []Customer) ([]Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error)
}

// SplitRoles parses a comma-delimited role string into discrete role tokens.
// Empty tokens are dropped; duplicates are tolerated.
func SplitRoles(roles string) []string {
	parts := strings.Split(roles, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinRoles encodes role tokens back into the stored comma-delimited form.
func JoinRoles(roles []string) string {
	return strings.Join(roles, ",")
}
