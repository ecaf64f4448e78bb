// ABOUTME: Customer business logic: batch create/update and filtered retrieval
// ABOUTME: Storage access goes through the store.CustomerStore interface

package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wrkspot/customerd/internal/store"
)

// ErrNoCustomers is returned when a filtered lookup matches nothing.
var ErrNoCustomers = errors.New("no customers found")

// ErrInvalidCustomer is returned when a submitted customer fails validation.
var ErrInvalidCustomer = errors.New("invalid customer")

// Service handles business logic related to customers.
type Service struct {
	store  store.CustomerStore
	logger *slog.Logger
}

// NewService creates a customer service backed by the given store.
func NewService(s store.CustomerStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  s,
		logger: logger.With("component", "customer"),
	}
}

// CreateCustomers validates and saves a batch of customers. Existing
// customers with the same ID are updated. The whole batch is rejected if any
// customer fails validation.
func (s *Service) CreateCustomers(ctx context.Context, customers []store.Customer) ([]store.Customer, error) {
	for i := range customers {
		if err := ValidateCustomer(&customers[i]); err != nil {
			return nil, err
		}
	}

	created, err := s.store.UpsertCustomers(ctx, customers)
	if err != nil {
		return nil, fmt.Errorf("saving customers: %w", err)
	}

	s.logger.Info("customers saved", "count", len(created))
	return created, nil
}

// FilterCustomers fetches customers matching the optional name, city, and
// state filters. All filters empty returns every customer. Returns
// ErrNoCustomers when nothing matches.
func (s *Service) FilterCustomers(ctx context.Context, name, city, state string) ([]store.Customer, error) {
	customers, err := s.store.ListCustomers(ctx, store.CustomerFilter{
		Name:  name,
		City:  city,
		State: state,
	})
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	if len(customers) == 0 {
		return nil, ErrNoCustomers
	}
	return customers, nil
}
