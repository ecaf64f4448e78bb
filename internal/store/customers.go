// ABOUTME: Customer and address store methods with batch upsert and filtered listing
// ABOUTME: Filters combine first-name substring match with exact city/state address match

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// UpsertCustomers creates or replaces the given customers in a single
// transaction. Existing addresses are replaced by the submitted ones.
// The stored customers are returned with their assigned address IDs.
func (s *SQLiteStore) UpsertCustomers(ctx context.Context, customers []Customer) ([]Customer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO customers (customer_id, first_name, last_name, age, spending_limit, mobile_number)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(customer_id) DO UPDATE SET
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				age = excluded.age,
				spending_limit = excluded.spending_limit,
				mobile_number = excluded.mobile_number
		`, c.CustomerID, c.FirstName, c.LastName, c.Age, c.SpendingLimit, c.MobileNumber)
		if err != nil {
			return nil, fmt.Errorf("upserting customer %s: %w", c.CustomerID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM addresses WHERE customer_id = ?`, c.CustomerID); err != nil {
			return nil, fmt.Errorf("clearing addresses for customer %s: %w", c.CustomerID, err)
		}

		stored := c
		stored.Addresses = make([]Address, 0, len(c.Addresses))
		for _, a := range c.Addresses {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO addresses (customer_id, type, address1, address2, city, state, zip_code)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, c.CustomerID, a.Type, a.Address1, a.Address2, a.City, a.State, a.ZipCode)
			if err != nil {
				return nil, fmt.Errorf("inserting address for customer %s: %w", c.CustomerID, err)
			}

			a.ID, err = res.LastInsertId()
			if err != nil {
				return nil, fmt.Errorf("reading address id: %w", err)
			}
			a.CustomerID = c.CustomerID
			stored.Addresses = append(stored.Addresses, a)
		}
		out = append(out, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("upserted customers", "count", len(out))
	return out, nil
}

// GetCustomer loads a single customer with its addresses.
// Returns ErrCustomerNotFound when no such customer exists.
func (s *SQLiteStore) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	query := `
		SELECT customer_id, first_name, last_name, age, spending_limit, mobile_number
		FROM customers
		WHERE customer_id = ?
	`

	var c Customer
	err := s.db.QueryRowContext(ctx, query, customerID).Scan(
		&c.CustomerID,
		&c.FirstName,
		&c.LastName,
		&c.Age,
		&c.SpendingLimit,
		&c.MobileNumber,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer: %w", err)
	}

	addresses, err := s.loadAddresses(ctx, []string{c.CustomerID})
	if err != nil {
		return nil, err
	}
	c.Addresses = addresses[c.CustomerID]

	return &c, nil
}

// ListCustomers returns customers matching the given filter, with addresses
// attached. An empty filter returns all customers.
func (s *SQLiteStore) ListCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error) {
	query := `
		SELECT customer_id, first_name, last_name, age, spending_limit, mobile_number
		FROM customers
	`

	var conds []string
	var args []any

	if filter.Name != "" {
		conds = append(conds, `LOWER(first_name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.City != "" && filter.State != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM addresses a
			WHERE a.customer_id = customers.customer_id AND a.city = ? AND a.state = ?
		)`)
		args = append(args, filter.City, filter.State)
	} else if filter.City != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM addresses a
			WHERE a.customer_id = customers.customer_id AND a.city = ?
		)`)
		args = append(args, filter.City)
	} else if filter.State != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM addresses a
			WHERE a.customer_id = customers.customer_id AND a.state = ?
		)`)
		args = append(args, filter.State)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY customer_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	var ids []string
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Age, &c.SpendingLimit, &c.MobileNumber); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		customers = append(customers, c)
		ids = append(ids, c.CustomerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customers: %w", err)
	}

	if len(customers) == 0 {
		return customers, nil
	}

	addresses, err := s.loadAddresses(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		customers[i].Addresses = addresses[customers[i].CustomerID]
	}

	return customers, nil
}

// loadAddresses loads the addresses for the given customer IDs, grouped by customer.
func (s *SQLiteStore) loadAddresses(ctx context.Context, customerIDs []string) (map[string][]Address, error) {
	placeholders := make([]string, len(customerIDs))
	args := make([]any, len(customerIDs))
	for i, id := range customerIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `
		SELECT id, customer_id, type, address1, address2, city, state, zip_code
		FROM addresses
		WHERE customer_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying addresses: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]Address)
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Type, &a.Address1, &a.Address2, &a.City, &a.State, &a.ZipCode); err != nil {
			return nil, fmt.Errorf("scanning address: %w", err)
		}
		out[a.CustomerID] = append(out[a.CustomerID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating addresses: %w", err)
	}

	return out, nil
}
