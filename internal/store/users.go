// ABOUTME: User entity store methods backing the authentication layer
// ABOUTME: Users are keyed by name; roles round-trip through a comma-delimited column

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateUser inserts a new user. Returns ErrDuplicateUser when the name is taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (name, password_hash, email, roles, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		user.Name,
		user.PasswordHash,
		user.Email,
		JoinRoles(user.Roles),
		createdAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Debug("created user", "name", user.Name, "roles", user.Roles)
	return nil
}

// GetUserByName loads a user by exact name match.
// Returns ErrUserNotFound when no such user exists.
func (s *SQLiteStore) GetUserByName(ctx context.Context, name string) (*User, error) {
	query := `
		SELECT name, password_hash, email, roles, created_at
		FROM users
		WHERE name = ?
	`

	var user User
	var rolesStr, createdAtStr string

	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&user.Name,
		&user.PasswordHash,
		&user.Email,
		&rolesStr,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	user.Roles = SplitRoles(rolesStr)

	user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &user, nil
}

// CountUsers returns the total number of stored users
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}
