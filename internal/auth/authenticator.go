// ABOUTME: Username/password verification against stored bcrypt hashes
// ABOUTME: The only place in the codebase where passwords are compared

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/wrkspot/customerd/internal/store"
)

// ErrInvalidCredentials is returned when the password does not match the stored hash.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore defines the interface for retrieving stored users.
type UserStore interface {
	GetUserByName(ctx context.Context, name string) (*store.User, error)
}

// dummyHash is a bcrypt hash compared against when the username does not
// exist, so lookup failures take as long as password mismatches.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Authenticator verifies username/password pairs against the user store.
type Authenticator struct {
	users  UserStore
	logger *slog.Logger
}

// NewAuthenticator creates an Authenticator backed by the given user store.
func NewAuthenticator(users UserStore, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		users:  users,
		logger: logger.With("component", "auth"),
	}
}

// Authenticate verifies the password for the named user. On success it
// returns the identity carrying the user's name and role tokens. Returns
// store.ErrUserNotFound when the user does not exist and
// ErrInvalidCredentials on password mismatch. The raw password is never logged.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*Identity, error) {
	user, err := a.users.GetUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn a bcrypt comparison to keep timing uniform with the mismatch path
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			a.logger.Warn("authentication failed", "username", username, "reason", "unknown user")
			return nil, err
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.Warn("authentication failed", "username", username, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		Username: user.Name,
		Roles:    user.Roles,
	}, nil
}
