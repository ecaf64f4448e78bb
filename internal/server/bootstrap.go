// ABOUTME: Startup provisioning of the configured administrator account
// ABOUTME: Creates the user only when no user with that name exists

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/wrkspot/customerd/internal/config"
	"github.com/wrkspot/customerd/internal/store"
)

// EnsureAdminUser creates the bootstrap administrator from configuration if
// no user with that name exists yet. A fully unset admin section disables
// bootstrapping. The password is stored as a bcrypt hash, never in the clear.
func EnsureAdminUser(ctx context.Context, users store.UserStore, cfg config.AdminConfig, logger *slog.Logger) error {
	if cfg.Username == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	_, err := users.GetUserByName(ctx, cfg.Username)
	if err == nil {
		return nil // already provisioned
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	err = users.CreateUser(ctx, &store.User{
		Name:         cfg.Username,
		PasswordHash: string(hash),
		Email:        cfg.Email,
		Roles:        store.SplitRoles(cfg.Roles),
	})
	if err != nil {
		// A concurrent instance may have created it between the check and the insert
		if errors.Is(err, store.ErrDuplicateUser) {
			return nil
		}
		return fmt.Errorf("creating admin user: %w", err)
	}

	logger.Info("bootstrap admin user created", "username", cfg.Username)
	return nil
}
