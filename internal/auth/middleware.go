// ABOUTME: HTTP middleware resolving bearer tokens to request-scoped identities
// ABOUTME: Broken tokens fall through as anonymous; vanished users are a hard 401

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wrkspot/customerd/internal/store"
)

const bearerPrefix = "Bearer "

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns an empty string when there is no usable bearer token.
func extractBearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, bearerPrefix)
}

// Middleware creates an HTTP middleware that resolves a bearer token into a
// request-scoped Identity before handler dispatch. Requests without a usable
// token pass through anonymous; role gates downstream decide whether that is
// acceptable. A signature-valid token whose subject no longer exists in the
// user store is rejected with 401.
func Middleware(users UserStore, codec *Codec, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r) // no token, continue as anonymous
				return
			}

			subject, err := codec.ExtractSubject(token)
			if err != nil {
				// A broken token is treated identically to no token
				logger.Debug("unusable bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			// Re-entrancy guard: keep an identity established earlier in the chain
			if FromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByName(r.Context(), subject)
			if err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					// Validly-signed token for a vanished user is a genuine
					// inconsistency, not an anonymous request
					logger.Warn("token subject has no backing user", "subject", subject)
					http.Error(w, `{"error":"user not found"}`, http.StatusUnauthorized)
					return
				}
				logger.Error("user lookup failed", "subject", subject, "error", err)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}

			valid, err := codec.ValidateForUser(token, user)
			if err != nil || !valid {
				next.ServeHTTP(w, r) // expired or mismatched, continue as anonymous
				return
			}

			id := &Identity{
				Username: user.Name,
				Roles:    user.Roles,
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth creates an HTTP middleware that rejects anonymous requests.
// Must be used after Middleware.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if FromContext(r.Context()) == nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates an HTTP middleware that requires the identity to carry
// a specific role token. Must be used after Middleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := FromContext(r.Context())
			if id == nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}
			if !id.HasRole(role) {
				http.Error(w, `{"error":"`+role+` role required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
