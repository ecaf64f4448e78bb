// ABOUTME: Authenticated identity propagated through request handlers
// ABOUTME: Provides WithIdentity/FromContext for request-scoped auth info

package auth

import (
	"context"
)

// Identity holds the authenticated identity established for one request.
// It is populated by the middleware and retrieved from context in handlers.
// It lives only for the duration of the request and is never shared.
type Identity struct {
	Username string
	Roles    []string
}

// HasRole returns true if the identity carries the given role token.
// Role tokens are case-sensitive.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not present.
func FromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}
