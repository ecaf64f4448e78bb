// ABOUTME: Token validation rules applied on top of Parse
// ABOUTME: Expiry and subject-match checks against a claimed identity

package auth

import (
	"time"

	"github.com/wrkspot/customerd/internal/store"
)

// IsExpired reports whether the token's expiry is strictly before the current
// time. Parse failures propagate as errors rather than being treated as expired.
func (c *Codec) IsExpired(tokenString string) (bool, error) {
	exp, err := c.ExtractExpiry(tokenString)
	if err != nil {
		return false, err
	}
	return exp.Before(time.Now()), nil
}

// ValidateForUser reports whether the token's subject matches the user's name
// and the token has not expired. Parse failures propagate as errors; callers
// translate them into an unauthenticated outcome.
func (c *Codec) ValidateForUser(tokenString string, user *store.User) (bool, error) {
	sub, err := c.ExtractSubject(tokenString)
	if err != nil {
		return false, err
	}

	expired, err := c.IsExpired(tokenString)
	if err != nil {
		return false, err
	}

	return sub == user.Name && !expired, nil
}
