// ABOUTME: JWT issuance and parsing for stateless authentication
// ABOUTME: Uses HS256 signing with a base64-configured secret

package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrMissingClaim          = errors.New("missing required claim")
)

// SigningKey decodes the base64-encoded secret into HMAC key material.
// A decode failure is a configuration error and must abort startup.
func SigningKey(base64Secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decoding signing secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("signing secret is empty")
	}
	return key, nil
}

// Codec issues and parses HS256-signed tokens. The key material is read-only
// after construction, so a single Codec is safe for concurrent use.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec creates a token codec with the given key material and token lifetime.
func NewCodec(key []byte, ttl time.Duration) *Codec {
	return &Codec{key: key, ttl: ttl}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the given subject. The extra claims are
// merged into the payload; sub, iat, and exp are always set by the codec,
// with exp = iat + TTL. Any alteration of the payload invalidates the signature.
func (c *Codec) Issue(subject string, extra map[string]any) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(c.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Parse verifies the signature and decodes the payload. It does not check
// expiry; that is the caller's job via IsExpired/ValidateForUser. Returns
// ErrTokenMalformed for strings that are not well-formed tokens and
// ErrTokenSignatureInvalid when the signature does not verify.
func (c *Codec) Parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.key, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrTokenSignatureInvalid, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// ExtractSubject returns the token's subject claim, propagating Parse failures.
func (c *Codec) ExtractSubject(tokenString string) (string, error) {
	claims, err := c.Parse(tokenString)
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return sub, nil
}

// ExtractExpiry returns the token's expiry timestamp, propagating Parse failures.
func (c *Codec) ExtractExpiry(tokenString string) (time.Time, error) {
	claims, err := c.Parse(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: exp", ErrMissingClaim)
	}

	return exp.Time, nil
}
