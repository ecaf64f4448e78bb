// Package auth provides stateless token authentication for customerd.
//
// # Flow
//
// A client logs in with a username and password. The Authenticator checks
// the password against the stored bcrypt hash and, on success, the Codec
// issues an HS256-signed JWT carrying the username as subject, an issued-at
// timestamp, and an expiry (issued-at + configured TTL, 60 minutes by
// default).
//
// Every subsequent request presents the token as:
//
//	Authorization: Bearer <token>
//
// The Middleware resolves the token to an identity before handler dispatch:
//
//   - Missing header, wrong scheme, malformed token, bad signature, or an
//     expired token all leave the request anonymous and pass it through.
//     Downstream role gates then decide whether anonymous access is allowed.
//   - A signature-valid token whose subject has no backing user is a hard
//     authentication failure (401): the token references a vanished identity.
//   - A valid token publishes Identity{Username, Roles} into the request
//     context via WithIdentity; handlers read it with FromContext.
//
// # Role gates
//
// RequireAuth rejects anonymous requests with 401. RequireRole(role)
// additionally requires a specific role token (403 otherwise). Both wrap
// handlers after Middleware.
//
// # Limitations
//
// Tokens are self-contained bearer credentials. There is no revocation list
// and no refresh flow: a compromised token remains valid until its natural
// expiry.
package auth
