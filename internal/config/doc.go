// Package config handles configuration loading for customerd.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${CUSTOMERD_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/customerd/customerd.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${CUSTOMERD_JWT_SECRET}"  # base64-encoded HMAC key material
//	  token_ttl: "60m"                       # token lifetime, defaults to 60m
//
// Bootstrap administrator (created at startup if absent):
//
//	admin:
//	  username: "admin"
//	  password: "${CUSTOMERD_ADMIN_PASSWORD}"
//	  email: "admin@example.com"
//	  roles: "ROLE_ADMIN,ROLE_USER"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Server address and database path presence
//   - JWT secret presence and base64 validity (fatal at startup, never per-request)
//   - Duration format validity
package config
