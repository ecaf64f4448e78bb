// Package store provides persistent storage for customerd using SQLite.
//
// # Architecture
//
// The package uses an interface-driven architecture with two interfaces:
//
//   - UserStore: Identity records consumed by the authentication layer
//   - CustomerStore: Customer/address CRUD and filtered listing
//
// SQLiteStore implements both interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Data Models
//
//   - User: Stored identity keyed by name, with a bcrypt password hash and
//     role tokens. Roles are persisted as a comma-delimited string and parsed
//     into discrete tokens once at load time.
//   - Customer: Customer record keyed by customer ID.
//   - Address: Address rows owned by a customer, replaced wholesale on upsert.
//
// # Concurrency
//
// All methods take a context and are safe for concurrent use. Reads don't
// require write coordination; batch upserts run in a single transaction.
package store
