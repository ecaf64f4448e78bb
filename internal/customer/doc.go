// Package customer implements the customer-record business logic: validated
// batch upserts, filtered retrieval by name/city/state, and set comparisons
// over customer lists keyed by customer ID. Persistence goes through
// store.CustomerStore; nothing in this package touches the database directly.
package customer
