// Package store runs compiled statements against SQLite.
//
// It is the proving ground for join semantics, not a data access layer:
// tests create entity tables, insert fixture rows and check that what the
// builders produce returns the rows the relations promise. A left join
// that keeps every root row, for example, is checked here against a real
// database rather than by comparing strings.
//
// # Tables
//
// CreateTables derives CREATE TABLE statements from entity metadata and
// records a fingerprint of each definition (canonical JSON, SHA-256 with
// the relq/schema/v1 domain). Recreating a table with an identical
// definition is a no-op; a changed definition returns ErrSchemaMismatch.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
