// Package store provides the SQLite-backed storage engine for the wake-up
// clock: a single shared handle, derived-from-data entity schemas, a
// prepared statement cache, transactional mutation, by-name row mapping,
// and table-level invalidation driving live queries.
//
// # Layering
//
//   - Table declarations (schema.go) are the single source of truth for
//     row shape: statement text and the schema identity hash derive from
//     them, never from hand-duplicated per-entity SQL.
//   - Mutate (tx.go) wraps every write in begin/commit-or-rollback and
//     reports touched tables to the tracker only after commit.
//   - Observe (live.go) turns a query function into a channel of result
//     snapshots, re-run whenever a watched table changes.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON (no FKs declared today; kept for safety)
//
// Typed entity access lives in the dao package; this package knows
// columns, not domain meaning.
package store
