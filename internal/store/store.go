package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// metaSchemaHashKey is the store_meta key holding the schema identity hash.
const metaSchemaHashKey = "schema_hash"

// Store owns the single process-wide SQLite handle, the prepared statement
// cache, and the invalidation tracker. It is constructed once at open and
// torn down once at close; DAOs hold a reference rather than re-opening.
type Store struct {
	db    *sql.DB
	stmts *stmtCache
	watch *tracker

	// writeMu serializes write transactions. SQLite allows one writer at
	// a time; taking the lock here surfaces contention as waiting instead
	// of SQLITE_BUSY.
	writeMu sync.Mutex
}

// Open creates or opens the database at path.
//
// The connection is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - foreign key enforcement
//
// On first open the schema identity hash is recorded in store_meta; on
// every later open it is compared, and a mismatch is a refusal
// (SCHEMA_MISMATCH), never a silent downgrade.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Single writer to avoid SQLITE_BUSY errors; keep one connection ready.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := verifySchemaHash(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:    db,
		stmts: newStmtCache(db),
		watch: newTracker(),
	}

	// Mutation statements are prepared now, while no transaction exists.
	// Mutate's transaction owns the pool's only connection, so preparing
	// through the pool mid-transaction would wait on itself.
	if err := s.stmts.prime(context.Background(), mutationStatements()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases all cached statements and closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	stmtErr := s.stmts.closeAll()
	if err := s.db.Close(); err != nil {
		return err
	}
	return stmtErr
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Store and DAO methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Prepared returns the cached prepared statement for query, building it on
// first use. The returned statement is shared; bindings are supplied per
// call and never persist across calls.
func (s *Store) Prepared(ctx context.Context, query string) (*sql.Stmt, error) {
	return s.stmts.get(ctx, query)
}

// Wipe deletes every row of every entity table in one transaction, then
// compacts the file. VACUUM cannot run inside a transaction, so the
// compaction pass happens after the delete commits.
func (s *Store) Wipe(ctx context.Context) error {
	tables := make([]string, len(entityTables))
	for i, t := range entityTables {
		tables[i] = t.Name
	}

	err := s.Mutate(ctx, tables, func(tx *sql.Tx) error {
		for _, t := range entityTables {
			if _, err := s.Exec(ctx, tx, t.DeleteAllSQL()); err != nil {
				return NewIO("wipe "+t.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return NewIO("vacuum", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifySchemaHash records the schema identity hash on first open and
// checks it on every later open.
func verifySchemaHash(db *sql.DB) error {
	want := SchemaHash()

	var got string
	err := db.QueryRow(
		"SELECT value FROM store_meta WHERE key = ?", metaSchemaHashKey,
	).Scan(&got)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec(
			"INSERT INTO store_meta (key, value) VALUES (?, ?)", metaSchemaHashKey, want,
		); err != nil {
			return NewIO("record schema hash", err)
		}
		return nil
	case err != nil:
		return NewIO("read schema hash", err)
	}

	if got != want {
		return &StoreError{
			Code: ErrCodeSchemaMismatch,
			Op:   "open",
			Err:  fmt.Errorf("stored schema hash %s does not match declared %s", got, want),
		}
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
