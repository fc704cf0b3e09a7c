package store

import (
	"context"
	"database/sql"
)

// Mutate runs fn inside a single transaction and commits only if fn
// returns nil; any error rolls the whole unit of work back, so a failed
// multi-statement operation leaves no partial write behind.
//
// tables lists the tables fn writes to. Their observers are notified only
// after the commit succeeds - a rolled-back transaction triggers no
// re-computation, and a notification never races ahead of its commit.
func (s *Store) Mutate(ctx context.Context, tables []string, fn func(tx *sql.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return NewIO("begin transaction", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewIO("commit transaction", err)
	}

	s.watch.notify(tables...)
	return nil
}

// Exec runs a mutation statement inside tx. Statements prepared at open
// are rebased onto the transaction for this call only; the cached
// original stays usable after the transaction ends.
//
// Anything not already cached runs through the transaction's own
// connection. The pool holds a single connection and tx owns it for the
// duration, so preparing through the pool here would block forever.
func (s *Store) Exec(ctx context.Context, tx *sql.Tx, query string, args ...any) (sql.Result, error) {
	if stmt, ok := s.stmts.lookup(query); ok {
		return tx.StmtContext(ctx, stmt).ExecContext(ctx, args...)
	}
	return tx.ExecContext(ctx, query, args...)
}
