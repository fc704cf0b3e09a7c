package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// stmtCache holds one prepared statement per distinct statement text,
// built lazily and reused for the life of the store.
//
// database/sql statements are safe for concurrent use and take their
// bindings per Exec/Query call, so two in-flight operations can never see
// each other's parameters. The mutex only guards the map.
type stmtCache struct {
	mu    sync.Mutex
	db    *sql.DB
	stmts map[string]*sql.Stmt
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{
		db:    db,
		stmts: make(map[string]*sql.Stmt),
	}
}

// lookup returns the cached statement for query without preparing.
// Safe to call while a transaction holds the pool's connection.
func (c *stmtCache) lookup(query string) (*sql.Stmt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stmt, ok := c.stmts[query]
	return stmt, ok
}

// prime prepares every query up front. Called once at open, before any
// transaction exists.
func (c *stmtCache) prime(ctx context.Context, queries []string) error {
	for _, q := range queries {
		if _, err := c.get(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// get returns the prepared statement for query, preparing it on first use.
func (c *stmtCache) get(ctx context.Context, query string) (*sql.Stmt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stmt, ok := c.stmts[query]; ok {
		return stmt, nil
	}

	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, NewIO("prepare statement", fmt.Errorf("%q: %w", query, err))
	}
	c.stmts[query] = stmt
	return stmt, nil
}

// closeAll releases every cached statement. Called once at store close.
func (c *stmtCache) closeAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for query, stmt := range c.stmts {
		if err := stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close statement %q: %w", query, err))
		}
	}
	c.stmts = make(map[string]*sql.Stmt)
	return errors.Join(errs...)
}
