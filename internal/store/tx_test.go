package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func alarmCount(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM alarms").Scan(&n); err != nil {
		t.Fatalf("count alarms: %v", err)
	}
	return n
}

func TestMutate_Commits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
		_, err := s.Exec(ctx, tx, Alarms.InsertOrReplaceSQL(),
			"a1", "07:00", true, "work", "MATH", 2, "WORKDAYS", "", false, 1)
		return err
	})
	if err != nil {
		t.Fatalf("Mutate() failed: %v", err)
	}

	if n := alarmCount(t, s); n != 1 {
		t.Errorf("expected 1 alarm after commit, got %d", n)
	}
}

func TestMutate_RollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
		if _, err := s.Exec(ctx, tx, Alarms.InsertOrReplaceSQL(),
			"a1", "07:00", true, "work", "MATH", 2, "WORKDAYS", "", false, 1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}

	// The insert before the error must not survive.
	if n := alarmCount(t, s); n != 0 {
		t.Errorf("expected rollback to discard insert, got %d rows", n)
	}
}

func TestMutate_NotifiesAfterCommitOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub := s.watch.register(Alarms.Name)
	defer s.watch.unregister(sub)

	err := s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	select {
	case <-sub.signal:
		t.Fatal("rolled-back transaction must not notify")
	case <-time.After(50 * time.Millisecond):
	}

	err = s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
		_, err := s.Exec(ctx, tx, Alarms.InsertOrReplaceSQL(),
			"a1", "07:00", true, "work", "MATH", 2, "WORKDAYS", "", false, 1)
		return err
	})
	if err != nil {
		t.Fatalf("Mutate() failed: %v", err)
	}
	select {
	case <-sub.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("committed transaction did not notify")
	}
}

func TestMutate_SkipsUnrelatedTables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub := s.watch.register(Records.Name)
	defer s.watch.unregister(sub)

	err := s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
		_, err := s.Exec(ctx, tx, Alarms.InsertOrReplaceSQL(),
			"a1", "07:00", true, "work", "MATH", 2, "WORKDAYS", "", false, 1)
		return err
	})
	if err != nil {
		t.Fatalf("Mutate() failed: %v", err)
	}

	select {
	case <-sub.signal:
		t.Fatal("records observer notified by an alarms-only write")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestExec_ReusesStatementAcrossTransactions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.stmts.mu.Lock()
	before := len(s.stmts.stmts)
	s.stmts.mu.Unlock()

	for i, id := range []string{"a1", "a2", "a3"} {
		err := s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
			_, err := s.Exec(ctx, tx, Alarms.InsertOrReplaceSQL(),
				id, "07:00", true, "work", "MATH", 2, "WORKDAYS", "", false, int64(i))
			return err
		})
		if err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	if n := alarmCount(t, s); n != 3 {
		t.Errorf("expected 3 alarms, got %d", n)
	}

	// The insert statement was prepared at open; transactions rebase the
	// cached original and never grow the cache.
	s.stmts.mu.Lock()
	after := len(s.stmts.stmts)
	_, cached := s.stmts.stmts[Alarms.InsertOrReplaceSQL()]
	s.stmts.mu.Unlock()
	if !cached {
		t.Error("insert statement not in cache")
	}
	if after != before {
		t.Errorf("cache grew from %d to %d across transactions", before, after)
	}
}

func TestMutate_FirstWriteOnFreshStoreCompletes(t *testing.T) {
	// The pool holds a single connection and the transaction owns it.
	// Statement preparation must therefore never go through the pool while
	// the transaction is open, or the very first write waits on itself.
	s := openTestStore(t)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
			_, err := s.Exec(ctx, tx, Alarms.InsertOrReplaceSQL(),
				"a1", "07:00", true, "work", "MATH", 2, "WORKDAYS", "", false, 1)
			return err
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first write failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first write did not complete")
	}

	if n := alarmCount(t, s); n != 1 {
		t.Errorf("expected 1 alarm, got %d", n)
	}
}

func TestExec_UncachedStatementInsideTransaction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mustInsertAlarmRow(t, s, "a1", "07:00")

	// Not schema-derived, so absent from the open-time cache; must run on
	// the transaction's own connection rather than wait on the pool.
	done := make(chan error, 1)
	go func() {
		done <- s.Mutate(ctx, []string{Alarms.Name}, func(tx *sql.Tx) error {
			_, err := s.Exec(ctx, tx, "UPDATE alarms SET enabled = ? WHERE id = ?", false, "a1")
			return err
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("uncached write failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("uncached write did not complete")
	}

	var enabled int
	if err := s.db.QueryRow("SELECT enabled FROM alarms WHERE id = 'a1'").Scan(&enabled); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if enabled != 0 {
		t.Error("update was not applied")
	}
}
