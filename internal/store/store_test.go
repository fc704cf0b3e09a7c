package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"alarms", "wakeup_records", "app_settings", "store_meta"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_SchemaHashMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	// Simulate a database written by a different schema revision.
	_, err = s.db.Exec(
		"UPDATE store_meta SET value = 'deadbeef' WHERE key = ?", metaSchemaHashKey,
	)
	if err != nil {
		t.Fatalf("tamper with schema hash: %v", err)
	}
	s.Close()

	_, err = Open(path)
	if err == nil {
		t.Fatal("expected schema mismatch, got nil")
	}
	if !IsSchemaMismatch(err) {
		t.Errorf("expected SCHEMA_MISMATCH, got %v", err)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestPragmas(t *testing.T) {
	s := openTestStore(t)

	checks := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1", // NORMAL
		"foreign_keys": "1",
	}
	for name, want := range checks {
		if err := s.verifyPragma(name, want); err != nil {
			t.Errorf("pragma check failed: %v", err)
		}
	}
}

func TestWipe_ClearsEveryEntityTable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mustInsertAlarmRow(t, s, "a1", "07:00")
	mustExec(t, s, `INSERT INTO wakeup_records (id, date, time, alarm_label, alarm_id, timestamp)
		VALUES ('r1', '2024-05-01', '07:02', NULL, NULL, 1)`)
	mustExec(t, s, `INSERT INTO app_settings
		(id, theme_mode, language, anti_snooze_enabled, anti_snooze_interval, anti_snooze_count, safety_notice_accepted)
		VALUES (1, 'AUTO', 'zh', 0, 5, 2, 0)`)

	if err := s.Wipe(ctx); err != nil {
		t.Fatalf("Wipe() failed: %v", err)
	}

	for _, table := range []string{"alarms", "wakeup_records", "app_settings"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("table %s not empty after wipe: %d rows", table, n)
		}
	}

	// The meta table survives a wipe; the schema hash must stay valid.
	var hash string
	err := s.db.QueryRow("SELECT value FROM store_meta WHERE key = ?", metaSchemaHashKey).Scan(&hash)
	if err != nil {
		t.Fatalf("schema hash gone after wipe: %v", err)
	}
	if hash != SchemaHash() {
		t.Error("schema hash changed by wipe")
	}
}

// mustExec runs raw SQL against the test store.
func mustExec(t *testing.T, s *Store, query string, args ...any) {
	t.Helper()
	if _, err := s.db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

// mustInsertAlarmRow inserts a minimal valid alarm row outside the DAO
// layer, for engine-level tests.
func mustInsertAlarmRow(t *testing.T, s *Store, id, clock string) {
	t.Helper()
	mustExec(t, s, `INSERT INTO alarms
		(id, time, enabled, label, mission_type, difficulty, repeat_mode, custom_days, skip_holidays, created_at)
		VALUES (?, ?, 1, 'other', 'MATH', 2, 'WORKDAYS', '', 0, 1)`, id, clock)
}
