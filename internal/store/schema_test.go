package store

import (
	"strings"
	"testing"
)

func TestTable_InsertOrReplaceSQL(t *testing.T) {
	got := Settings.InsertOrReplaceSQL()
	want := "INSERT OR REPLACE INTO app_settings " +
		"(id, theme_mode, language, anti_snooze_enabled, anti_snooze_interval, anti_snooze_count, safety_notice_accepted) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?)"
	if got != want {
		t.Errorf("InsertOrReplaceSQL()\n got %q\nwant %q", got, want)
	}
}

func TestTable_UpdateSQL(t *testing.T) {
	got := Records.UpdateSQL()
	want := "UPDATE wakeup_records SET date = ?, time = ?, alarm_label = ?, alarm_id = ?, timestamp = ? WHERE id = ?"
	if got != want {
		t.Errorf("UpdateSQL()\n got %q\nwant %q", got, want)
	}
}

func TestTable_DeleteSQL(t *testing.T) {
	if got, want := Alarms.DeleteByKeySQL(), "DELETE FROM alarms WHERE id = ?"; got != want {
		t.Errorf("DeleteByKeySQL() = %q, want %q", got, want)
	}
	if got, want := Alarms.DeleteAllSQL(), "DELETE FROM alarms"; got != want {
		t.Errorf("DeleteAllSQL() = %q, want %q", got, want)
	}
}

func TestTable_SelectSQL(t *testing.T) {
	tests := []struct {
		name  string
		where string
		order string
		want  string
	}{
		{
			name: "bare",
			want: "SELECT id, date, time, alarm_label, alarm_id, timestamp FROM wakeup_records",
		},
		{
			name:  "where only",
			where: "date = ?",
			want:  "SELECT id, date, time, alarm_label, alarm_id, timestamp FROM wakeup_records WHERE date = ?",
		},
		{
			name:  "where and order",
			where: "date LIKE ? || '%'",
			order: "date ASC",
			want:  "SELECT id, date, time, alarm_label, alarm_id, timestamp FROM wakeup_records WHERE date LIKE ? || '%' ORDER BY date ASC",
		},
		{
			name:  "order only",
			order: "timestamp DESC",
			want:  "SELECT id, date, time, alarm_label, alarm_id, timestamp FROM wakeup_records ORDER BY timestamp DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Records.SelectSQL(tt.where, tt.order); got != tt.want {
				t.Errorf("SelectSQL(%q, %q)\n got %q\nwant %q", tt.where, tt.order, got, tt.want)
			}
		})
	}
}

func TestSchemaHash_Stable(t *testing.T) {
	h1 := SchemaHash()
	h2 := SchemaHash()
	if h1 != h2 {
		t.Errorf("hash not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h1))
	}
	if strings.ToLower(h1) != h1 {
		t.Error("hash should be lowercase hex")
	}
}

func TestSchemaHash_SensitiveToShape(t *testing.T) {
	base := Alarms.identity()

	renamed := Alarms
	renamed.Name = "alarms_v2"
	if renamed.identity() == base {
		t.Error("identity ignores table name")
	}

	rekeyed := Alarms
	rekeyed.Key = "time"
	if rekeyed.identity() == base {
		t.Error("identity ignores key column")
	}

	reordered := Alarms
	reordered.Columns = append([]Column{}, Alarms.Columns...)
	reordered.Columns[1], reordered.Columns[2] = reordered.Columns[2], reordered.Columns[1]
	if reordered.identity() == base {
		t.Error("identity ignores column order")
	}

	relaxed := Alarms
	relaxed.Columns = append([]Column{}, Alarms.Columns...)
	relaxed.Columns[3].Nullable = true
	if relaxed.identity() == base {
		t.Error("identity ignores nullability")
	}
}

func TestSchemaHash_CoversDeclaredTables(t *testing.T) {
	// store_meta is infrastructure, not user data; it must not gate opens.
	for _, tbl := range entityTables {
		if tbl.Name == "store_meta" {
			t.Error("store_meta must not be an entity table")
		}
	}
	if len(entityTables) != 3 {
		t.Errorf("expected 3 entity tables, got %d", len(entityTables))
	}
}
