package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// schemaHashDomain separates the schema identity hash from any other
// SHA-256 use; bump the version suffix on any layout change.
const schemaHashDomain = "alarmstore/schema/v1"

// Column is one declared column of an entity table.
type Column struct {
	Name     string
	Nullable bool
}

// Table declares an entity table: its name, primary key column, and the
// full column list in declaration order. All entity SQL is derived from
// these declarations, so statement text, bind order, and the schema
// identity hash cannot drift apart.
type Table struct {
	Name    string
	Key     string
	Columns []Column
}

var (
	// Alarms holds the configured alarms.
	Alarms = Table{
		Name: "alarms",
		Key:  "id",
		Columns: []Column{
			{Name: "id"},
			{Name: "time"},
			{Name: "enabled"},
			{Name: "label"},
			{Name: "mission_type"},
			{Name: "difficulty"},
			{Name: "repeat_mode"},
			{Name: "custom_days"},
			{Name: "skip_holidays"},
			{Name: "created_at"},
		},
	}

	// Records holds the wake-up history.
	Records = Table{
		Name: "wakeup_records",
		Key:  "id",
		Columns: []Column{
			{Name: "id"},
			{Name: "date"},
			{Name: "time"},
			{Name: "alarm_label", Nullable: true},
			{Name: "alarm_id", Nullable: true},
			{Name: "timestamp"},
		},
	}

	// Settings holds the singleton app settings row.
	Settings = Table{
		Name: "app_settings",
		Key:  "id",
		Columns: []Column{
			{Name: "id"},
			{Name: "theme_mode"},
			{Name: "language"},
			{Name: "anti_snooze_enabled"},
			{Name: "anti_snooze_interval"},
			{Name: "anti_snooze_count"},
			{Name: "safety_notice_accepted"},
		},
	}
)

// entityTables lists every table whose rows are user data. store_meta is
// deliberately absent: it survives wipes and restores.
var entityTables = []Table{Alarms, Records, Settings}

func (t Table) columnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// InsertOrReplaceSQL binds every column in declaration order.
func (t Table) InsertOrReplaceSQL() string {
	return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(t.columnNames(), ", "), placeholders(len(t.Columns)))
}

// UpdateSQL sets every non-key column in declaration order, then binds
// the key.
func (t Table) UpdateSQL() string {
	var sets []string
	for _, c := range t.Columns {
		if c.Name == t.Key {
			continue
		}
		sets = append(sets, c.Name+" = ?")
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		t.Name, strings.Join(sets, ", "), t.Key)
}

// DeleteByKeySQL binds the key.
func (t Table) DeleteByKeySQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.Name, t.Key)
}

// DeleteAllSQL removes every row.
func (t Table) DeleteAllSQL() string {
	return "DELETE FROM " + t.Name
}

// SelectSQL selects every declared column. where and order are appended
// verbatim when non-empty; both come from code, never from user input.
func (t Table) SelectSQL(where, order string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(t.columnNames(), ", "), t.Name)
	if where != "" {
		fmt.Fprintf(&b, " WHERE %s", where)
	}
	if order != "" {
		fmt.Fprintf(&b, " ORDER BY %s", order)
	}
	return b.String()
}

// mutationStatements lists every schema-derived write statement, one set
// per entity table. Prepared eagerly at open.
func mutationStatements() []string {
	var stmts []string
	for _, t := range entityTables {
		stmts = append(stmts,
			t.InsertOrReplaceSQL(),
			t.UpdateSQL(),
			t.DeleteByKeySQL(),
			t.DeleteAllSQL(),
		)
	}
	return stmts
}

// identity renders the table's shape in a canonical text form:
// name:key(col,col?,...), where ? marks a nullable column.
func (t Table) identity() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%s(", t.Name, t.Key)
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.Name)
		if c.Nullable {
			b.WriteByte('?')
		}
	}
	b.WriteByte(')')
	return b.String()
}

// SchemaHash returns the hex-encoded SHA-256 identity of the declared
// schema. Any change to a table name, key, column name, column order, or
// nullability produces a different hash.
func SchemaHash() string {
	h := sha256.New()
	h.Write([]byte(schemaHashDomain))
	h.Write([]byte{0})

	identities := make([]string, len(entityTables))
	for i, t := range entityTables {
		identities[i] = t.identity()
	}
	h.Write([]byte(strings.Join(identities, "\n")))

	return hex.EncodeToString(h.Sum(nil))
}
