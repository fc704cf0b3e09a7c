package store

import (
	"database/sql"
	"fmt"
)

// Rows wraps *sql.Rows with by-name column access so entity mapping stays
// resilient to column reordering in the result set. A required column
// missing from the result set is a SCHEMA_MISMATCH error, distinct from
// "no rows found", which is simply an empty iteration.
type Rows struct {
	table string
	rows  *sql.Rows
	index map[string]int
	vals  []any
}

// NewRows reads the result-set column layout. table is used only for
// error reporting.
func NewRows(table string, rows *sql.Rows) (*Rows, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, NewIO("read columns", err)
	}

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	return &Rows{
		table: table,
		rows:  rows,
		index: index,
		vals:  make([]any, len(cols)),
	}, nil
}

// Next advances to the next row and scans it. Returns false with a nil
// error at the end of the result set.
func (r *Rows) Next() (bool, error) {
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return false, NewIO("iterate rows", err)
		}
		return false, nil
	}

	ptrs := make([]any, len(r.vals))
	for i := range r.vals {
		r.vals[i] = nil
		ptrs[i] = &r.vals[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return false, NewIO("scan row", err)
	}
	return true, nil
}

// Close releases the underlying result set.
func (r *Rows) Close() error { return r.rows.Close() }

func (r *Rows) value(column string) (any, error) {
	i, ok := r.index[column]
	if !ok {
		return nil, NewSchemaMismatch(r.table, column, "column missing from result set")
	}
	return r.vals[i], nil
}

// Text returns a required text column. NULL here means the persisted data
// violates the declared shape.
func (r *Rows) Text(column string) (string, error) {
	v, err := r.value(column)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case nil:
		return "", NewDecode(r.table, column, fmt.Errorf("NULL in non-nullable column"))
	}
	return "", NewDecode(r.table, column, fmt.Errorf("unexpected type %T", v))
}

// NullText returns a nullable text column; NULL maps to nil.
func (r *Rows) NullText(column string) (*string, error) {
	v, err := r.value(column)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &t, nil
	case []byte:
		s := string(t)
		return &s, nil
	}
	return nil, NewDecode(r.table, column, fmt.Errorf("unexpected type %T", v))
}

// Int returns a required integer column.
func (r *Rows) Int(column string) (int64, error) {
	v, err := r.value(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case int64:
		return t, nil
	case nil:
		return 0, NewDecode(r.table, column, fmt.Errorf("NULL in non-nullable column"))
	}
	return 0, NewDecode(r.table, column, fmt.Errorf("unexpected type %T", v))
}

// Bool returns a required boolean column, stored as 0/1.
func (r *Rows) Bool(column string) (bool, error) {
	v, err := r.value(column)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case int64:
		return t != 0, nil
	case nil:
		return false, NewDecode(r.table, column, fmt.Errorf("NULL in non-nullable column"))
	}
	return false, NewDecode(r.table, column, fmt.Errorf("unexpected type %T", v))
}
