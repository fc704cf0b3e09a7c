package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies store failures so callers can branch on the kind
// of failure without parsing message text.
type ErrorCode string

const (
	// ErrCodeIO covers driver, filesystem, and transaction failures.
	ErrCodeIO ErrorCode = "IO"

	// ErrCodeSchemaMismatch means the database on disk was written with a
	// different schema revision, or a result set lacks a declared column.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"

	// ErrCodeNotFound means a targeted row does not exist where the
	// operation requires one.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDecode means a stored value could not be mapped back to its
	// typed form, for example an unknown enum tag.
	ErrCodeDecode ErrorCode = "DECODE"
)

// StoreError is the store's structured error. Code is always set; the
// remaining fields carry whatever context the failing operation had.
type StoreError struct {
	Code   ErrorCode
	Op     string
	Table  string
	Column string
	ID     string
	Err    error
}

func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Op != "" {
		fmt.Fprintf(&b, ": %s", e.Op)
	}
	if e.Table != "" {
		fmt.Fprintf(&b, ": table %s", e.Table)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ", column %s", e.Column)
	}
	if e.ID != "" {
		fmt.Fprintf(&b, ", id %s", e.ID)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewIO wraps a driver or filesystem failure.
func NewIO(op string, err error) error {
	return &StoreError{Code: ErrCodeIO, Op: op, Err: err}
}

// NewSchemaMismatch reports a declared column missing from a result set
// or any other shape disagreement with the schema on disk.
func NewSchemaMismatch(table, column, msg string) error {
	return &StoreError{
		Code:   ErrCodeSchemaMismatch,
		Table:  table,
		Column: column,
		Err:    errors.New(msg),
	}
}

// NewNotFound reports a missing row where the operation requires one.
func NewNotFound(table, id string) error {
	return &StoreError{Code: ErrCodeNotFound, Table: table, ID: id}
}

// NewDecode reports a stored value that could not be mapped back to its
// typed form.
func NewDecode(table, column string, err error) error {
	return &StoreError{Code: ErrCodeDecode, Table: table, Column: column, Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == code
}

// IsIO reports whether err is a driver or filesystem failure.
func IsIO(err error) bool { return hasCode(err, ErrCodeIO) }

// IsSchemaMismatch reports whether err is a schema shape disagreement.
func IsSchemaMismatch(err error) bool { return hasCode(err, ErrCodeSchemaMismatch) }

// IsNotFound reports whether err is a missing required row.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsDecode reports whether err is a stored-value decode failure.
func IsDecode(err error) bool { return hasCode(err, ErrCodeDecode) }
