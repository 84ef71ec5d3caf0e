// Package sqlerr defines the typed errors the engine returns to callers.
// Callers discriminate with errors.As; the groups below map onto the four
// error families the engine reports: schema errors, constraint violations,
// query errors and index errors.
package sqlerr

import (
	"fmt"

	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// Schema errors: a statement referenced a table or column that does not exist,
// or tried to create one that already does.

type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q does not exist", e.Table)
}

type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Table)
}

type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q does not exist in table %q", e.Column, e.Table)
}

// Constraint violations: a row failed validation against its declared schema.

type NotNullError struct {
	Table  string
	Column string
}

func (e *NotNullError) Error() string {
	return fmt.Sprintf("column %q in table %q cannot be NULL", e.Column, e.Table)
}

type UniqueError struct {
	Table  string
	Column string
	Value  value.Value
}

func (e *UniqueError) Error() string {
	return fmt.Sprintf("duplicate value %s for unique column %q in table %q", e.Value, e.Column, e.Table)
}

type TypeMismatchError struct {
	Table  string
	Column string
	Want   string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q in table %q expects %s, got %s", e.Column, e.Table, e.Want, e.Got)
}

type ValueCountError struct {
	Table string
	Want  int
	Got   int
}

func (e *ValueCountError) Error() string {
	return fmt.Sprintf("table %q has %d columns, got %d values", e.Table, e.Want, e.Got)
}

// QueryError: a statement was malformed or could not be evaluated, e.g. a
// predicate comparing incomparable kinds. Wraps the underlying cause when
// there is one.
type QueryError struct {
	Msg string
	Err error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *QueryError) Unwrap() error { return e.Err }

// Index errors.

type IndexExistsError struct {
	Name string
}

func (e *IndexExistsError) Error() string {
	return fmt.Sprintf("index %q already exists", e.Name)
}

type IndexNotFoundError struct {
	Name string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index %q does not exist", e.Name)
}
