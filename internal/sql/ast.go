// Package sql defines the typed statement values the engine executes. They
// are what an external SQL parser would produce; nothing in this module
// tokenizes text.
package sql

import (
	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// Wildcard marks "all columns" inside a Select column list.
const Wildcard = "*"

// Statement is a fully typed statement ready for execution.
type Statement interface {
	stmtNode()
}

// Select reads rows from one table, optionally filtered, joined and
// projected.
type Select struct {
	Columns []string
	Table   string
	Where   *Predicate
	Join    *Join
}

// Insert adds one row, its values matched positionally against the table's
// column order. Trailing columns may be left without a value.
type Insert struct {
	Table  string
	Values []value.Value
}

// Update applies assignments to every row matching Where (all rows when nil).
type Update struct {
	Table       string
	Assignments []Assignment
	Where       *Predicate
}

// Delete removes every row matching Where (all rows when nil).
type Delete struct {
	Table string
	Where *Predicate
}

// CreateTable declares a new table.
type CreateTable struct {
	Name    string
	Columns []record.Column
}

// CreateIndex declares a new B-tree index over one column.
type CreateIndex struct {
	Name   string
	Table  string
	Column string
}

func (*Select) stmtNode()      {}
func (*Insert) stmtNode()      {}
func (*Update) stmtNode()      {}
func (*Delete) stmtNode()      {}
func (*CreateTable) stmtNode() {}
func (*CreateIndex) stmtNode() {}

// Assignment sets one column to a literal value.
type Assignment struct {
	Column string
	Value  value.Value
}

// Operand is one side of a predicate: a column reference resolved against the
// current row, or a literal value.
type Operand interface {
	operandNode()
}

// ColumnRef names a column of the row under evaluation.
type ColumnRef struct {
	Name string
}

// Literal is a constant value.
type Literal struct {
	Value value.Value
}

func (ColumnRef) operandNode() {}
func (Literal) operandNode()   {}

// Col builds a column-reference operand.
func Col(name string) ColumnRef { return ColumnRef{Name: name} }

// Lit builds a literal operand.
func Lit(v value.Value) Literal { return Literal{Value: v} }

// Predicate is a binary comparison between two operands.
type Predicate struct {
	Left  Operand
	Op    value.CompareOp
	Right Operand
}

// Join describes an inner, first-match join against another table.
type Join struct {
	Table       string
	LeftColumn  string
	RightColumn string
}
