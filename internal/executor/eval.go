package executor

import (
	"fmt"

	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/table"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// resolveOperand produces the concrete value an operand stands for in the
// given row. A column that is declared by the schema but missing from the
// row reads as NULL; a column the schema does not know fails the statement.
func resolveOperand(op sql.Operand, row record.Row, schema *record.Schema) (value.Value, error) {
	switch o := op.(type) {
	case sql.Literal:
		return o.Value, nil
	case sql.ColumnRef:
		if v, ok := row[o.Name]; ok {
			return v, nil
		}
		if o.Name == record.RowIDColumn || schema.HasColumn(o.Name) {
			return value.Null(), nil
		}
		return value.Null(), &sqlerr.ColumnNotFoundError{Table: schema.Name, Column: o.Name}
	default:
		return value.Null(), &sqlerr.QueryError{Msg: fmt.Sprintf("unsupported operand %T", op)}
	}
}

// evalPredicate reports whether the row satisfies the predicate. A nil
// predicate matches everything. Comparing values of incomparable kinds
// fails the whole statement rather than dropping the row.
func evalPredicate(p *sql.Predicate, row record.Row, schema *record.Schema) (bool, error) {
	if p == nil {
		return true, nil
	}
	left, err := resolveOperand(p.Left, row, schema)
	if err != nil {
		return false, err
	}
	right, err := resolveOperand(p.Right, row, schema)
	if err != nil {
		return false, err
	}
	ok, err := left.Matches(p.Op, right)
	if err != nil {
		return false, &sqlerr.QueryError{
			Msg: fmt.Sprintf("cannot compare %s %s %s", left, p.Op, right),
			Err: err,
		}
	}
	return ok, nil
}

// matchFunc adapts a WHERE predicate into the callback the table layer
// feeds each row through. A nil predicate yields a nil matcher, which the
// table treats as match-all.
func matchFunc(schema record.Schema, where *sql.Predicate) table.MatchFunc {
	if where == nil {
		return nil
	}
	return func(r record.Row) (bool, error) {
		return evalPredicate(where, r, &schema)
	}
}
