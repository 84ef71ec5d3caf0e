// Package table implements the in-memory row store: an ordered row sequence
// bound to one schema, with row-id assignment and constraint enforcement.
package table

import (
	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// MatchFunc decides whether a row satisfies a statement's predicate. A nil
// MatchFunc matches every row.
type MatchFunc func(record.Row) (bool, error)

// Table owns its rows exclusively: rows enter by value on Insert and leave as
// independent copies on Select, so no caller can alias stored state.
type Table struct {
	schema    record.Schema
	rows      []record.Row
	nextRowID int64
}

func New(schema record.Schema) *Table {
	return &Table{schema: schema, nextRowID: 1}
}

func (t *Table) Name() string          { return t.schema.Name }
func (t *Table) Schema() record.Schema { return t.schema }
func (t *Table) RowCount() int         { return len(t.rows) }

// NextRowID exposes the counter for diagnostics; it only ever grows.
func (t *Table) NextRowID() int64 { return t.nextRowID }

// Insert validates the row against the schema, rejects values colliding with
// an existing row on a unique column, assigns the next row id (unless the row
// was restored from storage and already carries one) and appends it. Returns
// the row id under which the row was stored.
func (t *Table) Insert(row record.Row) (int64, error) {
	if err := t.schema.Validate(row); err != nil {
		return 0, err
	}
	if err := t.checkUnique(row, -1); err != nil {
		return 0, err
	}

	stored := row.Clone()
	id, ok := stored.RowID()
	if !ok {
		id = t.nextRowID
		stored[record.RowIDColumn] = value.NewInt(id)
	}
	if id >= t.nextRowID {
		t.nextRowID = id + 1
	}
	t.rows = append(t.rows, stored)
	return id, nil
}

// Select returns independent copies of every row. A nil or empty column list,
// or one containing the wildcard marker "*", keeps all stored columns;
// otherwise rows are projected to the requested columns, silently omitting
// names a row does not hold.
func (t *Table) Select(columns []string) []record.Row {
	all := len(columns) == 0
	for _, c := range columns {
		if c == "*" {
			all = true
			break
		}
	}

	out := make([]record.Row, 0, len(t.rows))
	for _, row := range t.rows {
		if all {
			out = append(out, row.Clone())
			continue
		}
		proj := make(record.Row, len(columns))
		for _, c := range columns {
			if v, ok := row[c]; ok {
				proj[c] = v
			}
		}
		out = append(out, proj)
	}
	return out
}

// Update applies assignments to every row matching match, in table order,
// re-validating each row's types, NOT_NULL columns and unique constraints.
// Each row is staged and committed individually: when validation fails the
// failing row keeps its old state, but rows committed earlier in the same
// statement stay mutated (there is no statement-level rollback). Returns the
// number of rows committed.
func (t *Table) Update(assignments map[string]value.Value, match MatchFunc) (int, error) {
	count := 0
	for i, row := range t.rows {
		ok, err := t.matches(row, match)
		if err != nil {
			return count, err
		}
		if !ok {
			continue
		}

		staged := row.Clone()
		for col, v := range assignments {
			staged[col] = v
		}
		if err := t.schema.Validate(staged); err != nil {
			return count, err
		}
		id, _ := staged.RowID()
		if err := t.checkUnique(staged, id); err != nil {
			return count, err
		}

		t.rows[i] = staged
		count++
	}
	return count, nil
}

// Delete removes every row matching match and returns how many were removed.
// A predicate error leaves the table unchanged.
func (t *Table) Delete(match MatchFunc) (int, error) {
	keep := make([]bool, len(t.rows))
	removed := 0
	for i, row := range t.rows {
		ok, err := t.matches(row, match)
		if err != nil {
			return 0, err
		}
		keep[i] = !ok
		if ok {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	rows := make([]record.Row, 0, len(t.rows)-removed)
	for i, row := range t.rows {
		if keep[i] {
			rows = append(rows, row)
		}
	}
	t.rows = rows
	return removed, nil
}

// Restore adopts rows loaded from storage, bypassing validation, and advances
// the row-id counter past the highest id seen so ids are never reused.
func (t *Table) Restore(rows []record.Row) {
	t.rows = rows
	t.nextRowID = 1
	for _, row := range rows {
		if id, ok := row.RowID(); ok && id >= t.nextRowID {
			t.nextRowID = id + 1
		}
	}
}

func (t *Table) matches(row record.Row, match MatchFunc) (bool, error) {
	if match == nil {
		return true, nil
	}
	return match(row)
}

// checkUnique scans all live rows for a collision on any unique column of
// row. selfID excludes the row being updated from its own comparison; pass a
// negative id on insert.
func (t *Table) checkUnique(row record.Row, selfID int64) error {
	for _, col := range t.schema.UniqueColumns() {
		v, ok := row.Value(col.Name)
		if !ok || v.IsNull() {
			continue
		}
		for _, existing := range t.rows {
			if id, ok := existing.RowID(); ok && id == selfID {
				continue
			}
			if got, ok := existing.Value(col.Name); ok && got.Equal(v) {
				return &sqlerr.UniqueError{Table: t.schema.Name, Column: col.Name, Value: v}
			}
		}
	}
	return nil
}
