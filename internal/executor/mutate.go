package executor

import (
	"log/slog"

	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// execInsert binds values to columns positionally. Supplying fewer values
// than columns leaves the tail columns absent; supplying more is an error.
func (e *Executor) execInsert(s *sql.Insert) (*Result, error) {
	tbl, err := e.storage.Table(s.Table)
	if err != nil {
		return nil, err
	}
	schema := tbl.Schema()
	if len(s.Values) > len(schema.Columns) {
		return nil, &sqlerr.ValueCountError{Table: s.Table, Want: len(schema.Columns), Got: len(s.Values)}
	}
	row := make(record.Row, len(s.Values))
	for i, v := range s.Values {
		row[schema.Columns[i].Name] = v
	}
	rowID, err := tbl.Insert(row)
	if err != nil {
		return nil, err
	}
	row[record.RowIDColumn] = value.NewInt(rowID)
	if err := e.indexes.OnInsert(s.Table, row); err != nil {
		return nil, err
	}
	if err := e.storage.SaveTable(s.Table); err != nil {
		return nil, err
	}
	slog.Debug("executor.insert", "table", s.Table, "row_id", rowID)
	return &Result{AffectedRows: 1, RowID: rowID}, nil
}

// execUpdate runs the two-phase index dance: matching rows leave the
// indexes before the mutation and re-enter afterwards in whatever state
// they ended up in. Because the table applies assignments row by row, an
// error partway through keeps the rows committed so far; the re-entry
// phase still runs so the indexes track the table's actual state.
func (e *Executor) execUpdate(s *sql.Update) (*Result, error) {
	tbl, err := e.storage.Table(s.Table)
	if err != nil {
		return nil, err
	}
	schema := tbl.Schema()
	assignments := make(map[string]value.Value, len(s.Assignments))
	for _, a := range s.Assignments {
		if !schema.HasColumn(a.Column) {
			return nil, &sqlerr.ColumnNotFoundError{Table: s.Table, Column: a.Column}
		}
		assignments[a.Column] = a.Value
	}

	matched, err := filterRows(tbl, s.Where)
	if err != nil {
		return nil, err
	}
	if err := e.indexes.OnRemove(s.Table, matched); err != nil {
		return nil, err
	}

	count, updateErr := tbl.Update(assignments, matchFunc(schema, s.Where))

	ids := rowIDSet(matched)
	for _, row := range tbl.Select(nil) {
		id, ok := row.RowID()
		if !ok || !ids[id] {
			continue
		}
		if err := e.indexes.OnInsert(s.Table, row); err != nil {
			return nil, err
		}
	}
	if updateErr != nil {
		return nil, updateErr
	}
	if err := e.storage.SaveTable(s.Table); err != nil {
		return nil, err
	}
	slog.Debug("executor.update", "table", s.Table, "rows", count)
	return &Result{AffectedRows: count}, nil
}

// execDelete removes the matching rows from the indexes first; the table
// delete then re-evaluates the same predicate over the same rows, so it
// cannot fail once the first pass has succeeded.
func (e *Executor) execDelete(s *sql.Delete) (*Result, error) {
	tbl, err := e.storage.Table(s.Table)
	if err != nil {
		return nil, err
	}
	matched, err := filterRows(tbl, s.Where)
	if err != nil {
		return nil, err
	}
	if err := e.indexes.OnRemove(s.Table, matched); err != nil {
		return nil, err
	}
	count, err := tbl.Delete(matchFunc(tbl.Schema(), s.Where))
	if err != nil {
		return nil, err
	}
	if err := e.storage.SaveTable(s.Table); err != nil {
		return nil, err
	}
	slog.Debug("executor.delete", "table", s.Table, "rows", count)
	return &Result{AffectedRows: count}, nil
}

func rowIDSet(rows []record.Row) map[int64]bool {
	ids := make(map[int64]bool, len(rows))
	for _, r := range rows {
		if id, ok := r.RowID(); ok {
			ids[id] = true
		}
	}
	return ids
}
