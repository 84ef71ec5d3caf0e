package executor

import (
	"log/slog"
	"slices"

	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/table"
)

// execSelect materializes the candidate rows (via index probe or scan),
// applies the optional join and projects the requested columns, in that
// order.
func (e *Executor) execSelect(s *sql.Select) (*Result, error) {
	tbl, err := e.storage.Table(s.Table)
	if err != nil {
		return nil, err
	}

	var rows []record.Row
	switch p := e.buildPlan(s.Table, s.Where).(type) {
	case indexLookupPlan:
		rows, err = e.fetchByIndex(tbl, p)
		if err != nil {
			return nil, err
		}
		slog.Debug("executor.select.index", "table", s.Table, "index", p.index.Name, "rows", len(rows))
	default:
		rows, err = filterRows(tbl, s.Where)
		if err != nil {
			return nil, err
		}
	}

	var rightSchema *record.Schema
	if s.Join != nil {
		rightTbl, err := e.storage.Table(s.Join.Table)
		if err != nil {
			return nil, err
		}
		rs := rightTbl.Schema()
		rightSchema = &rs
		rows = joinRows(rows, rightTbl, s.Join)
	}

	cols := projectionHeader(s, tbl.Schema(), rightSchema)
	out := make([]record.Row, len(rows))
	for i, row := range rows {
		out[i] = projectRow(row, cols)
	}
	return &Result{Columns: cols, Rows: out}, nil
}

// filterRows scans the whole table and keeps the rows the predicate
// matches.
func filterRows(tbl *table.Table, where *sql.Predicate) ([]record.Row, error) {
	all := tbl.Select(nil)
	if where == nil {
		return all, nil
	}
	schema := tbl.Schema()
	var out []record.Row
	for _, row := range all {
		ok, err := evalPredicate(where, row, &schema)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// fetchByIndex probes the index for the key and fetches the referenced
// rows in table order.
func (e *Executor) fetchByIndex(tbl *table.Table, p indexLookupPlan) ([]record.Row, error) {
	ids, err := p.index.Search(p.key)
	if err != nil {
		return nil, &sqlerr.QueryError{Msg: "index lookup failed", Err: err}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []record.Row
	for _, row := range tbl.Select(nil) {
		if id, ok := row.RowID(); ok && want[id] {
			out = append(out, row)
		}
	}
	if len(out) < len(want) {
		// every index entry must point at a live row; a shortfall means the
		// maintenance hooks were bypassed somewhere
		slog.Warn("executor.select.dangling_index_entries",
			"index", p.index.Name, "entries", len(want), "rows", len(out))
	}
	return out, nil
}

// joinRows merges each left row with the first right row whose join-key
// value equals the left one. Left rows with a null or absent key, or with
// no counterpart on the right, are dropped. Right columns enter the merged
// row under a "<righttable>_" prefix; the right row id is not carried over.
func joinRows(rows []record.Row, rightTbl *table.Table, j *sql.Join) []record.Row {
	rightRows := rightTbl.Select(nil)
	prefix := j.Table + "_"
	var out []record.Row
	for _, lrow := range rows {
		lkey, ok := lrow.Value(j.LeftColumn)
		if !ok || lkey.IsNull() {
			continue
		}
		for _, rrow := range rightRows {
			rkey, _ := rrow.Value(j.RightColumn)
			if !lkey.Equal(rkey) {
				continue
			}
			merged := lrow.Clone()
			for col, v := range rrow {
				if col == record.RowIDColumn {
					continue
				}
				merged[prefix+col] = v
			}
			out = append(out, merged)
			break
		}
	}
	return out
}

// projectionHeader resolves the output column list. A wildcard (or empty)
// selection expands to the left schema's columns plus the row id, followed
// by the prefixed right columns when a join is present. An explicit list
// is returned as requested.
func projectionHeader(s *sql.Select, schema record.Schema, rightSchema *record.Schema) []string {
	wildcard := len(s.Columns) == 0 || slices.Contains(s.Columns, sql.Wildcard)
	if !wildcard {
		return slices.Clone(s.Columns)
	}
	cols := append(schema.ColumnNames(), record.RowIDColumn)
	if rightSchema != nil {
		for _, name := range rightSchema.ColumnNames() {
			cols = append(cols, rightSchema.Name+"_"+name)
		}
	}
	return cols
}

// projectRow keeps only the listed columns, silently omitting names the
// row does not carry.
func projectRow(row record.Row, cols []string) record.Row {
	out := make(record.Row, len(cols))
	for _, c := range cols {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}
