// Package index implements the secondary-index registry: named B-tree
// indexes bound to one table/column pair each, kept consistent with table
// mutations through the hooks the executor invokes around every write.
package index

import (
	"fmt"
	"log/slog"

	"github.com/Fa23-max/Relational-database-management-system/internal/btree"
	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// Index is one named B-tree bound permanently to a table column. Rows whose
// bound column is NULL or absent are not indexed.
type Index struct {
	Name   string
	Table  string
	Column string

	tree *btree.Tree
}

// Search returns the row ids stored under key.
func (ix *Index) Search(key value.Value) ([]int64, error) {
	return ix.tree.Search(key)
}

// SearchRange returns every (key, rowID) entry with lo <= key <= hi in
// ascending key order.
func (ix *Index) SearchRange(lo, hi value.Value) ([]btree.Entry, error) {
	return ix.tree.SearchRange(lo, hi)
}

// Entries dumps the index in ascending key order.
func (ix *Index) Entries() []btree.Entry {
	return ix.tree.Entries()
}

// Manager owns every index of one engine instance. Indexes live in memory
// only: they are rebuilt by CREATE INDEX statements, not restored from disk.
type Manager struct {
	order        int
	indexes      map[string]*Index
	tableIndexes map[string][]string
}

// NewManager builds an empty registry whose trees use the given order; zero
// or negative means btree.DefaultOrder.
func NewManager(order int) *Manager {
	if order < 2 {
		order = btree.DefaultOrder
	}
	return &Manager{
		order:        order,
		indexes:      make(map[string]*Index),
		tableIndexes: make(map[string][]string),
	}
}

func (m *Manager) Order() int { return m.order }

// Create registers a new index over the declared column and backfills it from
// the rows the table already holds. The caller is responsible for having
// resolved table and column against the schema.
func (m *Manager) Create(name, table, column string, rows []record.Row) (*Index, error) {
	if _, ok := m.indexes[name]; ok {
		return nil, &sqlerr.IndexExistsError{Name: name}
	}

	tree, err := btree.New(m.order)
	if err != nil {
		return nil, fmt.Errorf("index: build tree for %q: %w", name, err)
	}
	ix := &Index{Name: name, Table: table, Column: column, tree: tree}

	backfilled := 0
	for _, row := range rows {
		ok, err := ix.insertRow(row)
		if err != nil {
			return nil, fmt.Errorf("index: backfill %q: %w", name, err)
		}
		if ok {
			backfilled++
		}
	}

	m.indexes[name] = ix
	m.tableIndexes[table] = append(m.tableIndexes[table], name)
	slog.Debug("index.created", "name", name, "table", table, "column", column, "backfilled", backfilled)
	return ix, nil
}

// Drop removes an index and its table association.
func (m *Manager) Drop(name string) error {
	ix, ok := m.indexes[name]
	if !ok {
		return &sqlerr.IndexNotFoundError{Name: name}
	}
	delete(m.indexes, name)

	names := m.tableIndexes[ix.Table]
	for i, got := range names {
		if got == name {
			m.tableIndexes[ix.Table] = append(names[:i], names[i+1:]...)
			break
		}
	}
	if len(m.tableIndexes[ix.Table]) == 0 {
		delete(m.tableIndexes, ix.Table)
	}
	slog.Debug("index.dropped", "name", name, "table", ix.Table)
	return nil
}

// Lookup resolves an index by name.
func (m *Manager) Lookup(name string) (*Index, error) {
	ix, ok := m.indexes[name]
	if !ok {
		return nil, &sqlerr.IndexNotFoundError{Name: name}
	}
	return ix, nil
}

// TableIndexes returns the table's indexes in creation order.
func (m *Manager) TableIndexes(table string) []*Index {
	names := m.tableIndexes[table]
	out := make([]*Index, 0, len(names))
	for _, name := range names {
		out = append(out, m.indexes[name])
	}
	return out
}

// FindForColumn returns the first index bound to exactly this table column,
// the one an index-assisted lookup may use.
func (m *Manager) FindForColumn(table, column string) (*Index, bool) {
	for _, ix := range m.TableIndexes(table) {
		if ix.Column == column {
			return ix, true
		}
	}
	return nil, false
}

// OnInsert adds a freshly stored row to every index of its table. The row
// must already carry its assigned row id.
func (m *Manager) OnInsert(table string, row record.Row) error {
	for _, ix := range m.TableIndexes(table) {
		if _, err := ix.insertRow(row); err != nil {
			return err
		}
	}
	return nil
}

// OnRemove drops the index entries of rows about to be mutated or deleted.
// Together with a post-mutation OnInsert per surviving row, this is the
// two-phase maintenance that keeps every index consistent within a statement.
func (m *Manager) OnRemove(table string, rows []record.Row) error {
	for _, ix := range m.TableIndexes(table) {
		for _, row := range rows {
			key, ok := row.Value(ix.Column)
			if !ok || key.IsNull() {
				continue
			}
			rowID, ok := row.RowID()
			if !ok {
				continue
			}
			if _, err := ix.tree.Remove(key, rowID); err != nil {
				return fmt.Errorf("index: remove entry from %q: %w", ix.Name, err)
			}
		}
	}
	return nil
}

// insertRow indexes one row, reporting whether an entry was added. NULL and
// absent keys, and rows without a row id, are skipped.
func (ix *Index) insertRow(row record.Row) (bool, error) {
	key, ok := row.Value(ix.Column)
	if !ok || key.IsNull() {
		return false, nil
	}
	rowID, ok := row.RowID()
	if !ok {
		return false, nil
	}
	if err := ix.tree.Insert(key, rowID); err != nil {
		return false, fmt.Errorf("index: insert into %q: %w", ix.Name, err)
	}
	return true, nil
}
