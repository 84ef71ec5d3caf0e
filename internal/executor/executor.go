// Package executor turns parsed statements into reads and writes against
// the storage engine, keeping secondary indexes in step with every
// mutation. SELECT goes through a small planner that picks between a full
// scan and a point probe of a matching index; writes re-validate rows at
// the table layer and persist the touched table afterwards.
package executor

import (
	"fmt"
	"log/slog"

	"github.com/Fa23-max/Relational-database-management-system/internal/index"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/storage"
)

// Executor runs statements against one storage engine and one index
// manager. It is not safe for concurrent use.
type Executor struct {
	storage *storage.Engine
	indexes *index.Manager
}

func New(storage *storage.Engine, indexes *index.Manager) *Executor {
	return &Executor{storage: storage, indexes: indexes}
}

// Execute dispatches a single statement and returns its result. Failed
// statements leave previously committed rows in place; UPDATE applies row
// by row, so an error partway through keeps the rows already updated (see
// Table.Update).
func (e *Executor) Execute(stmt sql.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *sql.Select:
		return e.execSelect(s)
	case *sql.Insert:
		return e.execInsert(s)
	case *sql.Update:
		return e.execUpdate(s)
	case *sql.Delete:
		return e.execDelete(s)
	case *sql.CreateTable:
		return e.execCreateTable(s)
	case *sql.CreateIndex:
		return e.execCreateIndex(s)
	default:
		return nil, &sqlerr.QueryError{Msg: fmt.Sprintf("unsupported statement %T", stmt)}
	}
}

func (e *Executor) execCreateTable(s *sql.CreateTable) (*Result, error) {
	if _, err := e.storage.CreateTable(s.Name, s.Columns); err != nil {
		return nil, err
	}
	if err := e.storage.SaveTable(s.Name); err != nil {
		return nil, err
	}
	slog.Debug("executor.table.created", "table", s.Name, "columns", len(s.Columns))
	return &Result{Message: fmt.Sprintf("Table '%s' created successfully", s.Name)}, nil
}

func (e *Executor) execCreateIndex(s *sql.CreateIndex) (*Result, error) {
	tbl, err := e.storage.Table(s.Table)
	if err != nil {
		return nil, err
	}
	schema := tbl.Schema()
	if !schema.HasColumn(s.Column) {
		return nil, &sqlerr.ColumnNotFoundError{Table: s.Table, Column: s.Column}
	}
	if _, err := e.indexes.Create(s.Name, s.Table, s.Column, tbl.Select(nil)); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("Index '%s' created successfully", s.Name)}, nil
}
