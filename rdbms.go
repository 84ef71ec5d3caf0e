// Package rdbms is the embeddable entry point to the engine: it owns the
// storage engine, the index manager and the executor, and exposes typed
// statements as its query surface. One Database corresponds to one data
// directory.
package rdbms

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/Fa23-max/Relational-database-management-system/internal/executor"
	"github.com/Fa23-max/Relational-database-management-system/internal/index"
	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/storage"
)

var ErrDatabaseClosed = errors.New("rdbms: database is closed")

// Result is the outcome of one executed statement.
type Result = executor.Result

// Options configures Open. Zero values fall back to the defaults: the
// "data" directory and the default B-tree order.
type Options struct {
	DataDir    string
	BTreeOrder int
}

// Database is a single-process engine instance. It is not safe for
// concurrent use; callers serialize access themselves.
type Database struct {
	storage *storage.Engine
	indexes *index.Manager
	exec    *executor.Executor
	closed  bool
}

// Open ensures the data directory exists, loads every table persisted under
// it and returns a ready database. Indexes are rebuilt per session via
// CreateIndex; they are not persisted.
func Open(opts Options) (*Database, error) {
	dir := opts.DataDir
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("rdbms: create data dir %s: %w", dir, err)
	}
	eng := storage.NewEngine(dir)
	if err := eng.LoadFromDisk(); err != nil {
		return nil, fmt.Errorf("rdbms: load %s: %w", dir, err)
	}
	idx := index.NewManager(opts.BTreeOrder)
	slog.Info("rdbms.opened", "data_dir", dir, "tables", len(eng.TableNames()))
	return &Database{storage: eng, indexes: idx, exec: executor.New(eng, idx)}, nil
}

// Execute runs one statement. Write statements persist the affected table
// before returning.
func (db *Database) Execute(stmt sql.Statement) (*executor.Result, error) {
	if db.closed {
		return nil, ErrDatabaseClosed
	}
	return db.exec.Execute(stmt)
}

// ListTables returns the names of all tables, sorted.
func (db *Database) ListTables() []string {
	return db.storage.TableNames()
}

// TableInfo describes one table and the indexes currently bound to it.
type TableInfo struct {
	Name       string
	Columns    []record.Column
	PrimaryKey string
	RowCount   int
	Indexes    []string
}

func (db *Database) TableInfo(name string) (*TableInfo, error) {
	tbl, err := db.storage.Table(name)
	if err != nil {
		return nil, err
	}
	schema := tbl.Schema()
	info := &TableInfo{
		Name:       schema.Name,
		Columns:    slices.Clone(schema.Columns),
		PrimaryKey: schema.PrimaryKey,
		RowCount:   tbl.RowCount(),
	}
	for _, ix := range db.indexes.TableIndexes(name) {
		info.Indexes = append(info.Indexes, ix.Name)
	}
	return info, nil
}

// CreateIndex builds a B-tree index over one column, backfilled from the
// table's current rows.
func (db *Database) CreateIndex(name, table, column string) error {
	if db.closed {
		return ErrDatabaseClosed
	}
	_, err := db.exec.Execute(&sql.CreateIndex{Name: name, Table: table, Column: column})
	return err
}

// DropIndex discards an index. Table data is untouched.
func (db *Database) DropIndex(name string) error {
	if db.closed {
		return ErrDatabaseClosed
	}
	return db.indexes.Drop(name)
}

// Close persists every table and marks the database unusable.
func (db *Database) Close() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	db.closed = true
	if err := db.storage.SaveToDisk(); err != nil {
		return fmt.Errorf("rdbms: save on close: %w", err)
	}
	slog.Info("rdbms.closed", "data_dir", db.storage.DataDir())
	return nil
}
