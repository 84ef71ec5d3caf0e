// Package storage implements the table registry and its persistence: one
// schema document and one rows document per table, under a single data
// directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/table"
)

const (
	schemaSuffix = "_schema.json"
	rowsSuffix   = "_rows.json"
)

// Engine owns every table of one database instance and knows how to persist
// them. Writes are full rewrites of a table's two files and are not atomic
// against a crash: a crash mid-write can leave a schema file and its rows
// file out of sync.
type Engine struct {
	dataDir string
	tables  map[string]*table.Table
}

func NewEngine(dataDir string) *Engine {
	return &Engine{
		dataDir: dataDir,
		tables:  make(map[string]*table.Table),
	}
}

func (e *Engine) DataDir() string { return e.dataDir }

// CreateTable registers a new table, deriving the primary key from the first
// column carrying PRIMARY_KEY. The table exists in memory only until the next
// save.
func (e *Engine) CreateTable(name string, cols []record.Column) (*table.Table, error) {
	if _, ok := e.tables[name]; ok {
		return nil, &sqlerr.TableExistsError{Table: name}
	}
	tbl := table.New(record.NewSchema(name, cols))
	e.tables[name] = tbl
	return tbl, nil
}

func (e *Engine) Table(name string) (*table.Table, error) {
	tbl, ok := e.tables[name]
	if !ok {
		return nil, &sqlerr.TableNotFoundError{Table: name}
	}
	return tbl, nil
}

func (e *Engine) HasTable(name string) bool {
	_, ok := e.tables[name]
	return ok
}

// TableNames returns the registered table names, sorted.
func (e *Engine) TableNames() []string {
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SaveToDisk writes every registered table out.
func (e *Engine) SaveToDisk() error {
	for _, name := range e.TableNames() {
		if err := e.SaveTable(name); err != nil {
			return err
		}
	}
	return nil
}

// SaveTable rewrites one table's schema and rows documents in full.
func (e *Engine) SaveTable(name string) error {
	tbl, err := e.Table(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(e.dataDir, 0o755); err != nil {
		return fmt.Errorf("storage: create data dir %s: %w", e.dataDir, err)
	}

	schema := tbl.Schema()
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode schema for %s: %w", name, err)
	}
	if err := os.WriteFile(e.schemaPath(name), data, 0o644); err != nil {
		return fmt.Errorf("storage: write schema for %s: %w", name, err)
	}

	rows := tbl.Select(nil)
	data, err = json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode rows for %s: %w", name, err)
	}
	if err := os.WriteFile(e.rowsPath(name), data, 0o644); err != nil {
		return fmt.Errorf("storage: write rows for %s: %w", name, err)
	}

	slog.Debug("storage.table.saved", "table", name, "rows", len(rows), "dir", e.dataDir)
	return nil
}

// LoadFromDisk scans the data directory for every *_schema.json document,
// reconstructs each table and loads its rows file when present. Row ids
// resume past the highest persisted id. A missing data directory is an empty
// database, not an error.
func (e *Engine) LoadFromDisk() error {
	entries, err := os.ReadDir(e.dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: read data dir %s: %w", e.dataDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), schemaSuffix) {
			continue
		}
		if err := e.loadTable(filepath.Join(e.dataDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) loadTable(schemaPath string) error {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("storage: read schema %s: %w", schemaPath, err)
	}
	var schema record.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("storage: decode schema %s: %w", schemaPath, err)
	}

	tbl := table.New(schema)

	rowsPath := e.rowsPath(schema.Name)
	data, err = os.ReadFile(rowsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// a schema without a rows file is a valid empty table
	case err != nil:
		return fmt.Errorf("storage: read rows %s: %w", rowsPath, err)
	default:
		var rows []record.Row
		if err := json.Unmarshal(data, &rows); err != nil {
			return fmt.Errorf("storage: decode rows %s: %w", rowsPath, err)
		}
		tbl.Restore(rows)
	}

	e.tables[schema.Name] = tbl
	slog.Debug("storage.table.loaded", "table", schema.Name, "rows", tbl.RowCount())
	return nil
}

func (e *Engine) schemaPath(name string) string {
	return filepath.Join(e.dataDir, name+schemaSuffix)
}

func (e *Engine) rowsPath(name string) string {
	return filepath.Join(e.dataDir, name+rowsSuffix)
}
