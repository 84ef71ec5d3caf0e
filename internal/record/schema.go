// Package record defines the table schema model: typed columns with
// constraints, plus per-row validation against a declared schema.
package record

import (
	"encoding/json"
	"fmt"

	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// DataType is a column's declared type.
type DataType uint8

const (
	TypeInt DataType = iota
	TypeText
	TypeFloat
	TypeBool
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeText:
		return "TEXT"
	case TypeFloat:
		return "FLOAT"
	case TypeBool:
		return "BOOL"
	default:
		return fmt.Sprintf("TYPE(%d)", t)
	}
}

// Accepts reports whether a value of kind k may be stored in a column of this
// type. FLOAT columns accept integer values; nothing else coerces.
func (t DataType) Accepts(k value.Kind) bool {
	switch t {
	case TypeInt:
		return k == value.KindInt
	case TypeText:
		return k == value.KindText
	case TypeFloat:
		return k == value.KindFloat || k == value.KindInt
	case TypeBool:
		return k == value.KindBool
	default:
		return false
	}
}

func (t DataType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DataType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "INT":
		*t = TypeInt
	case "TEXT":
		*t = TypeText
	case "FLOAT":
		*t = TypeFloat
	case "BOOL":
		*t = TypeBool
	default:
		return fmt.Errorf("record: unknown data type %q", s)
	}
	return nil
}

// Constraint is a per-column rule enforced on insert and update.
type Constraint uint8

const (
	PrimaryKey Constraint = iota
	Unique
	NotNull
)

func (c Constraint) String() string {
	switch c {
	case PrimaryKey:
		return "PRIMARY_KEY"
	case Unique:
		return "UNIQUE"
	case NotNull:
		return "NOT_NULL"
	default:
		return fmt.Sprintf("CONSTRAINT(%d)", c)
	}
}

func (c Constraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Constraint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "PRIMARY_KEY":
		*c = PrimaryKey
	case "UNIQUE":
		*c = Unique
	case "NOT_NULL":
		*c = NotNull
	default:
		return fmt.Errorf("record: unknown constraint %q", s)
	}
	return nil
}

// Column is one declared table column.
type Column struct {
	Name        string       `json:"name"`
	Type        DataType     `json:"data_type"`
	Constraints []Constraint `json:"constraints"`
}

func (c Column) HasConstraint(want Constraint) bool {
	for _, got := range c.Constraints {
		if got == want {
			return true
		}
	}
	return false
}

// IsUnique reports whether the column demands distinct values, either via an
// explicit UNIQUE constraint or by being a primary key.
func (c Column) IsUnique() bool {
	return c.HasConstraint(PrimaryKey) || c.HasConstraint(Unique)
}

// Schema is an ordered column list plus the derived primary key column name
// (empty when no column carries PRIMARY_KEY). Column order is the positional
// mapping for value-list inserts.
type Schema struct {
	Name       string   `json:"name"`
	Columns    []Column `json:"columns"`
	PrimaryKey string   `json:"primary_key"`
}

// NewSchema builds a schema and derives the primary key from the first column
// carrying PRIMARY_KEY.
func NewSchema(name string, cols []Column) Schema {
	s := Schema{Name: name, Columns: make([]Column, len(cols))}
	copy(s.Columns, cols)
	for i := range s.Columns {
		if s.Columns[i].Constraints == nil {
			s.Columns[i].Constraints = []Constraint{}
		}
		if s.PrimaryKey == "" && s.Columns[i].HasConstraint(PrimaryKey) {
			s.PrimaryKey = s.Columns[i].Name
		}
	}
	return s
}

func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (s *Schema) HasColumn(name string) bool {
	_, ok := s.Column(name)
	return ok
}

// ColumnNames returns the declared column names in schema order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// UniqueColumns returns every column whose values must stay distinct.
func (s *Schema) UniqueColumns() []Column {
	var out []Column
	for _, c := range s.Columns {
		if c.IsUnique() {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks one row against the schema: every NOT_NULL column must hold
// a non-null value, and every present non-null value must match its column's
// declared type. Uniqueness is checked by the owning table, not here.
func (s *Schema) Validate(r Row) error {
	for _, col := range s.Columns {
		v, ok := r[col.Name]
		if col.HasConstraint(NotNull) && (!ok || v.IsNull()) {
			return &sqlerr.NotNullError{Table: s.Name, Column: col.Name}
		}
		if !ok || v.IsNull() {
			continue
		}
		if !col.Type.Accepts(v.Kind()) {
			return &sqlerr.TypeMismatchError{
				Table:  s.Name,
				Column: col.Name,
				Want:   col.Type.String(),
				Got:    v.Kind().String(),
			}
		}
	}
	return nil
}
