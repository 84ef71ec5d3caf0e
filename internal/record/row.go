package record

import (
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// RowIDColumn is the synthetic column injected into every stored row at
// insert time. It is not part of any declared schema but participates in
// selection and projection like an ordinary column.
const RowIDColumn = "row_id"

// Row maps column names to values. Values are immutable, so a per-entry copy
// of the map is a full deep copy of the row.
type Row map[string]value.Value

// RowID returns the synthetic row id, if the row has been stored.
func (r Row) RowID() (int64, bool) {
	v, ok := r[RowIDColumn]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Value looks a column up, returning NULL for an absent one. The bool reports
// presence.
func (r Row) Value(name string) (value.Value, bool) {
	v, ok := r[name]
	if !ok {
		return value.Null(), false
	}
	return v, true
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
