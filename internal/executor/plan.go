package executor

import (
	"github.com/Fa23-max/Relational-database-management-system/internal/index"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

// plan is how execSelect obtains its candidate rows.
type plan interface {
	planNode()
}

// fullScanPlan walks every row of the table.
type fullScanPlan struct{}

// indexLookupPlan probes one index for a single key and fetches the rows
// the returned ids point at.
type indexLookupPlan struct {
	index *index.Index
	key   value.Value
}

func (fullScanPlan) planNode()    {}
func (indexLookupPlan) planNode() {}

// buildPlan chooses an index lookup only for an equality between a column
// reference and a non-null literal when an index is bound to exactly that
// column. Range operators, null keys and column-to-column comparisons all
// scan: the tree never stores null keys, and anything broader than a point
// probe has to see every row anyway.
func (e *Executor) buildPlan(tableName string, where *sql.Predicate) plan {
	if where == nil || where.Op != value.Eq {
		return fullScanPlan{}
	}
	col, ok := where.Left.(sql.ColumnRef)
	if !ok {
		return fullScanPlan{}
	}
	lit, ok := where.Right.(sql.Literal)
	if !ok || lit.Value.IsNull() {
		return fullScanPlan{}
	}
	ix, ok := e.indexes.FindForColumn(tableName, col.Name)
	if !ok {
		return fullScanPlan{}
	}
	return indexLookupPlan{index: ix, key: lit.Value}
}
