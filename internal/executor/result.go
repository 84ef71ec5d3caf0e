package executor

import (
	"github.com/Fa23-max/Relational-database-management-system/internal/record"
)

// Result is the outcome of one executed statement. Reads fill Columns and
// Rows; INSERT fills RowID and AffectedRows; UPDATE and DELETE fill
// AffectedRows; DDL statements fill Message.
type Result struct {
	Columns      []string
	Rows         []record.Row
	AffectedRows int
	RowID        int64
	Message      string
}
