package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Fa23-max/Relational-database-management-system/internal/btree"
	"github.com/Fa23-max/Relational-database-management-system/internal/index"
	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/storage"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

func newTestExecutor(t *testing.T) (*Executor, *storage.Engine) {
	t.Helper()
	eng := storage.NewEngine(t.TempDir())
	return New(eng, index.NewManager(btree.DefaultOrder)), eng
}

func seedUsers(t *testing.T, e *Executor) {
	t.Helper()
	_, err := e.Execute(&sql.CreateTable{
		Name: "users",
		Columns: []record.Column{
			{Name: "id", Type: record.TypeInt, Constraints: []record.Constraint{record.PrimaryKey}},
			{Name: "name", Type: record.TypeText, Constraints: []record.Constraint{record.NotNull}},
			{Name: "age", Type: record.TypeInt},
			{Name: "email", Type: record.TypeText, Constraints: []record.Constraint{record.Unique}},
		},
	})
	require.NoError(t, err)

	for _, vals := range [][]value.Value{
		{value.NewInt(1), value.NewText("alice"), value.NewInt(30), value.NewText("alice@example.com")},
		{value.NewInt(2), value.NewText("bob"), value.NewInt(25), value.NewText("bob@example.com")},
		{value.NewInt(3), value.NewText("carol"), value.NewInt(30), value.NewText("carol@example.com")},
	} {
		_, err := e.Execute(&sql.Insert{Table: "users", Values: vals})
		require.NoError(t, err)
	}
}

func seedOrders(t *testing.T, e *Executor) {
	t.Helper()
	_, err := e.Execute(&sql.CreateTable{
		Name: "orders",
		Columns: []record.Column{
			{Name: "id", Type: record.TypeInt, Constraints: []record.Constraint{record.PrimaryKey}},
			{Name: "user_id", Type: record.TypeInt},
			{Name: "total", Type: record.TypeFloat},
		},
	})
	require.NoError(t, err)

	for _, vals := range [][]value.Value{
		{value.NewInt(1), value.NewInt(1), value.NewFloat(9.99)},
		{value.NewInt(2), value.NewInt(1), value.NewFloat(19.99)},
		{value.NewInt(3), value.NewInt(2), value.NewFloat(5)},
		{value.NewInt(4), value.Null(), value.NewFloat(1)},
	} {
		_, err := e.Execute(&sql.Insert{Table: "orders", Values: vals})
		require.NoError(t, err)
	}
}

func eq(col string, v value.Value) *sql.Predicate {
	return &sql.Predicate{Left: sql.Col(col), Op: value.Eq, Right: sql.Lit(v)}
}

func TestCreateTableAndDuplicate(t *testing.T) {
	e, _ := newTestExecutor(t)

	res, err := e.Execute(&sql.CreateTable{
		Name:    "users",
		Columns: []record.Column{{Name: "id", Type: record.TypeInt, Constraints: []record.Constraint{record.PrimaryKey}}},
	})
	require.NoError(t, err)
	require.Equal(t, "Table 'users' created successfully", res.Message)

	_, err = e.Execute(&sql.CreateTable{
		Name:    "users",
		Columns: []record.Column{{Name: "id", Type: record.TypeInt}},
	})
	var exists *sqlerr.TableExistsError
	require.ErrorAs(t, err, &exists)
}

func TestInsertAssignsSequentialRowIDs(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res, err := e.Execute(&sql.Insert{Table: "users", Values: []value.Value{
		value.NewInt(4), value.NewText("dave"), value.NewInt(41), value.NewText("dave@example.com"),
	}})
	require.NoError(t, err)
	require.Equal(t, 1, res.AffectedRows)
	require.Equal(t, int64(4), res.RowID)
}

func TestInsertDuplicatePrimaryKey(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Execute(&sql.Insert{Table: "users", Values: []value.Value{
		value.NewInt(1), value.NewText("imposter"), value.NewInt(99), value.NewText("imposter@example.com"),
	}})
	var ue *sqlerr.UniqueError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "id", ue.Column)

	res, err := e.Execute(&sql.Select{Table: "users", Where: eq("id", value.NewInt(1))})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
}

func TestInsertValueCount(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Execute(&sql.Insert{Table: "users", Values: []value.Value{
		value.NewInt(9), value.NewText("eve"), value.NewInt(20), value.NewText("eve@example.com"), value.NewBool(true),
	}})
	var vc *sqlerr.ValueCountError
	require.ErrorAs(t, err, &vc)
	require.Equal(t, 4, vc.Want)
	require.Equal(t, 5, vc.Got)

	// fewer values than columns leaves the tail columns absent
	res, err := e.Execute(&sql.Insert{Table: "users", Values: []value.Value{
		value.NewInt(9), value.NewText("eve"),
	}})
	require.NoError(t, err)

	sel, err := e.Execute(&sql.Select{Table: "users", Where: eq("id", value.NewInt(9))})
	require.NoError(t, err)
	require.Len(t, sel.Rows, 1)
	_, present := sel.Rows[0]["age"]
	require.False(t, present)
	id, ok := sel.Rows[0].RowID()
	require.True(t, ok)
	require.Equal(t, res.RowID, id)
}

func TestSelectWildcardHeader(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res, err := e.Execute(&sql.Select{Table: "users"})
	require.NoError(t, err)
	require.Equal(t, []string{"id", "name", "age", "email", "row_id"}, res.Columns)
	require.Len(t, res.Rows, 3)
}

func TestSelectWhere(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	tests := []struct {
		name  string
		where *sql.Predicate
		want  int
	}{
		{"equality", eq("age", value.NewInt(30)), 2},
		{"greater than", &sql.Predicate{Left: sql.Col("age"), Op: value.Gt, Right: sql.Lit(value.NewInt(25))}, 2},
		{"not equal", &sql.Predicate{Left: sql.Col("name"), Op: value.Ne, Right: sql.Lit(value.NewText("bob"))}, 2},
		{"no match", eq("age", value.NewInt(99)), 0},
		{"match all", nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Execute(&sql.Select{Table: "users", Where: tt.where})
			require.NoError(t, err)
			require.Len(t, res.Rows, tt.want)
		})
	}
}

func TestSelectUnknownColumnFails(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Execute(&sql.Select{Table: "users", Where: eq("nickname", value.NewText("al"))})
	var cnf *sqlerr.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
	require.Equal(t, "nickname", cnf.Column)
}

func TestSelectIncomparableKindsFail(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Execute(&sql.Select{Table: "users", Where: &sql.Predicate{
		Left: sql.Col("age"), Op: value.Gt, Right: sql.Lit(value.NewText("old")),
	}})
	var qe *sqlerr.QueryError
	require.ErrorAs(t, err, &qe)
	require.ErrorIs(t, err, value.ErrIncomparable)
}

func TestSelectProjection(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res, err := e.Execute(&sql.Select{Table: "users", Columns: []string{"name", "age"}})
	require.NoError(t, err)
	require.Equal(t, []string{"name", "age"}, res.Columns)
	for _, row := range res.Rows {
		require.Len(t, row, 2)
	}
}

func TestSelectMissingTable(t *testing.T) {
	e, _ := newTestExecutor(t)

	_, err := e.Execute(&sql.Select{Table: "nope"})
	var tnf *sqlerr.TableNotFoundError
	require.ErrorAs(t, err, &tnf)
}

func TestJoinFirstMatchOnly(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	seedOrders(t, e)

	// user 1 owns two orders but joins only against the first one in table
	// order; user 3 has none and is dropped.
	res, err := e.Execute(&sql.Select{
		Table: "users",
		Join:  &sql.Join{Table: "orders", LeftColumn: "id", RightColumn: "user_id"},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	require.Equal(t, []string{
		"id", "name", "age", "email", "row_id",
		"orders_id", "orders_user_id", "orders_total",
	}, res.Columns)

	first := res.Rows[0]
	require.True(t, first["id"].Equal(value.NewInt(1)))
	require.True(t, first["orders_id"].Equal(value.NewInt(1)))
	require.True(t, first["orders_total"].Equal(value.NewFloat(9.99)))
	_, carried := first["orders_row_id"]
	require.False(t, carried)

	second := res.Rows[1]
	require.True(t, second["id"].Equal(value.NewInt(2)))
	require.True(t, second["orders_id"].Equal(value.NewInt(3)))
}

func TestJoinSkipsNullJoinKeys(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	seedOrders(t, e)

	// order 4 has a null user_id and must not join against anything
	res, err := e.Execute(&sql.Select{
		Table: "orders",
		Join:  &sql.Join{Table: "users", LeftColumn: "user_id", RightColumn: "id"},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	for _, row := range res.Rows {
		require.True(t, row["users_name"].Kind() == value.KindText)
	}
}

func TestJoinAppliesWhereBeforeJoin(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	seedOrders(t, e)

	res, err := e.Execute(&sql.Select{
		Table: "users",
		Where: eq("age", value.NewInt(30)),
		Join:  &sql.Join{Table: "orders", LeftColumn: "id", RightColumn: "user_id"},
	})
	require.NoError(t, err)
	// alice matches and owns orders; carol matches but owns none
	require.Len(t, res.Rows, 1)
	require.True(t, res.Rows[0]["name"].Equal(value.NewText("alice")))
}

func TestIndexAssistedSelectMatchesScan(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	stmt := &sql.Select{Table: "users", Where: eq("age", value.NewInt(30))}

	scanned, err := e.Execute(stmt)
	require.NoError(t, err)

	res, err := e.Execute(&sql.CreateIndex{Name: "idx_users_age", Table: "users", Column: "age"})
	require.NoError(t, err)
	require.Equal(t, "Index 'idx_users_age' created successfully", res.Message)

	p := e.buildPlan("users", stmt.Where)
	_, probing := p.(indexLookupPlan)
	require.True(t, probing)

	probed, err := e.Execute(stmt)
	require.NoError(t, err)
	require.Equal(t, scanned.Rows, probed.Rows)
}

func TestBuildPlanFallsBackToScan(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	_, err := e.Execute(&sql.CreateIndex{Name: "idx_users_age", Table: "users", Column: "age"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		where *sql.Predicate
	}{
		{"no predicate", nil},
		{"range operator", &sql.Predicate{Left: sql.Col("age"), Op: value.Gt, Right: sql.Lit(value.NewInt(20))}},
		{"null literal", eq("age", value.Null())},
		{"column to column", &sql.Predicate{Left: sql.Col("age"), Op: value.Eq, Right: sql.Col("id")}},
		{"literal on the left", &sql.Predicate{Left: sql.Lit(value.NewInt(30)), Op: value.Eq, Right: sql.Col("age")}},
		{"no index on column", eq("name", value.NewText("bob"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, scan := e.buildPlan("users", tt.where).(fullScanPlan)
			require.True(t, scan)
		})
	}
}

func TestCreateIndexValidation(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Execute(&sql.CreateIndex{Name: "idx", Table: "nope", Column: "id"})
	var tnf *sqlerr.TableNotFoundError
	require.ErrorAs(t, err, &tnf)

	_, err = e.Execute(&sql.CreateIndex{Name: "idx", Table: "users", Column: "nickname"})
	var cnf *sqlerr.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)

	_, err = e.Execute(&sql.CreateIndex{Name: "idx", Table: "users", Column: "age"})
	require.NoError(t, err)
	_, err = e.Execute(&sql.CreateIndex{Name: "idx", Table: "users", Column: "email"})
	var ie *sqlerr.IndexExistsError
	require.ErrorAs(t, err, &ie)
}

func TestUpdateRewritesIndexEntries(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	_, err := e.Execute(&sql.CreateIndex{Name: "idx_users_age", Table: "users", Column: "age"})
	require.NoError(t, err)

	res, err := e.Execute(&sql.Update{
		Table:       "users",
		Assignments: []sql.Assignment{{Column: "age", Value: value.NewInt(31)}},
		Where:       eq("id", value.NewInt(1)),
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.AffectedRows)

	ix, err := e.indexes.Lookup("idx_users_age")
	require.NoError(t, err)

	ids, err := ix.Search(value.NewInt(30))
	require.NoError(t, err)
	require.Equal(t, []int64{3}, ids)

	ids, err = ix.Search(value.NewInt(31))
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids)
}

func TestUpdateAllRowsWhenWhereNil(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res, err := e.Execute(&sql.Update{
		Table:       "users",
		Assignments: []sql.Assignment{{Column: "age", Value: value.NewInt(40)}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.AffectedRows)
}

func TestUpdateUniqueViolationKeepsEarlierRows(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	_, err := e.Execute(&sql.CreateIndex{Name: "idx_users_email", Table: "users", Column: "email"})
	require.NoError(t, err)

	// the first row takes the address, the second collides with it
	_, err = e.Execute(&sql.Update{
		Table:       "users",
		Assignments: []sql.Assignment{{Column: "email", Value: value.NewText("dup@example.com")}},
	})
	var ue *sqlerr.UniqueError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "email", ue.Column)

	res, err := e.Execute(&sql.Select{Table: "users"})
	require.NoError(t, err)
	require.True(t, res.Rows[0]["email"].Equal(value.NewText("dup@example.com")))
	require.True(t, res.Rows[1]["email"].Equal(value.NewText("bob@example.com")))
	require.True(t, res.Rows[2]["email"].Equal(value.NewText("carol@example.com")))

	// the index tracks the table's actual state after the failed statement
	ix, err := e.indexes.Lookup("idx_users_email")
	require.NoError(t, err)
	ids, err := ix.Search(value.NewText("dup@example.com"))
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids)
	ids, err = ix.Search(value.NewText("alice@example.com"))
	require.NoError(t, err)
	require.Empty(t, ids)
	ids, err = ix.Search(value.NewText("bob@example.com"))
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)
}

func TestUpdateUnknownAssignmentColumnFails(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Execute(&sql.Update{
		Table:       "users",
		Assignments: []sql.Assignment{{Column: "nickname", Value: value.NewText("al")}},
	})
	var cnf *sqlerr.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)

	res, err := e.Execute(&sql.Select{Table: "users"})
	require.NoError(t, err)
	for _, row := range res.Rows {
		_, present := row["nickname"]
		require.False(t, present)
	}
}

func TestDeleteRemovesIndexEntries(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)
	_, err := e.Execute(&sql.CreateIndex{Name: "idx_users_age", Table: "users", Column: "age"})
	require.NoError(t, err)

	res, err := e.Execute(&sql.Delete{Table: "users", Where: eq("age", value.NewInt(30))})
	require.NoError(t, err)
	require.Equal(t, 2, res.AffectedRows)

	ix, err := e.indexes.Lookup("idx_users_age")
	require.NoError(t, err)
	ids, err := ix.Search(value.NewInt(30))
	require.NoError(t, err)
	require.Empty(t, ids)
	ids, err = ix.Search(value.NewInt(25))
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)
}

func TestDeleteAllWhenWhereNil(t *testing.T) {
	e, _ := newTestExecutor(t)
	seedUsers(t, e)

	res, err := e.Execute(&sql.Delete{Table: "users"})
	require.NoError(t, err)
	require.Equal(t, 3, res.AffectedRows)

	sel, err := e.Execute(&sql.Select{Table: "users"})
	require.NoError(t, err)
	require.Empty(t, sel.Rows)
}

func TestWritesPersistAcrossReload(t *testing.T) {
	e, eng := newTestExecutor(t)
	seedUsers(t, e)

	_, err := e.Execute(&sql.Update{
		Table:       "users",
		Assignments: []sql.Assignment{{Column: "age", Value: value.NewInt(26)}},
		Where:       eq("id", value.NewInt(2)),
	})
	require.NoError(t, err)
	_, err = e.Execute(&sql.Delete{Table: "users", Where: eq("id", value.NewInt(3))})
	require.NoError(t, err)

	reloaded := storage.NewEngine(eng.DataDir())
	require.NoError(t, reloaded.LoadFromDisk())
	e2 := New(reloaded, index.NewManager(btree.DefaultOrder))

	res, err := e2.Execute(&sql.Select{Table: "users"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	byID := map[int64]record.Row{}
	for _, row := range res.Rows {
		id, ok := row.RowID()
		require.True(t, ok)
		byID[id] = row
	}
	require.True(t, byID[2]["age"].Equal(value.NewInt(26)))

	// row ids keep growing after a reload
	ins, err := e2.Execute(&sql.Insert{Table: "users", Values: []value.Value{
		value.NewInt(7), value.NewText("dave"), value.NewInt(50), value.NewText("dave@example.com"),
	}})
	require.NoError(t, err)
	require.Equal(t, int64(4), ins.RowID)
}

func TestExecuteNilStatement(t *testing.T) {
	e, _ := newTestExecutor(t)

	_, err := e.Execute(nil)
	var qe *sqlerr.QueryError
	require.ErrorAs(t, err, &qe)
}
