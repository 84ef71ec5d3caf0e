package rdbms

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/sqlerr"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

func openTestDB(t *testing.T, dir string) *Database {
	t.Helper()
	db, err := Open(Options{DataDir: dir})
	require.NoError(t, err)
	return db
}

func createProducts(t *testing.T, db *Database) {
	t.Helper()
	_, err := db.Execute(&sql.CreateTable{
		Name: "products",
		Columns: []record.Column{
			{Name: "id", Type: record.TypeInt, Constraints: []record.Constraint{record.PrimaryKey}},
			{Name: "title", Type: record.TypeText, Constraints: []record.Constraint{record.NotNull}},
			{Name: "price", Type: record.TypeFloat},
		},
	})
	require.NoError(t, err)
}

func TestOpenExecuteClose(t *testing.T) {
	dir := t.TempDir()
	db := openTestDB(t, dir)
	createProducts(t, db)

	_, err := db.Execute(&sql.Insert{Table: "products", Values: []value.Value{
		value.NewInt(1), value.NewText("widget"), value.NewFloat(2.50),
	}})
	require.NoError(t, err)

	require.Equal(t, []string{"products"}, db.ListTables())
	require.NoError(t, db.Close())

	_, err = db.Execute(&sql.Select{Table: "products"})
	require.ErrorIs(t, err, ErrDatabaseClosed)
	require.ErrorIs(t, db.Close(), ErrDatabaseClosed)
}

func TestReopenLoadsPersistedTables(t *testing.T) {
	dir := t.TempDir()
	db := openTestDB(t, dir)
	createProducts(t, db)
	for i := 1; i <= 3; i++ {
		_, err := db.Execute(&sql.Insert{Table: "products", Values: []value.Value{
			value.NewInt(int64(i)), value.NewText("item"), value.NewFloat(float64(i)),
		}})
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	db2 := openTestDB(t, dir)
	res, err := db2.Execute(&sql.Select{Table: "products"})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	// the row-id counter picks up past the highest persisted id
	ins, err := db2.Execute(&sql.Insert{Table: "products", Values: []value.Value{
		value.NewInt(4), value.NewText("item"), value.NewFloat(4),
	}})
	require.NoError(t, err)
	require.Equal(t, int64(4), ins.RowID)
}

func TestTableInfo(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	createProducts(t, db)
	_, err := db.Execute(&sql.Insert{Table: "products", Values: []value.Value{
		value.NewInt(1), value.NewText("widget"), value.NewFloat(2.50),
	}})
	require.NoError(t, err)
	require.NoError(t, db.CreateIndex("idx_products_price", "products", "price"))

	info, err := db.TableInfo("products")
	require.NoError(t, err)
	require.Equal(t, "products", info.Name)
	require.Equal(t, "id", info.PrimaryKey)
	require.Equal(t, 1, info.RowCount)
	require.Len(t, info.Columns, 3)
	require.Equal(t, []string{"idx_products_price"}, info.Indexes)

	_, err = db.TableInfo("nope")
	var tnf *sqlerr.TableNotFoundError
	require.ErrorAs(t, err, &tnf)
}

func TestDropIndex(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	createProducts(t, db)
	require.NoError(t, db.CreateIndex("idx_products_price", "products", "price"))
	require.NoError(t, db.DropIndex("idx_products_price"))

	var inf *sqlerr.IndexNotFoundError
	require.ErrorAs(t, db.DropIndex("idx_products_price"), &inf)

	info, err := db.TableInfo("products")
	require.NoError(t, err)
	require.Empty(t, info.Indexes)
}
