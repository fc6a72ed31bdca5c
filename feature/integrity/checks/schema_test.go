package checks

import (
	"testing"

	"catalog-sync/core/database"
	"catalog-sync/feature/products"
	catalogsync "catalog-sync/feature/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, &products.Product{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_MissingTables(t *testing.T) {
	db := setupDB(t)

	report, err := CheckSchema(db, &products.Product{}, &catalogsync.State{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Equal(t, "sqlite", report.Driver)

	tbl := report.Tables["products"]
	assert.False(t, tbl.Exists)
	assert.Equal(t, "error", tbl.Status)
	assert.Contains(t, tbl.MissingColumns, "sku")
	assert.False(t, report.Tables["sync_states"].Exists)
}

func TestCheckSchema_MissingColumn(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Exec("CREATE TABLE sync_states (id integer primary key, status text)").Error)

	report, err := CheckSchema(db, &catalogsync.State{})
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables["sync_states"]
	assert.True(t, tbl.Exists)
	assert.Contains(t, tbl.MissingColumns, "cursor_offset")
	assert.NotContains(t, tbl.MissingColumns, "status")
}

func TestFixSchema(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, FixSchema(db, &products.Product{}, &catalogsync.State{}))

	report, err := CheckSchema(db, &products.Product{}, &catalogsync.State{})
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["products"].Status)
	assert.Empty(t, report.Tables["sync_states"].MissingColumns)
}

func TestCheckSchema_ModelWithoutTableName(t *testing.T) {
	db := setupDB(t)
	_, err := CheckSchema(db, &struct{ ID uint }{})
	assert.Error(t, err)
}

func TestParseGormColumn(t *testing.T) {
	assert.Equal(t, "sku", parseGormColumn("column:sku;type:varchar(191);uniqueIndex"))
	assert.Equal(t, "", parseGormColumn("primaryKey"))
}
