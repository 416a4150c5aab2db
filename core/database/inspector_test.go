package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "postgres"})
	assert.Error(t, err)
}

func TestGetTableColumns(t *testing.T) {
	// In-memory catalog
	cfg := Config{
		Driver: DriverSQLite,
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, db)

	// Shape of the save catalog table, sqlite types
	err = db.Exec("CREATE TABLE save_records (id TEXT PRIMARY KEY, file_name TEXT, size INTEGER)").Error
	assert.NoError(t, err)

	columns, err := GetTableColumns(db, "save_records")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "text", colMap["id"])
	assert.Equal(t, "text", colMap["file_name"])
	assert.Equal(t, "integer", colMap["size"])

	// PRAGMA table_info yields an empty result for unknown tables rather
	// than an error.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}
