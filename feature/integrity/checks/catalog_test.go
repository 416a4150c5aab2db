package checks

import (
	"testing"

	"cogsaver/core/database"
	"cogsaver/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for the error paths.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestCheckCatalogSchema(t *testing.T) {
	t.Run("FreshMigrationMatches", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&models.SaveRecord{}))

		report, err := CheckCatalogSchema(db)

		require.NoError(t, err)
		assert.True(t, report.Matched)
		assert.Equal(t, "save_records", report.Table)
		assert.Empty(t, report.MissingColumns)
		assert.Empty(t, report.TypeMismatches)
	})

	t.Run("OldCatalogReportsMissingColumns", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, db.Exec(`CREATE TABLE save_records (id varchar(36), game text, file_name text)`).Error)

		report, err := CheckCatalogSchema(db)

		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.Contains(t, report.MissingColumns, "sha256")
		assert.Contains(t, report.MissingColumns, "created_at")
	})

	t.Run("InspectionFailureIsReported", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS").WillReturnError(assert.AnError)

		report, err := CheckCatalogSchema(db)

		require.NoError(t, err)
		assert.False(t, report.Matched)
		assert.NotEmpty(t, report.Errors)
	})

	t.Run("NilDB", func(t *testing.T) {
		_, err := CheckCatalogSchema(nil)
		assert.Error(t, err)
	})
}
