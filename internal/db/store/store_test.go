package store

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
)

// setupTestDB creates a file-backed SQLite database for testing. A file is
// used instead of :memory: so transactions opened on pooled connections all
// see the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestBeginNilDB(t *testing.T) {
	unit, err := Begin(nil)
	require.ErrorIs(t, err, ErrDBNil)
	assert.Nil(t, unit)
}

func TestSaveAndCommit(t *testing.T) {
	db := setupTestDB(t)

	unit, err := Begin(db)
	require.NoError(t, err)

	setting := &models.Setting{Key: "site_title", Datatype: models.DatatypeString, Value: "home"}
	require.NoError(t, unit.Save(setting))
	assert.True(t, setting.Persisted())

	require.NoError(t, unit.Commit())

	var stored models.Setting
	require.NoError(t, db.Where("key = ?", "site_title").First(&stored).Error)
	assert.Equal(t, "home", stored.Value)
}

func TestSaveUniqueViolationDiscardsTransaction(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.Setting{
		Key: "page_size", Datatype: models.DatatypeInt, Value: "25",
	}).Error)

	unit, err := Begin(db)
	require.NoError(t, err)

	// an unrelated change made earlier in the same unit of work
	require.NoError(t, unit.Save(&models.Setting{
		Key: "site_title", Datatype: models.DatatypeString, Value: "home",
	}))

	// the duplicate key fails and invalidates everything pending
	err = unit.Save(&models.Setting{
		Key: "page_size", Datatype: models.DatatypeInt, Value: "50",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnprocessable)

	// further work on the dead unit is refused
	assert.ErrorIs(t, unit.Save(&models.Setting{Key: "x", Datatype: models.DatatypeString, Value: "y"}), ErrUnitClosed)

	// the prior valid row is intact, the unrelated pending change is gone
	var prior models.Setting
	require.NoError(t, db.Where("key = ?", "page_size").First(&prior).Error)
	assert.Equal(t, "25", prior.Value)

	var count int64
	db.Model(&models.Setting{}).Where("key = ?", "site_title").Count(&count)
	assert.Zero(t, count)

	// a fresh unit of work succeeds
	fresh, err := Begin(db)
	require.NoError(t, err)
	require.NoError(t, fresh.Save(&models.Setting{
		Key: "site_title", Datatype: models.DatatypeString, Value: "home",
	}))
	require.NoError(t, fresh.Commit())
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	setting := &models.Setting{Key: "obsolete", Datatype: models.DatatypeString, Value: "x"}
	require.NoError(t, db.Create(setting).Error)

	unit, err := Begin(db)
	require.NoError(t, err)

	require.NoError(t, unit.Delete(setting))
	require.NoError(t, unit.Commit())

	var count int64
	db.Model(&models.Setting{}).Where("key = ?", "obsolete").Count(&count)
	assert.Zero(t, count)
}

func TestRollbackDiscardsPendingChanges(t *testing.T) {
	db := setupTestDB(t)

	unit, err := Begin(db)
	require.NoError(t, err)

	require.NoError(t, unit.Save(&models.Setting{
		Key: "draft", Datatype: models.DatatypeString, Value: "pending",
	}))

	require.NoError(t, unit.Rollback())

	var count int64
	db.Model(&models.Setting{}).Where("key = ?", "draft").Count(&count)
	assert.Zero(t, count)

	// rollback of a released unit is a no-op
	require.NoError(t, unit.Rollback())
}

func TestReleaseIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	unit, err := Begin(db)
	require.NoError(t, err)

	require.NoError(t, unit.Save(&models.Setting{
		Key: "tmp", Datatype: models.DatatypeString, Value: "x",
	}))

	unit.Release()
	unit.Release()

	var count int64
	db.Model(&models.Setting{}).Where("key = ?", "tmp").Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, unit.Commit(), ErrUnitClosed)
}
