package setting

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoAdminBase/GoAdminBase/internal/db/models"
)

// setupTestDB creates a file-backed SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()

	for _, s := range settings {
		err := db.Create(&s).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestCastValue(t *testing.T) {
	testCases := []struct {
		name        string
		value       any
		datatype    models.Datatype
		expected    any
		expectError bool
	}{
		{name: "int from string", value: "42", datatype: models.DatatypeInt, expected: int64(42)},
		{name: "int from int", value: 7, datatype: models.DatatypeInt, expected: int64(7)},
		{name: "int unparseable", value: "abc", datatype: models.DatatypeInt, expectError: true},
		{name: "float from string", value: "3.14", datatype: models.DatatypeFloat, expected: 3.14},
		{name: "float from int", value: 2, datatype: models.DatatypeFloat, expected: 2.0},
		{name: "float unparseable", value: "pi", datatype: models.DatatypeFloat, expectError: true},
		{name: "bool identity", value: true, datatype: models.DatatypeBoolean, expected: true},
		{name: "bool from nonzero int", value: 3, datatype: models.DatatypeBoolean, expected: true},
		{name: "bool from zero int", value: 0, datatype: models.DatatypeBoolean, expected: false},
		{name: "bool invalid token", value: "maybe", datatype: models.DatatypeBoolean, expectError: true},
		{name: "string identity", value: "hello", datatype: models.DatatypeString, expected: "hello"},
		{name: "unknown datatype falls back to string", value: 12, datatype: "json", expected: "12"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CastValue(tc.value, tc.datatype)

			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrCannotCast)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestCastValueBooleanTokens(t *testing.T) {
	accepted := map[string]bool{
		"1": true, "true": true, "yes": true, "on": true,
		"0": false, "false": false, "no": false, "off": false,
	}

	for token, expected := range accepted {
		t.Run(token, func(t *testing.T) {
			got, err := CastValue(token, models.DatatypeBoolean)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}

	// matching is trim + lowercase
	for raw, expected := range map[string]bool{"YES": true, "On": true, " no ": false, "OFF": false} {
		t.Run(raw, func(t *testing.T) {
			got, err := CastValue(raw, models.DatatypeBoolean)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}
}

func TestCastValueRoundTrip(t *testing.T) {
	// coercing a value, storing its string form, and coercing again yields
	// the same logical value for every supported datatype
	testCases := []struct {
		name     string
		value    any
		datatype models.Datatype
	}{
		{name: "int", value: "42", datatype: models.DatatypeInt},
		{name: "float", value: "3.14", datatype: models.DatatypeFloat},
		{name: "boolean", value: "yes", datatype: models.DatatypeBoolean},
		{name: "string", value: "plain", datatype: models.DatatypeString},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			first, err := CastValue(tc.value, tc.datatype)
			require.NoError(t, err)

			second, err := CastValue(fmt.Sprint(first), tc.datatype)
			require.NoError(t, err)

			assert.Equal(t, first, second)
		})
	}
}

func TestGetValue(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name         string
		key          string
		seedData     []models.Setting
		defaultValue any
		expected     any
	}{
		{
			name:         "missing key returns default",
			key:          "nonexistent",
			defaultValue: "fallback",
			expected:     "fallback",
		},
		{
			name:         "int value",
			key:          "page_size",
			seedData:     []models.Setting{{Key: "page_size", Datatype: models.DatatypeInt, Value: "25"}},
			defaultValue: 10,
			expected:     int64(25),
		},
		{
			name:         "boolean value",
			key:          "maintenance",
			seedData:     []models.Setting{{Key: "maintenance", Datatype: models.DatatypeBoolean, Value: "on"}},
			defaultValue: false,
			expected:     true,
		},
		{
			name: "corrupt stored value degrades to default",
			key:  "page_size",
			seedData: []models.Setting{
				{Key: "page_size", Datatype: models.DatatypeInt, Value: "not-a-number"},
			},
			defaultValue: 10,
			expected:     10,
		},
		{
			name:         "empty key returns default",
			key:          "",
			defaultValue: "fallback",
			expected:     "fallback",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db.Exec("DELETE FROM settings")

			if tc.seedData != nil {
				seedSettings(t, db, tc.seedData)
			}

			got, err := GetValue(db, tc.key, tc.defaultValue)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSet(t *testing.T) {
	db := setupTestDB(t)

	t.Run("missing key is a configuration error and writes nothing", func(t *testing.T) {
		got, err := Set(db, "unknown", "5", "")
		require.ErrorIs(t, err, ErrDatatypeRequired)
		assert.Nil(t, got)

		var count int64
		db.Model(&models.Setting{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("coercion failure leaves stored value unchanged", func(t *testing.T) {
		db.Exec("DELETE FROM settings")
		seedSettings(t, db, []models.Setting{{Key: "x", Datatype: models.DatatypeInt, Value: "1"}})

		_, err := Set(db, "x", "abc", "")
		require.ErrorIs(t, err, ErrCannotCast)

		stored, err := Get(db, "x")
		require.NoError(t, err)
		assert.Equal(t, "1", stored.Value)
	})

	t.Run("updates value against stored datatype", func(t *testing.T) {
		db.Exec("DELETE FROM settings")
		seedSettings(t, db, []models.Setting{{Key: "x", Datatype: models.DatatypeInt, Value: "1"}})

		updated, err := Set(db, "x", "42", "")
		require.NoError(t, err)
		assert.Equal(t, "42", updated.Value)

		got, err := GetValue(db, "x", 0)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
	})

	t.Run("description updates only when provided", func(t *testing.T) {
		db.Exec("DELETE FROM settings")
		seedSettings(t, db, []models.Setting{
			{Key: "x", Datatype: models.DatatypeInt, Value: "1", Description: "original"},
		})

		updated, err := Set(db, "x", "2", "")
		require.NoError(t, err)
		assert.Equal(t, "original", updated.Description)

		updated, err = Set(db, "x", "3", "changed")
		require.NoError(t, err)
		assert.Equal(t, "changed", updated.Description)
	})
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		value         any
		datatype      models.Datatype
		seedData      []models.Setting
		expectedError error
		expectedValue string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "y",
			value:         "5",
			datatype:      models.DatatypeInt,
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			value:         "5",
			datatype:      models.DatatypeInt,
			expectedError: ErrSettingKeyEmpty,
		},
		{
			name:          "coercion failure aborts creation",
			dbParam:       db,
			key:           "y",
			value:         "abc",
			datatype:      models.DatatypeInt,
			expectedError: ErrCannotCast,
		},
		{
			name:     "duplicate key",
			dbParam:  db,
			key:      "y",
			value:    "5",
			datatype: models.DatatypeInt,
			seedData: []models.Setting{
				{Key: "y", Datatype: models.DatatypeInt, Value: "1"},
			},
			expectedError: ErrSettingAlreadyExists,
		},
		{
			name:          "successful create stores string form",
			dbParam:       db,
			key:           "y",
			value:         "5",
			datatype:      models.DatatypeInt,
			expectedValue: "5",
		},
		{
			name:          "boolean create normalizes token",
			dbParam:       db,
			key:           "flag",
			value:         "YES",
			datatype:      models.DatatypeBoolean,
			expectedValue: "true",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			created, err := Create(tc.dbParam, tc.key, tc.value, tc.datatype, "")

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, created)

				// no duplicate or partial row was written
				if tc.dbParam != nil {
					var count int64
					tc.dbParam.Model(&models.Setting{}).Where("key = ?", tc.key).Count(&count)
					assert.LessOrEqual(t, count, int64(len(tc.seedData)))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedValue, created.Value)
				assert.True(t, created.Persisted())
			}
		})
	}
}

func TestCreateThenGetValue(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "y", "5", models.DatatypeInt, "number of retries")
	require.NoError(t, err)

	got, err := GetValue(db, "y", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	seedSettings(t, db, []models.Setting{{Key: "z", Datatype: models.DatatypeString, Value: "v"}})

	require.NoError(t, Delete(db, "z"))
	assert.ErrorIs(t, Delete(db, "z"), ErrSettingNotFound)
	assert.ErrorIs(t, Delete(db, ""), ErrSettingKeyEmpty)
	assert.ErrorIs(t, Delete(nil, "z"), ErrDBNil)
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	seedSettings(t, db, []models.Setting{
		{Key: "b", Datatype: models.DatatypeString, Value: "2"},
		{Key: "a", Datatype: models.DatatypeString, Value: "1"},
	})

	settings, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "a", settings[0].Key)
	assert.Equal(t, "b", settings[1].Key)

	_, err = GetAll(nil)
	assert.ErrorIs(t, err, ErrDBNil)
}
