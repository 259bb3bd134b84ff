package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoAdminBase/GoAdminBase/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name     string
		engine   string
		expected string
	}{
		{
			name:     "mysql",
			engine:   config.EngineMySQL,
			expected: "app:secret@tcp(db.local:3306)/appdb?charset=utf8mb4",
		},
		{
			name:     "postgres",
			engine:   config.EnginePostgres,
			expected: "host=db.local user=app password=secret dbname=appdb port=3306 charset=utf8mb4",
		},
		{
			name:     "sqlite",
			engine:   config.EngineSQLite,
			expected: "appdb.db",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Config{
				DB: config.DB{
					GormEngine: tc.engine,
					Host:       "db.local",
					Port:       3306,
					User:       "app",
					Password:   "secret",
					Name:       "appdb",
					Extras:     "charset=utf8mb4",
				},
			}

			assert.Equal(t, tc.expected, Create(&cfg))
		})
	}
}
