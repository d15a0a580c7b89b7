package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDriver string
		wantDSN    string
		wantErr    bool
	}{
		{"postgres", "postgres://u:p@localhost:5432/db", "postgres", "postgres://u:p@localhost:5432/db", false},
		{"postgresql", "postgresql://u:p@localhost/db?sslmode=disable", "postgres", "postgresql://u:p@localhost/db?sslmode=disable", false},
		{"sqlite absolute", "sqlite:///var/lib/tasks.db", "sqlite3", "/var/lib/tasks.db", false},
		{"sqlite relative", "sqlite://tasks.db", "sqlite3", "tasks.db", false},
		{"file dsn", "file::memory:?cache=shared", "sqlite3", "file::memory:?cache=shared", false},
		{"sqlite without path", "sqlite://", "", "", true},
		{"unknown scheme", "mysql://localhost/db", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, dsn, err := parseURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestCreateTables_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		db, err := Open("sqlite://" + path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, CreateTables(db), "CreateTables() iteration %d", i)
		require.NoError(t, Close(db))
	}

	db, err := Open("sqlite://" + path)
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable("tasks"))
	for _, col := range []string{"id", "title", "completed", "created_at", "updated_at"} {
		assert.True(t, db.Migrator().HasColumn("tasks", col), "column %s", col)
	}
}

func TestPinger(t *testing.T) {
	db := createTestDB(t)
	p := NewPinger(db)

	require.NoError(t, p.PingContext(context.Background()))

	require.NoError(t, Close(db))
	assert.Error(t, p.PingContext(context.Background()))
}

func TestOpen_RejectsUnknownScheme(t *testing.T) {
	_, err := Open("redis://localhost:6379")
	assert.Error(t, err)
}
