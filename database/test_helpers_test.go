package database

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// createTestDB opens a fresh SQLite database with the tasks table in place.
func createTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := CreateTables(db); err != nil {
		t.Fatalf("CreateTables() failed: %v", err)
	}
	t.Cleanup(func() { Close(db) })
	return db
}

func createTestRepo(t *testing.T) *TaskRepository {
	t.Helper()
	return NewTaskRepository(createTestDB(t))
}

func ptr[T any](v T) *T {
	return &v
}
