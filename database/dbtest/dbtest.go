// Package dbtest opens throwaway sqlite databases with the full foodgram schema for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/foodgram-api/config"
	"github.com/foodgram-api/database"
	"gorm.io/gorm"
)

// New returns a migrated database backed by a file in t.TempDir()
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.Config{
		DBDriver:   "sqlite",
		DBURL:      filepath.Join(t.TempDir(), "foodgram.db"),
		DBLogLevel: "silent",
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.NewDBConnection("test", db).Migrate(); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}
