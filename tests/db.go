package testutil

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/bulletin/core"
	"github.com/trezcool/bulletin/storage/database"
)

// PrepareDB returns a migrated, empty test database.
// Tests are skipped unless TEST_DATABASE_HOST points to a postgres server.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("TEST_DATABASE_HOST") == "" {
		t.Skip("TEST_DATABASE_HOST not set: skipping postgres tests")
	}

	if err := os.Setenv("ENV", "TEST"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	conf := core.NewConfig()
	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	ResetDB(t, db)
	return db
}

func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if err := database.Reset(db); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}
