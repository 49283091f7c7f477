package migrations

import (
	"path/filepath"
	"testing"

	"github.com/Simplici0/lucrocerto/internal/db"
)

func TestUpAppliesSchemaOnce(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "migrate-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	for i := 0; i < 2; i++ {
		if err := Up(database, "../../migrations"); err != nil {
			t.Fatalf("run migrations (pass %d): %v", i+1, err)
		}
	}

	version, err := Version(database)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != 1 {
		t.Fatalf("version = %d, want 1", version)
	}

	for _, table := range []string{"users", "marketplaces", "categories", "fee_schedule", "fba_tiers"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestUpFailsForMissingDirectory(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "migrate-missing.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := Up(database, filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}
