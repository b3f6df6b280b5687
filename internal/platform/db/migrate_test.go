package db

import (
	"testing"
	"testing/fstest"
)

func TestMigrationNamesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_second.sql": {Data: []byte("SELECT 1")},
		"m/0001_first.sql":  {Data: []byte("SELECT 1")},
		"m/README.md":       {Data: []byte("notes")},
	}

	names, err := migrationNames(fsys, "m")
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(names) != 2 || names[0] != "0001_first.sql" || names[1] != "0002_second.sql" {
		t.Fatalf("unexpected migrations %v", names)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := migrationNames(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("list embedded migrations: %v", err)
	}
	if len(names) == 0 || names[0] != "0001_documents.sql" {
		t.Fatalf("unexpected embedded migrations %v", names)
	}
}
