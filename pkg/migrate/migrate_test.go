package migrate

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "gorm.io/driver/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every connection of an in-memory database is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunEmbeddedCreatesSnapshots(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := RunEmbedded(ctx, db, "up"); err != nil {
		t.Fatalf("RunEmbedded up: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO snapshots (slot, payload, updated_at) VALUES ('orders', '[]', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatalf("insert into snapshots: %v", err)
	}

	if err := RunEmbedded(ctx, db, "down"); err != nil {
		t.Fatalf("RunEmbedded down: %v", err)
	}
	if _, err := db.Exec(`SELECT 1 FROM snapshots`); err == nil {
		t.Fatal("expected snapshots table dropped")
	}
}

func TestRunRequiresArguments(t *testing.T) {
	if err := Run(context.Background(), nil, DefaultDir, "up"); err == nil {
		t.Fatal("expected error for nil db")
	}
	if err := Run(context.Background(), openMemoryDB(t), "", "up"); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_snapshots.sql"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one snapshots migration, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "slot TEXT PRIMARY KEY") {
		t.Fatal("snapshots table must be keyed by slot")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Courier Index!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_courier_index.sql") {
		t.Fatalf("unexpected file name %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration must validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected error for empty sanitized name")
	}
}
