// ABOUTME: Tests for ledger schema creation
// ABOUTME: Uses in-memory SQLite for fast isolated tests
package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestInitSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	for _, table := range []string{"import_runs", "import_log"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	for _, index := range []string{"idx_import_runs_started_at", "idx_import_log_run", "idx_import_log_key"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", index).Scan(&name)
		if err != nil {
			t.Errorf("Index %s not found: %v", index, err)
		}
	}

	// Idempotent
	if err := InitSchema(db); err != nil {
		t.Errorf("Second InitSchema failed: %v", err)
	}
}

func TestSchemaRejectsUnknownStatus(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	_, err = db.Exec(`INSERT INTO import_runs (id, site, source, mode, status, started_at) VALUES ('r1', 'acme', '', 'test', 'paused', CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Error("Expected CHECK constraint to reject unknown run status")
	}

	_, err = db.Exec(`INSERT INTO import_runs (id, site, source, mode, status, started_at) VALUES ('r2', 'acme', '', 'staging', 'running', CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Error("Expected CHECK constraint to reject unknown mode")
	}
}
