// ABOUTME: Ledger database connection management and initialization
// ABOUTME: Opens the SQLite import ledger with WAL mode at the configured path
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ledgerDSNParams enables WAL, waits on a busy ledger instead of failing,
// and enforces the import_log -> import_runs foreign key.
const ledgerDSNParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// OpenDatabase opens the ledger at path, creating its directory with
// owner-only permissions since stored payloads carry customer data.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	ledger, err := sql.Open("sqlite3", path+ledgerDSNParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// Single connection avoids "database is locked" errors
	ledger.SetMaxOpenConns(1)

	if err := InitSchema(ledger); err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}

	return ledger, nil
}
