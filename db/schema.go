// ABOUTME: Ledger schema definitions
// ABOUTME: Creates the import_runs and import_log tables
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS import_runs (
	id TEXT PRIMARY KEY,
	site TEXT NOT NULL,
	source TEXT NOT NULL,
	mode TEXT NOT NULL CHECK(mode IN ('test', 'live')),
	dry_run INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL CHECK(status IN ('running', 'completed', 'failed')),
	error_message TEXT,
	total INTEGER NOT NULL DEFAULT 0,
	succeeded INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	compiled INTEGER NOT NULL DEFAULT 0,
	started_at DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_import_runs_started_at ON import_runs(started_at DESC);

CREATE TABLE IF NOT EXISTS import_log (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	row_number INTEGER NOT NULL,
	row_key TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('compiled', 'succeeded', 'failed', 'skipped')),
	http_status INTEGER,
	subscription_id TEXT,
	error_message TEXT,
	payload TEXT,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (run_id) REFERENCES import_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_import_log_run ON import_log(run_id, row_number);
CREATE INDEX IF NOT EXISTS idx_import_log_key ON import_log(row_key, status);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
