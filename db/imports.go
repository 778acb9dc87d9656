// ABOUTME: Database operations for the import_runs and import_log tables
// ABOUTME: Tracks each import run and the outcome of every row so re-runs can skip finished rows
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/clientify/models"
	"github.com/oklog/ulid/v2"
)

// ErrRunNotFound is returned when an import run id is unknown.
var ErrRunNotFound = errors.New("import run not found")

type scanner interface {
	Scan(dest ...any) error
}

// NewRunID generates a ULID so runs sort by start time.
func NewRunID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// CreateImportRun inserts a new run in the running state.
func CreateImportRun(db *sql.DB, run *models.ImportRun) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	run.Status = models.RunStatusRunning
	run.StartedAt = time.Now().UTC()

	_, err := db.Exec(`
		INSERT INTO import_runs (id, site, source, mode, dry_run, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Site, run.Source, run.Mode, run.DryRun, run.Status, run.StartedAt)

	if err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}

	return nil
}

// FinishImportRun stores the final status and counters of a run.
func FinishImportRun(db *sql.DB, run *models.ImportRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now

	var errorMsg sql.NullString
	if run.ErrorMessage != "" {
		errorMsg = sql.NullString{String: run.ErrorMessage, Valid: true}
	}

	res, err := db.Exec(`
		UPDATE import_runs SET
			status = ?,
			error_message = ?,
			total = ?,
			succeeded = ?,
			failed = ?,
			skipped = ?,
			compiled = ?,
			finished_at = ?
		WHERE id = ?
	`, run.Status, errorMsg, run.Total, run.Succeeded, run.Failed, run.Skipped, run.Compiled, now, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish import run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish import run: %w", err)
	}
	if n == 0 {
		return ErrRunNotFound
	}

	return nil
}

const runColumns = `id, site, source, mode, dry_run, status, error_message, total, succeeded, failed, skipped, compiled, started_at, finished_at`

func scanRun(s scanner) (*models.ImportRun, error) {
	var run models.ImportRun
	var errorMessage sql.NullString
	var finishedAt sql.NullTime

	err := s.Scan(
		&run.ID,
		&run.Site,
		&run.Source,
		&run.Mode,
		&run.DryRun,
		&run.Status,
		&errorMessage,
		&run.Total,
		&run.Succeeded,
		&run.Failed,
		&run.Skipped,
		&run.Compiled,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	if errorMessage.Valid {
		run.ErrorMessage = errorMessage.String
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return &run, nil
}

// GetImportRun retrieves one run by id.
func GetImportRun(db *sql.DB, id string) (*models.ImportRun, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM import_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import run: %w", err)
	}

	return run, nil
}

// ListImportRuns returns the most recent runs first.
func ListImportRuns(db *sql.DB, limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`SELECT `+runColumns+` FROM import_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.ImportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import runs: %w", err)
	}

	return runs, nil
}

// RecordImportLog stores the outcome of one row.
func RecordImportLog(db *sql.DB, entry *models.ImportLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	_, err := db.Exec(`
		INSERT INTO import_log (id, run_id, row_number, row_key, status, http_status, subscription_id, error_message, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID.String(),
		entry.RunID,
		entry.RowNumber,
		entry.RowKey,
		entry.Status,
		nullInt(entry.HTTPStatus),
		nullString(entry.SubscriptionID),
		nullString(entry.ErrorMessage),
		nullString(entry.Payload),
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record import log: %w", err)
	}

	return nil
}

// ListImportLogs returns the row outcomes of a run in row order.
func ListImportLogs(db *sql.DB, runID string) ([]models.ImportLog, error) {
	rows, err := db.Query(`
		SELECT id, run_id, row_number, row_key, status, http_status, subscription_id, error_message, payload, created_at
		FROM import_log
		WHERE run_id = ?
		ORDER BY row_number
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query import log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.ImportLog
	for rows.Next() {
		var entry models.ImportLog
		var id string
		var httpStatus sql.NullInt64
		var subscriptionID, errorMessage, payload sql.NullString

		err := rows.Scan(
			&id,
			&entry.RunID,
			&entry.RowNumber,
			&entry.RowKey,
			&entry.Status,
			&httpStatus,
			&subscriptionID,
			&errorMessage,
			&payload,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}

		entry.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid import log id %q: %w", id, err)
		}
		entry.HTTPStatus = int(httpStatus.Int64)
		entry.SubscriptionID = subscriptionID.String
		entry.ErrorMessage = errorMessage.String
		entry.Payload = payload.String

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import log: %w", err)
	}

	return entries, nil
}

// HasSucceeded checks if a row key was already imported into site by a
// run that was not a dry run. Rows of excludeRunID are ignored so rows
// sharing a key within one run are each submitted.
func HasSucceeded(db *sql.DB, site, rowKey, excludeRunID string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM import_log l
		JOIN import_runs r ON r.id = l.run_id
		WHERE r.site = ? AND r.dry_run = 0 AND l.row_key = ? AND l.status = 'succeeded' AND l.run_id != ?
	`, site, rowKey, excludeRunID).Scan(&count)

	if err != nil {
		return false, fmt.Errorf("failed to check import log: %w", err)
	}

	return count > 0, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
