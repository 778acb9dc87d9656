// ABOUTME: Data models for billing import entities
// ABOUTME: Defines payload maps, import runs, and per-row import log records
package models

import (
	"time"

	"github.com/google/uuid"
)

// Payload is a JSON-compatible request body. Nested objects are Payload
// values and repeated objects are []Payload.
type Payload map[string]any

// Import run status constants.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Row outcome constants recorded in the import log.
const (
	RowStatusCompiled  = "compiled"
	RowStatusSucceeded = "succeeded"
	RowStatusFailed    = "failed"
	RowStatusSkipped   = "skipped"
)

// Import modes.
const (
	ModeTest = "test"
	ModeLive = "live"
)

type ImportRun struct {
	ID           string     `json:"id"` // ULID
	Site         string     `json:"site"`
	Source       string     `json:"source"`
	Mode         string     `json:"mode"`
	DryRun       bool       `json:"dry_run"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Total        int        `json:"total"`
	Succeeded    int        `json:"succeeded"`
	Failed       int        `json:"failed"`
	Skipped      int        `json:"skipped"`
	Compiled     int        `json:"compiled"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

type ImportLog struct {
	ID             uuid.UUID `json:"id"`
	RunID          string    `json:"run_id"`
	RowNumber      int       `json:"row_number"`
	RowKey         string    `json:"row_key"`
	Status         string    `json:"status"`
	HTTPStatus     int       `json:"http_status,omitempty"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	Payload        string    `json:"payload,omitempty"` // compiled JSON request body
	CreatedAt      time.Time `json:"created_at"`
}
