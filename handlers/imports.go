// ABOUTME: Import ledger MCP tool handlers
// ABOUTME: Implements list_import_runs and get_import_run
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/clientify/db"
	"github.com/harperreed/clientify/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ImportHandlers struct {
	db *sql.DB
}

func NewImportHandlers(database *sql.DB) *ImportHandlers {
	return &ImportHandlers{db: database}
}

type RunOutput struct {
	ID           string `json:"id"`
	Site         string `json:"site"`
	Source       string `json:"source,omitempty"`
	Mode         string `json:"mode"`
	DryRun       bool   `json:"dry_run"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Total        int    `json:"total"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	Skipped      int    `json:"skipped"`
	Compiled     int    `json:"compiled"`
	StartedAt    string `json:"started_at"`
	FinishedAt   string `json:"finished_at,omitempty"`
}

type RowOutput struct {
	RowNumber      int    `json:"row_number"`
	RowKey         string `json:"row_key"`
	Status         string `json:"status"`
	HTTPStatus     int    `json:"http_status,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	Payload        string `json:"payload,omitempty"`
}

type ListImportRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of runs, newest first (default 20)"`
}

type ListImportRunsOutput struct {
	Runs  []RunOutput `json:"runs"`
	Count int         `json:"count"`
}

func (h *ImportHandlers) ListImportRuns(_ context.Context, request *mcp.CallToolRequest, input ListImportRunsInput) (*mcp.CallToolResult, ListImportRunsOutput, error) {
	runs, err := db.ListImportRuns(h.db, input.Limit)
	if err != nil {
		return nil, ListImportRunsOutput{}, fmt.Errorf("failed to list import runs: %w", err)
	}

	result := make([]RunOutput, len(runs))
	for i := range runs {
		result[i] = runToOutput(&runs[i])
	}

	return nil, ListImportRunsOutput{Runs: result, Count: len(result)}, nil
}

type GetImportRunInput struct {
	RunID           string `json:"run_id" jsonschema:"Import run id (required)"`
	OnlyFailed      bool   `json:"only_failed,omitempty" jsonschema:"Return only failed rows"`
	IncludePayloads bool   `json:"include_payloads,omitempty" jsonschema:"Include the compiled request body of each row"`
}

type GetImportRunOutput struct {
	Run  RunOutput   `json:"run"`
	Rows []RowOutput `json:"rows"`
}

func (h *ImportHandlers) GetImportRun(_ context.Context, request *mcp.CallToolRequest, input GetImportRunInput) (*mcp.CallToolResult, GetImportRunOutput, error) {
	if input.RunID == "" {
		return nil, GetImportRunOutput{}, fmt.Errorf("run_id is required")
	}

	run, err := db.GetImportRun(h.db, input.RunID)
	if err != nil {
		return nil, GetImportRunOutput{}, fmt.Errorf("failed to get import run: %w", err)
	}

	logs, err := db.ListImportLogs(h.db, run.ID)
	if err != nil {
		return nil, GetImportRunOutput{}, fmt.Errorf("failed to list import rows: %w", err)
	}

	rows := make([]RowOutput, 0, len(logs))
	for i := range logs {
		if input.OnlyFailed && logs[i].Status != models.RowStatusFailed {
			continue
		}
		out := logToOutput(&logs[i])
		if !input.IncludePayloads {
			out.Payload = ""
		}
		rows = append(rows, out)
	}

	return nil, GetImportRunOutput{Run: runToOutput(run), Rows: rows}, nil
}

func runToOutput(run *models.ImportRun) RunOutput {
	out := RunOutput{
		ID:           run.ID,
		Site:         run.Site,
		Source:       run.Source,
		Mode:         run.Mode,
		DryRun:       run.DryRun,
		Status:       run.Status,
		ErrorMessage: run.ErrorMessage,
		Total:        run.Total,
		Succeeded:    run.Succeeded,
		Failed:       run.Failed,
		Skipped:      run.Skipped,
		Compiled:     run.Compiled,
		StartedAt:    run.StartedAt.Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		out.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return out
}

func logToOutput(entry *models.ImportLog) RowOutput {
	return RowOutput{
		RowNumber:      entry.RowNumber,
		RowKey:         entry.RowKey,
		Status:         entry.Status,
		HTTPStatus:     entry.HTTPStatus,
		SubscriptionID: entry.SubscriptionID,
		ErrorMessage:   entry.ErrorMessage,
		Payload:        entry.Payload,
	}
}
