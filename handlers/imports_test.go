// ABOUTME: Import ledger tool, resource, and prompt test suite
// ABOUTME: Seeds a temporary ledger and reads it back through the MCP handlers
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/clientify/db"
	"github.com/harperreed/clientify/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func setupLedgerTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to open ledger: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func seedRun(t *testing.T, database *sql.DB) *models.ImportRun {
	t.Helper()
	run := &models.ImportRun{Site: "acme", Source: "export.csv", Mode: models.ModeTest}
	if err := db.CreateImportRun(database, run); err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}

	entries := []*models.ImportLog{
		{RunID: run.ID, RowNumber: 1, RowKey: "sub-1", Status: models.RowStatusSucceeded, HTTPStatus: 201, SubscriptionID: "100", Payload: `{"subscription":{"import_mrr":true}}`},
		{RunID: run.ID, RowNumber: 2, RowKey: "sub-2", Status: models.RowStatusFailed, HTTPStatus: 422, ErrorMessage: "Product must be specified"},
	}
	for _, entry := range entries {
		if err := db.RecordImportLog(database, entry); err != nil {
			t.Fatalf("Failed to record row: %v", err)
		}
	}

	run.Status = models.RunStatusCompleted
	run.Total, run.Succeeded, run.Failed = 2, 1, 1
	if err := db.FinishImportRun(database, run); err != nil {
		t.Fatalf("Failed to finish run: %v", err)
	}
	return run
}

func TestListImportRuns(t *testing.T) {
	database := setupLedgerTestDB(t)
	run := seedRun(t, database)
	h := NewImportHandlers(database)

	_, output, err := h.ListImportRuns(context.Background(), &mcp.CallToolRequest{}, ListImportRunsInput{})
	if err != nil {
		t.Fatalf("ListImportRuns failed: %v", err)
	}

	if output.Count != 1 {
		t.Fatalf("Expected 1 run, got %d", output.Count)
	}
	got := output.Runs[0]
	if got.ID != run.ID || got.Status != models.RunStatusCompleted {
		t.Errorf("Unexpected run: %#v", got)
	}
	if got.FinishedAt == "" {
		t.Error("Expected finished_at to be set")
	}
}

func TestGetImportRun(t *testing.T) {
	database := setupLedgerTestDB(t)
	run := seedRun(t, database)
	h := NewImportHandlers(database)

	t.Run("AllRows", func(t *testing.T) {
		_, output, err := h.GetImportRun(context.Background(), &mcp.CallToolRequest{}, GetImportRunInput{RunID: run.ID})
		if err != nil {
			t.Fatalf("GetImportRun failed: %v", err)
		}
		if len(output.Rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(output.Rows))
		}
		if output.Rows[0].Payload != "" {
			t.Error("Expected payloads to be omitted by default")
		}
	})

	t.Run("OnlyFailedWithPayloads", func(t *testing.T) {
		_, output, err := h.GetImportRun(context.Background(), &mcp.CallToolRequest{}, GetImportRunInput{RunID: run.ID, OnlyFailed: true, IncludePayloads: true})
		if err != nil {
			t.Fatalf("GetImportRun failed: %v", err)
		}
		if len(output.Rows) != 1 || output.Rows[0].RowKey != "sub-2" {
			t.Fatalf("Expected only the failed row, got %#v", output.Rows)
		}
	})

	t.Run("MissingID", func(t *testing.T) {
		if _, _, err := h.GetImportRun(context.Background(), &mcp.CallToolRequest{}, GetImportRunInput{}); err == nil {
			t.Error("Expected error for missing run_id")
		}
	})

	t.Run("UnknownID", func(t *testing.T) {
		if _, _, err := h.GetImportRun(context.Background(), &mcp.CallToolRequest{}, GetImportRunInput{RunID: "nope"}); err == nil {
			t.Error("Expected error for unknown run")
		}
	})
}

func TestReadResource(t *testing.T) {
	database := setupLedgerTestDB(t)
	run := seedRun(t, database)
	h := NewResourceHandlers(database)

	result, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "clientify://runs/" + run.ID},
	})
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}

	var output GetImportRunOutput
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &output); err != nil {
		t.Fatalf("Failed to decode resource: %v", err)
	}
	if output.Run.ID != run.ID || len(output.Rows) != 2 {
		t.Errorf("Unexpected resource content: %#v", output)
	}

	result, err = h.ReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "clientify://runs"},
	})
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, run.ID) {
		t.Error("Expected run list to contain the run id")
	}

	if _, err := h.ReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "crm://contacts"},
	}); err == nil {
		t.Error("Expected error for foreign URI scheme")
	}
}

func TestImportRunReviewPrompt(t *testing.T) {
	database := setupLedgerTestDB(t)
	h := NewPromptHandlers(database)

	if _, err := h.GetPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: "import-run-review"},
	}); err == nil {
		t.Error("Expected error when no runs are recorded")
	}

	run := seedRun(t, database)
	result, err := h.GetPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: "import-run-review", Arguments: map[string]string{"run_id": run.ID}},
	})
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}

	text := result.Messages[0].Content.(*mcp.TextContent).Text
	if !strings.Contains(text, "row 2 (sub-2): HTTP 422: Product must be specified") {
		t.Errorf("Expected failed row in prompt, got:\n%s", text)
	}
	if strings.Contains(text, "sub-1") {
		t.Error("Expected succeeded rows to be left out")
	}
}
