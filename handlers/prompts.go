// ABOUTME: MCP prompt handlers for import review workflows
// ABOUTME: Builds a review prompt from an import run and its failed rows
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/clientify/db"
	"github.com/harperreed/clientify/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxPromptFailures caps how many failed rows are quoted in a prompt.
const maxPromptFailures = 25

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "import-run-review":
		return h.getImportRunReviewPrompt(request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getImportRunReviewPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	runID := args["run_id"]
	var run *models.ImportRun
	if runID == "" {
		runs, err := db.ListImportRuns(h.db, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch import runs: %w", err)
		}
		if len(runs) == 0 {
			return nil, fmt.Errorf("no import runs recorded")
		}
		run = &runs[0]
	} else {
		found, err := db.GetImportRun(h.db, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch import run: %w", err)
		}
		run = found
	}

	logs, err := db.ListImportLogs(h.db, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch import rows: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Import run %s against site %s (%s mode", run.ID, run.Site, run.Mode))
	if run.DryRun {
		promptText.WriteString(", dry run")
	}
	promptText.WriteString(")\n")
	promptText.WriteString(fmt.Sprintf("Status: %s\n", run.Status))
	if run.ErrorMessage != "" {
		promptText.WriteString(fmt.Sprintf("Aborted with: %s\n", run.ErrorMessage))
	}
	promptText.WriteString(fmt.Sprintf("Rows: %d total, %d succeeded, %d failed, %d skipped, %d compiled\n",
		run.Total, run.Succeeded, run.Failed, run.Skipped, run.Compiled))

	quoted := 0
	for _, entry := range logs {
		if entry.Status != models.RowStatusFailed {
			continue
		}
		if quoted == 0 {
			promptText.WriteString("\nFailed rows:\n")
		}
		if quoted == maxPromptFailures {
			promptText.WriteString(fmt.Sprintf("- ... and %d more\n", run.Failed-quoted))
			break
		}
		promptText.WriteString(fmt.Sprintf("- row %d (%s): HTTP %d: %s\n", entry.RowNumber, entry.RowKey, entry.HTTPStatus, entry.ErrorMessage))
		quoted++
	}

	promptText.WriteString("\nPlease review this import and provide:")
	promptText.WriteString("\n1. The likely cause of each group of failures")
	promptText.WriteString("\n2. Which source columns need fixing before a re-run")
	promptText.WriteString("\n3. Whether the run is safe to repeat without --force")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Review of import run %s", run.ID),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}
