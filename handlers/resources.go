// ABOUTME: MCP resource handlers exposing the import ledger
// ABOUTME: Serves clientify://runs and clientify://runs/{id} as JSON
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/clientify/db"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "clientify://"

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	if parts[0] != "runs" {
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if len(parts) == 1 || parts[1] == "" {
		return h.readRuns(uri)
	}
	return h.readRun(uri, parts[1])
}

func (h *ResourceHandlers) readRuns(uri string) (*mcp.ReadResourceResult, error) {
	runs, err := db.ListImportRuns(h.db, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch import runs: %w", err)
	}

	out := make([]RunOutput, len(runs))
	for i := range runs {
		out[i] = runToOutput(&runs[i])
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readRun(uri, id string) (*mcp.ReadResourceResult, error) {
	run, err := db.GetImportRun(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch import run: %w", err)
	}

	logs, err := db.ListImportLogs(h.db, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch import rows: %w", err)
	}

	rows := make([]RowOutput, len(logs))
	for i := range logs {
		rows[i] = logToOutput(&logs[i])
	}
	return jsonResource(uri, GetImportRunOutput{Run: runToOutput(run), Rows: rows})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
