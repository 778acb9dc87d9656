// ABOUTME: MCP server subcommand
// ABOUTME: Serves the payload compiler and import ledger over stdio
package cli

import (
	"context"
	"database/sql"

	"github.com/harperreed/clientify/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(database *sql.DB, logger *logrus.Logger, version string) error {
	logger.Info("starting clientify MCP server")

	compileHandlers := handlers.NewCompileHandlers()
	importHandlers := handlers.NewImportHandlers(database)
	resourceHandlers := handlers.NewResourceHandlers(database)
	promptHandlers := handlers.NewPromptHandlers(database)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "clientify",
		Version: version,
	}, nil)

	// Compiler tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_subscription",
		Description: "Compile one import row into a Chargify create-subscription request body (test mode unless live is set)",
	}, compileHandlers.CompileSubscription)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_customer",
		Description: "Compile the customer_attributes of one import row",
	}, compileHandlers.CompileCustomer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_payment_profile",
		Description: "Compile the payment_profile_attributes of one import row",
	}, compileHandlers.CompilePaymentProfile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_components",
		Description: "List the component allocations encoded in a row's component columns",
	}, compileHandlers.ExtractComponents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_metafields",
		Description: "Collect customer or subscription metafields from a row",
	}, compileHandlers.ExtractMetafields)

	// Ledger tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_import_runs",
		Description: "List recent import runs with their row counts, newest first",
	}, importHandlers.ListImportRuns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_import_run",
		Description: "Show one import run and the outcome of each of its rows",
	}, importHandlers.GetImportRun)

	server.AddResource(&mcp.Resource{
		URI:         "clientify://runs",
		Name:        "import-runs",
		Description: "Recent import runs",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "clientify://runs/{id}",
		Name:        "import-run",
		Description: "One import run with its rows",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddPrompt(&mcp.Prompt{
		Name:        "import-run-review",
		Description: "Review the failures of an import run (defaults to the latest run)",
		Arguments: []*mcp.PromptArgument{
			{Name: "run_id", Description: "Import run id"},
		},
	}, promptHandlers.GetPrompt)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
