// ABOUTME: Entry point for the clientify subscription importer
// ABOUTME: Routes to config, compile, import, status, or the MCP server
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/clientify/cli"
	"github.com/harperreed/clientify/config"
	"github.com/harperreed/clientify/db"
	"github.com/sirupsen/logrus"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	logLevel := flag.String("log-level", "info", "Diagnostic log level (debug, info, warn, error)")
	ledgerPath := flag.String("ledger", "", "Import ledger path (default: ~/.local/share/clientify/ledger.db)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("clientify version %s\n", version)
		os.Exit(0)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "config":
		if err := cli.ConfigCommand(commandArgs); err != nil {
			logger.Fatalf("Error: %v", err)
		}

	case "compile":
		if err := cli.CompileCommand(commandArgs); err != nil {
			logger.Fatalf("Error: %v", err)
		}

	case "import":
		cfg := loadConfig(logger)
		database := openLedger(logger, cfg, *ledgerPath)
		err := cli.ImportCommand(database, cfg, logger, commandArgs)
		_ = database.Close()
		if err != nil {
			logger.Fatalf("Error: %v", err)
		}

	case "status":
		cfg := loadConfig(logger)
		database := openLedger(logger, cfg, *ledgerPath)
		err := cli.StatusCommand(database, commandArgs)
		_ = database.Close()
		if err != nil {
			logger.Fatalf("Error: %v", err)
		}

	case "mcp":
		cfg := loadConfig(logger)
		database := openLedger(logger, cfg, *ledgerPath)
		err := cli.MCPCommand(database, logger, version)
		_ = database.Close()
		if err != nil {
			logger.Fatalf("MCP server failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func loadConfig(logger *logrus.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// openLedger opens the ledger at the --ledger path, falling back to the configured one.
func openLedger(logger *logrus.Logger, cfg *config.Config, override string) *sql.DB {
	path := cfg.LedgerPath
	if override != "" {
		path = override
	}

	database, err := db.OpenDatabase(path)
	if err != nil {
		logger.Fatalf("Failed to open ledger: %v", err)
	}
	logger.WithField("path", path).Debug("ledger opened")
	return database
}

func printUsage() {
	fmt.Print(`clientify - Chargify subscription importer

Usage:
  clientify [--log-level LEVEL] [--ledger PATH] <command> [flags]

Commands:
  config init [--subdomain S]     Save site credentials (API key is prompted)
  config show                     Show the effective configuration
  compile --file F [--row N]      Print compiled subscription payloads
          [--live] [--customer-id ID]
  import --file F                 Import a CSV export into the site
          [--live] [--dry-run] [--lookup-customers] [--force] [--no-request-log]
  status [--run ID] [--failed]    Show import runs or one run's rows
         [--limit N]
  mcp                             Start the MCP server on stdio

Imports run in test mode unless --live is given: customer emails are
redacted and rows carrying payment_profile_* data use the bogus gateway.
Rows with no payment_profile_* data compile without payment_profile_attributes.

Environment:
  CLIENTIFY_SUBDOMAIN, CLIENTIFY_API_KEY, CLIENTIFY_LEDGER_PATH,
  CLIENTIFY_LOG_FILE, CLIENTIFY_REQUEST_LOG (false disables the request log)
`)
}
