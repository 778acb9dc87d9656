// ABOUTME: Import CLI command
// ABOUTME: Submits a CSV export to Chargify and records every row in the import ledger
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/harperreed/clientify/chargify"
	"github.com/harperreed/clientify/config"
	"github.com/harperreed/clientify/importer"
	"github.com/sirupsen/logrus"
)

// ImportCommand runs a subscription import
func ImportCommand(database *sql.DB, cfg *config.Config, logger *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "CSV export to import (required)")
	live := fs.Bool("live", false, "Import into a live site; without it emails are redacted and rows with payment_profile_* data use the bogus vault")
	dryRun := fs.Bool("dry-run", false, "Compile and record payloads without calling the API")
	lookupCustomers := fs.Bool("lookup-customers", false, "Attach subscriptions to existing customers found by customer_reference")
	force := fs.Bool("force", false, "Re-import rows that already succeeded")
	noRequestLog := fs.Bool("no-request-log", false, "Do not write the request log")
	_ = fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("--file is required")
	}
	if !*dryRun {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w (run 'clientify config init')", err)
		}
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *file, err)
	}
	defer func() { _ = f.Close() }()

	src, err := importer.NewReader(f)
	if err != nil {
		return err
	}

	var clientOpts []chargify.Option
	if cfg.RequestLogEnabled() && !*noRequestLog && !*dryRun {
		logFile, err := chargify.OpenRequestLog(cfg.LogFile)
		if err != nil {
			return err
		}
		defer func() { _ = logFile.Close() }()
		clientOpts = append(clientOpts, chargify.WithRequestLog(chargify.NewRequestLogger(logFile)))
		logger.WithField("path", cfg.LogFile).Debug("request log enabled")
	}
	client := chargify.New(cfg.Subdomain, cfg.APIKey, clientOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *live && !*dryRun {
		fmt.Printf("⚠ Live import into %s\n", client.BaseURL())
	}

	summary, runErr := importer.New(database, client, logger).Run(ctx, src, importer.Options{
		Site:            cfg.Subdomain,
		Source:          filepath.Base(*file),
		Test:            !*live,
		DryRun:          *dryRun,
		LookupCustomers: *lookupCustomers,
		Force:           *force,
	})
	if summary != nil {
		printSummary(summary)
	}
	if runErr != nil {
		return fmt.Errorf("import aborted: %w", runErr)
	}
	return nil
}

func printSummary(s *importer.Summary) {
	fmt.Printf("✓ Import run %s\n", s.RunID)
	fmt.Printf("  Rows:      %d\n", s.Total)
	if s.Compiled > 0 {
		fmt.Printf("  Compiled:  %d\n", s.Compiled)
	}
	fmt.Printf("  Succeeded: %s\n", statusStyle("succeeded").Render(fmt.Sprint(s.Succeeded)))
	fmt.Printf("  Failed:    %s\n", statusStyle("failed").Render(fmt.Sprint(s.Failed)))
	fmt.Printf("  Skipped:   %d\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Printf("\nSee failures with: clientify status --run %s --failed\n", s.RunID)
	}
}
