// ABOUTME: Status CLI command
// ABOUTME: Shows recent import runs or the per-row outcomes of one run
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/clientify/db"
	"github.com/harperreed/clientify/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case models.RunStatusCompleted, models.RowStatusSucceeded:
		return okStyle
	case models.RunStatusFailed: // same value as models.RowStatusFailed
		return failStyle
	case models.RowStatusSkipped, models.RowStatusCompiled:
		return dimStyle
	default:
		return lipgloss.NewStyle()
	}
}

// StatusCommand lists import runs or shows one run
func StatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	runID := fs.String("run", "", "Show the rows of this import run")
	limit := fs.Int("limit", 20, "Maximum runs to list")
	failed := fs.Bool("failed", false, "Show only failed rows")
	_ = fs.Parse(args)

	if *runID == "" {
		runs, err := db.ListImportRuns(database, *limit)
		if err != nil {
			return fmt.Errorf("failed to list import runs: %w", err)
		}
		printRuns(os.Stdout, runs)
		return nil
	}

	run, err := db.GetImportRun(database, *runID)
	if err != nil {
		return fmt.Errorf("failed to get import run: %w", err)
	}
	logs, err := db.ListImportLogs(database, run.ID)
	if err != nil {
		return fmt.Errorf("failed to list import rows: %w", err)
	}

	printRun(os.Stdout, run, logs, *failed)
	return nil
}

func printRuns(out io.Writer, runs []models.ImportRun) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No import runs found")
		return
	}

	fmt.Fprintln(out, titleStyle.Render("Import runs"))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSITE\tMODE\tSTARTED\tROWS\tOK\tFAILED\tSKIPPED\tSTATUS")
	fmt.Fprintln(w, "--\t----\t----\t-------\t----\t--\t------\t-------\t------")

	for _, run := range runs {
		mode := run.Mode
		if run.DryRun {
			mode += " (dry)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Site,
			mode,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Total,
			run.Succeeded,
			run.Failed,
			run.Skipped,
			statusStyle(run.Status).Render(run.Status),
		)
	}
	_ = w.Flush()
}

func printRun(out io.Writer, run *models.ImportRun, logs []models.ImportLog, onlyFailed bool) {
	fmt.Fprintln(out, titleStyle.Render("Import run "+run.ID))
	fmt.Fprintf(out, "Site:    %s (%s)\n", run.Site, run.Mode)
	if run.Source != "" {
		fmt.Fprintf(out, "Source:  %s\n", run.Source)
	}
	fmt.Fprintf(out, "Status:  %s\n", statusStyle(run.Status).Render(run.Status))
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:   %s\n", run.ErrorMessage)
	}
	fmt.Fprintf(out, "Rows:    %d total, %d succeeded, %d failed, %d skipped, %d compiled\n\n",
		run.Total, run.Succeeded, run.Failed, run.Skipped, run.Compiled)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tKEY\tHTTP\tSUBSCRIPTION\tDETAIL\tSTATUS")
	fmt.Fprintln(w, "---\t---\t----\t------------\t------\t------")

	for _, entry := range logs {
		if onlyFailed && entry.Status != models.RowStatusFailed {
			continue
		}
		httpStatus := "-"
		if entry.HTTPStatus != 0 {
			httpStatus = fmt.Sprint(entry.HTTPStatus)
		}
		subscription := entry.SubscriptionID
		if subscription == "" {
			subscription = "-"
		}
		detail := entry.ErrorMessage
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			entry.RowNumber,
			entry.RowKey,
			httpStatus,
			subscription,
			detail,
			statusStyle(entry.Status).Render(entry.Status),
		)
	}
	_ = w.Flush()
}
