// ABOUTME: Subscription import orchestration
// ABOUTME: Compiles each row, submits it to Chargify, and records the outcome in the ledger
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/harperreed/clientify/chargify"
	"github.com/harperreed/clientify/db"
	"github.com/harperreed/clientify/generate"
	"github.com/harperreed/clientify/models"
	"github.com/sirupsen/logrus"
)

// Submitter is the part of the Chargify client the importer needs.
type Submitter interface {
	CreateSubscription(ctx context.Context, payload models.Payload) (chargify.Result, error)
	FindCustomerByReference(ctx context.Context, reference string) (string, error)
}

// Options controls one import run.
type Options struct {
	Site   string
	Source string
	// Test redacts emails and forces the bogus vault.
	Test bool
	// DryRun compiles and records payloads without calling the API.
	DryRun bool
	// LookupCustomers references existing customers found by customer_reference
	// instead of creating them inline.
	LookupCustomers bool
	// Force re-imports rows the ledger already marks as succeeded.
	Force bool
}

// Summary counts row outcomes of a run.
type Summary struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	Compiled  int    `json:"compiled"`
}

type Importer struct {
	db     *sql.DB
	client Submitter
	logger *logrus.Logger
}

func New(database *sql.DB, client Submitter, logger *logrus.Logger) *Importer {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Importer{db: database, client: client, logger: logger}
}

// Run imports every row of src as one ledger run. HTTP failures are recorded
// per row and the run continues. Transport, ledger and context errors abort
// the run, mark it failed, and are returned with the partial summary.
func (im *Importer) Run(ctx context.Context, src RowSource, opts Options) (*Summary, error) {
	mode := models.ModeLive
	if opts.Test {
		mode = models.ModeTest
	}

	run := &models.ImportRun{
		Site:   opts.Site,
		Source: opts.Source,
		Mode:   mode,
		DryRun: opts.DryRun,
	}
	if err := db.CreateImportRun(im.db, run); err != nil {
		return nil, err
	}

	summary := &Summary{RunID: run.ID}
	log := im.logger.WithFields(logrus.Fields{"run_id": run.ID, "site": opts.Site, "mode": mode, "dry_run": opts.DryRun})
	log.Info("import started")

	runErr := im.importRows(ctx, run.ID, src, opts, summary, log)

	run.Total = summary.Total
	run.Succeeded = summary.Succeeded
	run.Failed = summary.Failed
	run.Skipped = summary.Skipped
	run.Compiled = summary.Compiled
	run.Status = models.RunStatusCompleted
	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	}

	if err := db.FinishImportRun(im.db, run); err != nil {
		if runErr == nil {
			return summary, err
		}
		log.WithError(err).Error("failed to finish import run")
	}

	if runErr != nil {
		log.WithError(runErr).Error("import aborted")
		return summary, runErr
	}

	log.WithFields(logrus.Fields{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
		"compiled":  summary.Compiled,
	}).Info("import finished")

	return summary, nil
}

func (im *Importer) importRows(ctx context.Context, runID string, src RowSource, opts Options, summary *Summary, log *logrus.Entry) error {
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		summary.Total++
		if err := im.importRow(ctx, runID, n, row, opts, summary, log); err != nil {
			return err
		}
	}
}

func (im *Importer) importRow(ctx context.Context, runID string, n int, row models.Row, opts Options, summary *Summary, log *logrus.Entry) error {
	key := RowKey(row)
	entry := &models.ImportLog{RunID: runID, RowNumber: n, RowKey: key}
	rowLog := log.WithFields(logrus.Fields{"row": n, "key": key})

	if !opts.Force && !opts.DryRun {
		done, err := db.HasSucceeded(im.db, opts.Site, key, runID)
		if err != nil {
			return err
		}
		if done {
			summary.Skipped++
			entry.Status = models.RowStatusSkipped
			rowLog.Debug("already imported")
			return db.RecordImportLog(im.db, entry)
		}
	}

	subOpts := generate.SubscriptionOptions{Test: opts.Test}
	if ref := row.Get("customer_reference"); ref != "" && opts.LookupCustomers && !opts.DryRun {
		id, err := im.client.FindCustomerByReference(ctx, ref)
		var apiErr *chargify.APIError
		switch {
		case errors.As(err, &apiErr):
			summary.Failed++
			entry.Status = models.RowStatusFailed
			entry.HTTPStatus = apiErr.Status
			entry.ErrorMessage = "customer lookup: " + apiErr.Body
			rowLog.WithError(err).Warn("customer lookup failed")
			return db.RecordImportLog(im.db, entry)
		case err != nil:
			return err
		}
		subOpts.CustomerID = id
	}

	payload := generate.Subscription(row, subOpts)
	entry.Payload = ledgerPayload(payload)

	if opts.DryRun {
		summary.Compiled++
		entry.Status = models.RowStatusCompiled
		rowLog.Debug("compiled")
		return db.RecordImportLog(im.db, entry)
	}

	res, err := im.client.CreateSubscription(ctx, payload)
	if err != nil {
		summary.Failed++
		entry.Status = models.RowStatusFailed
		entry.ErrorMessage = err.Error()
		if recErr := db.RecordImportLog(im.db, entry); recErr != nil {
			rowLog.WithError(recErr).Error("failed to record row")
		}
		return err
	}

	entry.HTTPStatus = res.Status
	if !res.OK() {
		summary.Failed++
		entry.Status = models.RowStatusFailed
		entry.ErrorMessage = strings.Join(res.ErrorMessages(), "; ")
		rowLog.WithField("status", res.Status).Warn(entry.ErrorMessage)
		return db.RecordImportLog(im.db, entry)
	}

	summary.Succeeded++
	entry.Status = models.RowStatusSucceeded
	entry.SubscriptionID = chargify.SubscriptionID(res)
	rowLog.WithField("subscription_id", entry.SubscriptionID).Debug("imported")
	return db.RecordImportLog(im.db, entry)
}

// RowKey identifies a row across runs. A subscription_reference is the
// key. Rows without one are keyed by a hash of their non-blank cells,
// prefixed with the customer_reference when present, so distinct rows from
// different files or for the same customer never share a key.
func RowKey(row models.Row) string {
	if ref := row.Get("subscription_reference"); ref != "" {
		return ref
	}
	if ref := row.Get("customer_reference"); ref != "" {
		return "customer:" + ref + ":" + rowDigest(row)
	}
	return "row:" + rowDigest(row)
}

func rowDigest(row models.Row) string {
	h := sha256.New()
	for _, col := range row {
		value := strings.TrimSpace(col.Value)
		if value == "" {
			continue
		}
		h.Write([]byte(col.Name))
		h.Write([]byte{0x1f})
		h.Write([]byte(value))
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ledgerPayload renders payload as JSON with card data reduced to the last
// four digits and the CVV dropped.
func ledgerPayload(payload models.Payload) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}

	var copied map[string]any
	if err := json.Unmarshal(data, &copied); err != nil {
		return ""
	}
	if sub, ok := copied["subscription"].(map[string]any); ok {
		if pp, ok := sub["payment_profile_attributes"].(map[string]any); ok {
			delete(pp, "cvv")
			if number, ok := pp["full_number"].(string); ok {
				pp["full_number"] = maskCardNumber(number)
			}
		}
	}

	out, err := json.Marshal(copied)
	if err != nil {
		return ""
	}
	return string(out)
}

func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return strings.Repeat("X", len(number))
	}
	return strings.Repeat("X", len(number)-4) + number[len(number)-4:]
}

var _ Submitter = (*chargify.Client)(nil)
