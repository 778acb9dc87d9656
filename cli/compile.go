// ABOUTME: Compile CLI command
// ABOUTME: Prints the subscription payloads a CSV export would produce, without calling the API
package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/clientify/generate"
	"github.com/harperreed/clientify/importer"
	"github.com/harperreed/clientify/models"
)

// CompileCommand compiles rows of a CSV file into subscription payloads
func CompileCommand(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	file := fs.String("file", "", "CSV export to compile (required)")
	live := fs.Bool("live", false, "Compile for a live site; without it emails are redacted and rows with payment_profile_* data use the bogus vault")
	rowNum := fs.Int("row", 0, "Compile only this data row (1-based)")
	customerID := fs.String("customer-id", "", "Reference an existing customer instead of inline attributes")
	_ = fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("--file is required")
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

	payloads, err := compileRows(src, generate.SubscriptionOptions{CustomerID: *customerID, Test: !*live}, *rowNum)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if *rowNum > 0 {
		return encoder.Encode(payloads[0])
	}
	return encoder.Encode(payloads)
}

// compileRows compiles every row of src, or only row rowNum when it is positive.
func compileRows(src importer.RowSource, opts generate.SubscriptionOptions, rowNum int) ([]models.Payload, error) {
	payloads := []models.Payload{}
	for n := 1; ; n++ {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if rowNum > 0 && n != rowNum {
			continue
		}
		payloads = append(payloads, generate.Subscription(row, opts))
		if rowNum > 0 {
			return payloads, nil
		}
	}

	if rowNum > 0 {
		return nil, fmt.Errorf("row %d not found", rowNum)
	}
	return payloads, nil
}
