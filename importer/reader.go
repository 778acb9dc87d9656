// ABOUTME: CSV source for subscription imports
// ABOUTME: Streams header-keyed rows from legacy billing exports
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/harperreed/clientify/models"
)

// RowSource yields rows until it returns io.EOF.
type RowSource interface {
	Next() (models.Row, error)
}

// Reader streams rows from CSV input whose first record is the header.
type Reader struct {
	csv    *csv.Reader
	header []string
}

// NewReader reads the header record. A UTF-8 byte order mark is stripped
// and ragged records are allowed.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	return &Reader{csv: cr, header: header}, nil
}

// Header returns the column names.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next row, skipping records whose cells are all blank.
func (r *Reader) Next() (models.Row, error) {
	for {
		record, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		return models.NewRow(r.header, record), nil
	}
}

// ReadAll collects every row of src.
func ReadAll(src RowSource) ([]models.Row, error) {
	var rows []models.Row
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// Rows returns a RowSource over rows already in memory.
func Rows(rows ...models.Row) RowSource {
	return &sliceSource{rows: rows}
}

type sliceSource struct {
	rows []models.Row
	next int
}

func (s *sliceSource) Next() (models.Row, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
