// ABOUTME: Ordered tabular row model used as compiler input
// ABOUTME: Pairs CSV headers with cells while keeping column order
package models

import (
	"sort"
	"strings"
)

// Column is one named cell of a row.
type Column struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Row is one record of the imported data source. Column order is kept
// because later columns win when several map to the same output key.
type Row []Column

// NewRow pairs header names with record cells. Missing trailing cells are
// treated as blank and surplus cells are dropped.
func NewRow(header, record []string) Row {
	row := make(Row, 0, len(header))
	for i, name := range header {
		var value string
		if i < len(record) {
			value = record[i]
		}
		row = append(row, Column{Name: strings.TrimSpace(name), Value: value})
	}
	return row
}

// RowFromMap builds a row from an unordered mapping. Keys are sorted so the
// result is deterministic.
func RowFromMap(m map[string]string) Row {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	row := make(Row, 0, len(names))
	for _, name := range names {
		row = append(row, Column{Name: name, Value: m[name]})
	}
	return row
}

// Get returns the trimmed value of the first column called name, or "" when
// the column is absent or blank.
func (r Row) Get(name string) string {
	for _, col := range r {
		if col.Name == name {
			return strings.TrimSpace(col.Value)
		}
	}
	return ""
}

// Lookup is like Get but reports whether the column carried a non-blank value.
func (r Row) Lookup(name string) (string, bool) {
	v := r.Get(name)
	return v, v != ""
}

// HasPrefix reports whether any column named with prefix carries a non-blank value.
func (r Row) HasPrefix(prefix string) bool {
	for _, col := range r {
		if strings.HasPrefix(col.Name, prefix) && strings.TrimSpace(col.Value) != "" {
			return true
		}
	}
	return false
}
