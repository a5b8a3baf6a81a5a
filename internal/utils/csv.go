package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
)

// Column maps a CSV header to a value extractor
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// WriteCSV writes a header row followed by one row per item
func WriteCSV[T any](w io.Writer, columns []Column[T], items []T) error {
	writer := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Header
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	row := make([]string, len(columns))
	for _, item := range items {
		for i, c := range columns {
			row[i] = c.Value(item)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ServeCSV writes items as a CSV attachment named filename.csv
func ServeCSV[T any](w http.ResponseWriter, filename string, columns []Column[T], items []T) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
	return WriteCSV(w, columns, items)
}

// Truncate shortens s to at most n runes
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
