// Package csvutil reads header-mapped CSV exports, such as the book list
// export Goodreads produces.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Record is one CSV row with access to fields by header name.
type Record struct {
	columns map[string]int
	fields  []string
}

// Get returns the field under the named header, trimmed. Header matching
// is case-insensitive; missing headers yield an empty string.
func (r Record) Get(header string) string {
	idx, ok := r.columns[strings.ToLower(header)]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// SkipInvalid drops records the parser rejects instead of failing
	// the whole file.
	SkipInvalid bool
}

// ProcessFile reads a CSV file and parses each record into type T.
// The first row is treated as the header. The parser converts one record
// into the target type; a parser error aborts the run unless SkipInvalid
// is set.
func ProcessFile[T any](filename string, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Process(file, parser, opts)
}

// Process reads CSV data from r; see ProcessFile.
func Process[T any](r io.Reader, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var items []T
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Error reading CSV record", "error", err)
			continue
		}

		item, err := parser(Record{columns: columns, fields: fields})
		if err != nil {
			if opts.SkipInvalid {
				slog.Warn("Skipping invalid CSV record", "error", err)
				continue
			}
			return nil, fmt.Errorf("invalid CSV record: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
