// Package repository provides the tabular data sources the dashboard reads
// from and appends to: Google Sheets, an XLSX workbook, a CSV directory and
// an in-memory table set.
package repository

import (
	"context"
	"strings"
)

// Source is a tabular store addressed by A1-style named ranges such as
// "Sales_Log!A1:F". Rows are returned as loosely typed cell values.
type Source interface {
	// Name identifies the source kind in logs and metrics.
	Name() string

	// BatchGet reads every range in one call. The result is aligned with
	// ranges; a range whose sheet does not exist yields an empty row list
	// rather than failing the batch.
	BatchGet(ctx context.Context, ranges []string) ([][][]any, error)

	// Append adds one row at the end of the sheet named by rng.
	Append(ctx context.Context, rng string, row []any) error
}

// SheetName extracts the sheet title from an A1 range, stripping the quotes
// that titles with spaces carry.
func SheetName(rng string) string {
	name := rng
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		name = rng[:i]
	}
	name = strings.TrimSpace(name)
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}

// Width returns the number of columns an A1 span covers, or 0 when the span
// is open-ended or absent. "A1:F" and "A:E" give 6 and 5.
func Width(rng string) int {
	i := strings.LastIndex(rng, "!")
	if i < 0 {
		return 0
	}
	from, to, ok := strings.Cut(rng[i+1:], ":")
	if !ok {
		return 0
	}
	a, b := column(from), column(to)
	if a == 0 || b == 0 || b < a {
		return 0
	}
	return b - a + 1
}

func column(ref string) int {
	n := 0
	for _, r := range strings.ToUpper(ref) {
		if r < 'A' || r > 'Z' {
			break
		}
		n = n*26 + int(r-'A'+1)
	}
	return n
}

// clip trims rows to the span width so that every source returns the same
// shape for the same range.
func clip(rows [][]any, width int) [][]any {
	if width <= 0 {
		return rows
	}
	for i, row := range rows {
		if len(row) > width {
			rows[i] = row[:width]
		}
	}
	return rows
}
