package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// CSVSource maps each sheet to <dir>/<sheet>.csv. A missing file is an empty
// sheet.
type CSVSource struct {
	dir       string
	delimiter rune
	mu        sync.RWMutex
}

// NewCSVSource serves the CSV files in dir.
func NewCSVSource(dir string, opts ...CSVOption) (*CSVSource, error) {
	if dir == "" {
		return nil, ErrMissingPath
	}
	c := &CSVSource{dir: dir, delimiter: ','}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name implements Source.
func (c *CSVSource) Name() string { return "csv" }

// BatchGet implements Source. Files are read in parallel.
func (c *CSVSource) BatchGet(ctx context.Context, ranges []string) ([][][]any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([][][]any, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, rng := range ranges {
		g.Go(func() error {
			rows, err := c.read(gctx, SheetName(rng))
			if err != nil {
				return err
			}
			out[i] = clip(rows, Width(rng))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CSVSource) path(sheet string) string {
	return filepath.Join(c.dir, sheet+".csv")
}

func (c *CSVSource) read(ctx context.Context, sheet string) ([][]any, error) {
	f, err := os.Open(c.path(sheet))
	if errors.Is(err, os.ErrNotExist) {
		return [][]any{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", sheet)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = c.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows := [][]any{}
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}
		record, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: read %s", sheet)
		}
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		rows = append(rows, row)
	}
}

// Append implements Source. The file is created when missing.
func (c *CSVSource) Append(ctx context.Context, rng string, row []any) error {
	if len(row) == 0 {
		return ErrEmptyRow
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "csv: context cancelled")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	sheet := SheetName(rng)
	f, err := os.OpenFile(c.path(sheet), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "csv: open %s for append", sheet)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = c.delimiter
	record := make([]string, len(row))
	for i, v := range row {
		record[i] = cellString(v)
	}
	if err := w.Write(record); err != nil {
		return eris.Wrapf(err, "csv: write %s", sheet)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "csv: flush %s", sheet)
	}
	return nil
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
