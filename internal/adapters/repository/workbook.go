package repository

import (
	"context"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WorkbookSource serves ranges from the sheets of a local XLSX file. The file
// is re-read on every batch so edits show up without a restart.
type WorkbookSource struct {
	path string
	mu   sync.RWMutex
}

// NewWorkbookSource opens path lazily; it only checks that a path is given.
func NewWorkbookSource(path string) (*WorkbookSource, error) {
	if path == "" {
		return nil, ErrMissingPath
	}
	return &WorkbookSource{path: path}, nil
}

// Name implements Source.
func (w *WorkbookSource) Name() string { return "workbook" }

// BatchGet implements Source. Cells are returned as their raw stored value,
// so dates come back as Excel serial numbers.
func (w *WorkbookSource) BatchGet(ctx context.Context, ranges []string) ([][][]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "xlsx: context cancelled")
	}
	w.mu.RLock()
	defer w.mu.RUnlock()

	f, err := xlsx.OpenFile(w.path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", w.path)
	}

	out := make([][][]any, len(ranges))
	for i, rng := range ranges {
		sheet, ok := f.Sheet[SheetName(rng)]
		if !ok {
			out[i] = [][]any{}
			continue
		}
		out[i] = clip(sheetRows(sheet), Width(rng))
	}
	return out, nil
}

// Append implements Source. A missing sheet is created.
func (w *WorkbookSource) Append(ctx context.Context, rng string, row []any) error {
	if len(row) == 0 {
		return ErrEmptyRow
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "xlsx: context cancelled")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	var f *xlsx.File
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		f = xlsx.NewFile()
	} else {
		f, err = xlsx.OpenFile(w.path)
		if err != nil {
			return eris.Wrapf(err, "xlsx: open %s", w.path)
		}
	}

	name := SheetName(rng)
	sheet, ok := f.Sheet[name]
	if !ok {
		var err error
		sheet, err = f.AddSheet(name)
		if err != nil {
			return eris.Wrapf(err, "xlsx: add sheet %s", name)
		}
	}
	AppendCells(sheet.AddRow(), row)

	if err := f.Save(w.path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", w.path)
	}
	return nil
}

// AppendCells writes values into an xlsx row keeping their native types.
func AppendCells(r *xlsx.Row, values []any) {
	for _, v := range values {
		r.AddCell().SetValue(v)
	}
}

func sheetRows(sheet *xlsx.Sheet) [][]any {
	rows := make([][]any, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			rows = append(rows, []any{})
			continue
		}
		cells := make([]any, len(row.Cells))
		for j, cell := range row.Cells {
			if cell == nil {
				cells[j] = ""
				continue
			}
			cells[j] = cell.Value
		}
		rows = append(rows, cells)
	}
	return rows
}
