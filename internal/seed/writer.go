package seed

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/okian/salesboard/internal/adapters/repository"
	"github.com/okian/salesboard/internal/domain/normalize"
)

// Memory returns an in-memory source preloaded with the dataset.
func (d *Dataset) Memory() *repository.MemorySource {
	opts := make([]repository.MemoryOption, 0, len(Ranges))
	for _, r := range Ranges {
		opts = append(opts, repository.WithSheet(string(r), d.Sheets[r]))
	}
	return repository.NewMemorySource(opts...)
}

// WriteWorkbook saves the dataset as an XLSX file with one sheet per range.
// Dates are stored as Excel date cells.
func (d *Dataset) WriteWorkbook(path string) error {
	if path == "" {
		return repository.ErrMissingPath
	}
	f := xlsx.NewFile()
	for _, r := range Ranges {
		sheet, err := f.AddSheet(string(r))
		if err != nil {
			return eris.Wrapf(err, "seed: add sheet %s", r)
		}
		for _, row := range d.Sheets[r] {
			repository.AppendCells(sheet.AddRow(), row)
		}
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "seed: save %s", path)
	}
	return nil
}

// Load appends every row of the dataset to src, header rows included. It is
// meant for empty targets such as a fresh CSV directory.
func (d *Dataset) Load(ctx context.Context, src repository.Source) error {
	for _, r := range Ranges {
		sc, _ := normalize.SchemaFor(r)
		for i, row := range d.Sheets[r] {
			if err := src.Append(ctx, sc.A1(), row); err != nil {
				return eris.Wrapf(err, "seed: %s row %d", r, i)
			}
		}
	}
	return nil
}
