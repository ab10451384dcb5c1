package repository

import "errors"

// Sentinel errors for source construction and access.
var (
	ErrMissingSpreadsheetID = errors.New("spreadsheet id is required")
	ErrMissingCredentials   = errors.New("sheets credentials are required")
	ErrMissingPath          = errors.New("source path is required")
	ErrEmptyRow             = errors.New("cannot append an empty row")
)
