// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config filled with defaults.
// - Load layers a YAML file and SALESBOARD_* env vars on top of New().
// - Validation failures wrap ErrInvalidConfig; I/O and parse failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Source kinds.
const (
	SourceSheets   = "sheets"
	SourceWorkbook = "workbook"
	SourceCSV      = "csv"
	SourceMemory   = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// IdentityHeader carries the verified caller email set by the auth proxy.
	IdentityHeader string `koanf:"identity_header"`

	// AllowedOrigins lists CORS origins for the dashboard front end.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// Timezone is the IANA zone reporting windows are computed in.
	Timezone string `koanf:"timezone"`

	// HistoryLimit, TopPerformers and TrendMonths size the role views.
	HistoryLimit  int `koanf:"history_limit"`
	TopPerformers int `koanf:"top_performers"`
	TrendMonths   int `koanf:"trend_months"`

	// Source selects the tabular backend: sheets, workbook, csv or memory.
	Source string `koanf:"source"`

	// SpreadsheetID, CredentialsFile and CredentialsJSON configure Google Sheets.
	SpreadsheetID   string `koanf:"spreadsheet_id"`
	CredentialsFile string `koanf:"credentials_file"`
	CredentialsJSON string `koanf:"credentials_json"`

	// WorkbookPath is the XLSX file used by the workbook source.
	WorkbookPath string `koanf:"workbook_path"`

	// CSVDir holds one <sheet>.csv per range for the csv source.
	CSVDir string `koanf:"csv_dir"`

	// SourceRatePerMinute caps Sheets API calls.
	SourceRatePerMinute int `koanf:"source_rate_per_minute"`

	// DefaultAudience is used for announcements posted without one.
	DefaultAudience string `koanf:"default_audience"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		IdentityHeader:      "X-Authenticated-Email",
		AllowedOrigins:      []string{"*"},
		Timezone:            "Local",
		HistoryLimit:        20,
		TopPerformers:       5,
		TrendMonths:         6,
		Source:              SourceMemory,
		SourceRatePerMinute: 60,
		DefaultAudience:     "All",
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks required and source-specific settings.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.IdentityHeader) == "" {
		return fmt.Errorf("%w: identity_header must not be empty", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Source {
	case SourceSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("%w: spreadsheet_id is required for the sheets source", ErrInvalidConfig)
		}
		if c.CredentialsFile == "" && c.CredentialsJSON == "" {
			return fmt.Errorf("%w: credentials_file or credentials_json is required for the sheets source", ErrInvalidConfig)
		}
	case SourceWorkbook:
		if c.WorkbookPath == "" {
			return fmt.Errorf("%w: workbook_path is required for the workbook source", ErrInvalidConfig)
		}
	case SourceCSV:
		if c.CSVDir == "" {
			return fmt.Errorf("%w: csv_dir is required for the csv source", ErrInvalidConfig)
		}
	case SourceMemory:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	return nil
}
