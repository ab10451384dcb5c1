package repository

import (
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// SheetsOption configures a SheetsSource.
type SheetsOption func(*SheetsSource)

// WithCredentialsFile authenticates with a service account key file.
func WithCredentialsFile(path string) SheetsOption {
	return func(s *SheetsSource) {
		if path != "" {
			s.clientOpts = append(s.clientOpts, option.WithCredentialsFile(path))
			s.hasCredentials = true
		}
	}
}

// WithCredentialsJSON authenticates with an inline service account key.
func WithCredentialsJSON(raw string) SheetsOption {
	return func(s *SheetsSource) {
		if raw != "" {
			s.clientOpts = append(s.clientOpts, option.WithCredentialsJSON([]byte(raw)))
			s.hasCredentials = true
		}
	}
}

// WithClientOptions passes raw client options, e.g. a custom endpoint.
// Options given here count as credentials.
func WithClientOptions(opts ...option.ClientOption) SheetsOption {
	return func(s *SheetsSource) {
		if len(opts) > 0 {
			s.clientOpts = append(s.clientOpts, opts...)
			s.hasCredentials = true
		}
	}
}

// WithRatePerMinute caps API calls per minute. Zero or less disables the cap.
func WithRatePerMinute(n int) SheetsOption {
	return func(s *SheetsSource) {
		if n <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithValueInputOption sets how appended values are interpreted
// (USER_ENTERED or RAW).
func WithValueInputOption(v string) SheetsOption {
	return func(s *SheetsSource) {
		if v != "" {
			s.valueInput = v
		}
	}
}

// MemoryOption configures a MemorySource.
type MemoryOption func(*MemorySource)

// WithSheet preloads a sheet. The first row is usually the header.
func WithSheet(name string, rows [][]any) MemoryOption {
	return func(m *MemorySource) {
		m.sheets[name] = copyRows(rows)
	}
}

// CSVOption configures a CSVSource.
type CSVOption func(*CSVSource)

// WithDelimiter sets the field delimiter.
func WithDelimiter(r rune) CSVOption {
	return func(c *CSVSource) {
		if r != 0 {
			c.delimiter = r
		}
	}
}
