package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultRatePerMinute matches the per-user read quota of the Sheets API.
const DefaultRatePerMinute = 60

// SheetsSource reads and appends through the Google Sheets v4 API.
type SheetsSource struct {
	spreadsheetID  string
	svc            *sheets.Service
	limiter        *rate.Limiter
	valueInput     string
	clientOpts     []option.ClientOption
	hasCredentials bool
}

// NewSheetsSource connects to one spreadsheet. Credentials must be supplied
// through WithCredentialsFile, WithCredentialsJSON or WithClientOptions.
func NewSheetsSource(ctx context.Context, spreadsheetID string, opts ...SheetsOption) (*SheetsSource, error) {
	if spreadsheetID == "" {
		return nil, ErrMissingSpreadsheetID
	}
	s := &SheetsSource{
		spreadsheetID: spreadsheetID,
		valueInput:    "USER_ENTERED",
	}
	WithRatePerMinute(DefaultRatePerMinute)(s)
	for _, opt := range opts {
		opt(s)
	}
	if !s.hasCredentials {
		return nil, ErrMissingCredentials
	}

	clientOpts := append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, s.clientOpts...)
	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: create service")
	}
	s.svc = svc
	return s, nil
}

// Name implements Source.
func (s *SheetsSource) Name() string { return "sheets" }

// BatchGet implements Source. The API rejects a whole batch when one sheet is
// missing; in that case the existing sheet titles are looked up and only
// those ranges are requested.
func (s *SheetsSource) BatchGet(ctx context.Context, ranges []string) ([][][]any, error) {
	out := make([][][]any, len(ranges))
	if len(ranges) == 0 {
		return out, nil
	}

	resp, err := s.batchGet(ctx, ranges)
	if err == nil {
		s.fill(out, ranges, resp)
		return out, nil
	}
	if !badRequest(err) {
		return nil, err
	}

	titles, terr := s.sheetTitles(ctx)
	if terr != nil {
		return nil, terr
	}
	present := make([]string, 0, len(ranges))
	for _, rng := range ranges {
		if _, ok := titles[SheetName(rng)]; ok {
			present = append(present, rng)
		}
	}
	for i := range out {
		out[i] = [][]any{}
	}
	if len(present) == 0 {
		return out, nil
	}
	resp, err = s.batchGet(ctx, present)
	if err != nil {
		return nil, err
	}
	s.fill(out, ranges, resp)
	return out, nil
}

func (s *SheetsSource) batchGet(ctx context.Context, ranges []string) (*sheets.BatchGetValuesResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sheets: rate limit wait")
	}
	resp, err := s.svc.Spreadsheets.Values.BatchGet(s.spreadsheetID).
		Ranges(ranges...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, eris.Wrapf(err, "sheets: batch get %d ranges", len(ranges))
	}
	return resp, nil
}

// fill places each returned value range by sheet title since the API echoes
// ranges in normalized form ("Sales_Log!A1:F1000").
func (s *SheetsSource) fill(out [][][]any, ranges []string, resp *sheets.BatchGetValuesResponse) {
	byTitle := make(map[string][][]any, len(resp.ValueRanges))
	for _, vr := range resp.ValueRanges {
		if vr == nil {
			continue
		}
		rows := make([][]any, len(vr.Values))
		for i, row := range vr.Values {
			rows[i] = append([]any(nil), row...)
		}
		byTitle[SheetName(vr.Range)] = rows
	}
	for i, rng := range ranges {
		rows, ok := byTitle[SheetName(rng)]
		if !ok {
			rows = [][]any{}
		}
		out[i] = clip(rows, Width(rng))
	}
}

func (s *SheetsSource) sheetTitles(ctx context.Context) (map[string]struct{}, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sheets: rate limit wait")
	}
	ss, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, eris.Wrap(err, "sheets: list sheets")
	}
	titles := make(map[string]struct{}, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh != nil && sh.Properties != nil {
			titles[sh.Properties.Title] = struct{}{}
		}
	}
	return titles, nil
}

// Append implements Source.
func (s *SheetsSource) Append(ctx context.Context, rng string, row []any) error {
	if len(row) == 0 {
		return ErrEmptyRow
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "sheets: rate limit wait")
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]any{row},
	}).
		ValueInputOption(s.valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return eris.Wrapf(err, "sheets: append to %s", rng)
	}
	return nil
}

func badRequest(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest
}
