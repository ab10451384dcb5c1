package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/salesboard/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tealeg/xlsx/v2"
	"google.golang.org/api/option"
)

var agentsHeader = []any{"Name", "Email", "Role", "Team", "Monthly Quota", "Points"}

func TestRangeHelpers(t *testing.T) {
	Convey("Given A1 ranges", t, func() {
		So(repository.SheetName("Sales_Log!A1:F"), ShouldEqual, "Sales_Log")
		So(repository.SheetName("'Team ''A'' Log'!A:E"), ShouldEqual, "Team 'A' Log")
		So(repository.SheetName("Sales_Log"), ShouldEqual, "Sales_Log")
		So(repository.Width("Sales_Log!A1:F"), ShouldEqual, 6)
		So(repository.Width("HR_Announcements!A:E"), ShouldEqual, 5)
		So(repository.Width("Sales_Log!AA1:AB9"), ShouldEqual, 2)
		So(repository.Width("Sales_Log"), ShouldEqual, 0)
	})
}

func TestMemorySource(t *testing.T) {
	Convey("Given a memory source with the roster", t, func() {
		ctx := context.Background()
		src := repository.NewMemorySource(repository.WithSheet("Sales_Agents", [][]any{
			agentsHeader,
			{"Amy", "amy@x.com", "Agent", "East", "1000", "50", "extra"},
		}))

		Convey("When a batch includes a missing sheet", func() {
			out, err := src.BatchGet(ctx, []string{"Sales_Agents!A1:F", "Sales_Log!A1:F"})

			Convey("Then the missing sheet should be empty and rows clipped to the span", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 2)
				So(out[0], ShouldHaveLength, 2)
				So(out[0][1], ShouldHaveLength, 6)
				So(out[1], ShouldBeEmpty)
			})
		})

		Convey("When a row is appended", func() {
			err := src.Append(ctx, "HR_Announcements!A:E", []any{"ts", "hal@x.com", "t", "m", "All"})

			Convey("Then it should be readable", func() {
				So(err, ShouldBeNil)
				So(src.Rows("HR_Announcements"), ShouldHaveLength, 1)
			})
		})

		Convey("When an empty row is appended", func() {
			So(errors.Is(src.Append(ctx, "X!A:B", nil), repository.ErrEmptyRow), ShouldBeTrue)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := src.BatchGet(cctx, []string{"Sales_Agents!A1:F"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCSVSource(t *testing.T) {
	Convey("Given a directory with a roster CSV", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		content := "Name,Email,Role,Team,Monthly Quota,Points\nAmy,amy@x.com,Agent,East,\"1,000\",50\n"
		So(os.WriteFile(filepath.Join(dir, "Sales_Agents.csv"), []byte(content), 0o644), ShouldBeNil)

		src, err := repository.NewCSVSource(dir)
		So(err, ShouldBeNil)

		Convey("When the roster and a missing sheet are read", func() {
			out, err := src.BatchGet(ctx, []string{"Sales_Agents!A1:F", "Sales_Pipeline!A1:F"})

			Convey("Then quoted cells should survive and the missing sheet be empty", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldHaveLength, 2)
				So(out[0][1][4], ShouldEqual, "1,000")
				So(out[1], ShouldBeEmpty)
			})
		})

		Convey("When an announcement is appended twice", func() {
			ts := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
			So(src.Append(ctx, "HR_Announcements!A:E", []any{ts, "hal@x.com", "Hi", "Body, with comma", "All"}), ShouldBeNil)
			So(src.Append(ctx, "HR_Announcements!A:E", []any{ts, "hal@x.com", "Again", "Body", "East"}), ShouldBeNil)

			Convey("Then both rows should be read back intact", func() {
				out, err := src.BatchGet(ctx, []string{"HR_Announcements!A:E"})
				So(err, ShouldBeNil)
				So(out[0], ShouldHaveLength, 2)
				So(out[0][0][0], ShouldEqual, "2026-10-14T09:00:00Z")
				So(out[0][0][3], ShouldEqual, "Body, with comma")
			})
		})

		Convey("When no directory is given", func() {
			_, err := repository.NewCSVSource("")
			So(errors.Is(err, repository.ErrMissingPath), ShouldBeTrue)
		})
	})
}

func TestWorkbookSource(t *testing.T) {
	Convey("Given a workbook with a roster sheet", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "board.xlsx")
		f := xlsx.NewFile()
		sheet, err := f.AddSheet("Sales_Agents")
		So(err, ShouldBeNil)
		repository.AppendCells(sheet.AddRow(), agentsHeader)
		repository.AppendCells(sheet.AddRow(), []any{"Amy", "amy@x.com", "Agent", "East", 1000, 50})
		So(f.Save(path), ShouldBeNil)

		src, err := repository.NewWorkbookSource(path)
		So(err, ShouldBeNil)

		Convey("When ranges are read", func() {
			out, err := src.BatchGet(ctx, []string{"Sales_Agents!A1:F", "Sales_Log!A1:F"})

			Convey("Then cells should come back as stored values", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldHaveLength, 2)
				So(out[0][1][0], ShouldEqual, "Amy")
				So(out[0][1][4], ShouldEqual, "1000")
				So(out[1], ShouldBeEmpty)
			})
		})

		Convey("When a row is appended to a new sheet", func() {
			So(src.Append(ctx, "HR_Announcements!A:E", []any{"2026-10-14T09:00:00Z", "hal@x.com", "Hi", "Body", "All"}), ShouldBeNil)

			Convey("Then the sheet should be created", func() {
				out, err := src.BatchGet(ctx, []string{"HR_Announcements!A:E"})
				So(err, ShouldBeNil)
				So(out[0], ShouldHaveLength, 1)
				So(out[0][0][2], ShouldEqual, "Hi")
			})
		})
	})
}

// fakeSheets mimics the two Sheets endpoints the source uses.
type fakeSheets struct {
	mu       sync.Mutex
	sheets   map[string][][]any
	appended [][]any
	batches  int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "values:batchGet"):
		f.batches++
		type valueRange struct {
			Range  string  `json:"range"`
			Values [][]any `json:"values,omitempty"`
		}
		var out []valueRange
		for _, rng := range r.URL.Query()["ranges"] {
			rows, ok := f.sheets[repository.SheetName(rng)]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"error":{"code":400,"message":"Unable to parse range: `+rng+`"}}`)
				return
			}
			out = append(out, valueRange{Range: repository.SheetName(rng) + "!A1:F1000", Values: rows})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1", "valueRanges": out})
	case strings.Contains(r.URL.Path, ":append"):
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.appended = append(f.appended, body.Values...)
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})
	default:
		var sheets []map[string]any
		for name := range f.sheets {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": name}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1", "sheets": sheets})
	}
}

func TestSheetsSource(t *testing.T) {
	Convey("Given a Sheets API with only the roster sheet", t, func() {
		ctx := context.Background()
		fake := &fakeSheets{sheets: map[string][][]any{
			"Sales_Agents": {agentsHeader, {"Amy", "amy@x.com", "Agent", "East", "1000", "50"}},
		}}
		srv := httptest.NewServer(fake)
		defer srv.Close()

		src, err := repository.NewSheetsSource(ctx, "sheet-1",
			repository.WithClientOptions(option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication()),
			repository.WithRatePerMinute(0),
		)
		So(err, ShouldBeNil)
		So(src.Name(), ShouldEqual, "sheets")

		Convey("When the batch includes a sheet that does not exist", func() {
			out, err := src.BatchGet(ctx, []string{"Sales_Agents!A1:F", "Sales_Log!A1:F"})

			Convey("Then the batch should be retried with the existing sheets only", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldHaveLength, 2)
				So(out[0][1][1], ShouldEqual, "amy@x.com")
				So(out[1], ShouldBeEmpty)
				So(fake.batches, ShouldEqual, 2)
			})
		})

		Convey("When a row is appended", func() {
			err := src.Append(ctx, "HR_Announcements!A:E", []any{"ts", "hal@x.com", "Hi", "Body", "All"})

			Convey("Then the API should receive it", func() {
				So(err, ShouldBeNil)
				So(fake.appended, ShouldHaveLength, 1)
				So(fake.appended[0][2], ShouldEqual, "Hi")
			})
		})
	})

	Convey("Given no spreadsheet id or credentials", t, func() {
		_, err := repository.NewSheetsSource(context.Background(), "")
		So(errors.Is(err, repository.ErrMissingSpreadsheetID), ShouldBeTrue)

		_, err = repository.NewSheetsSource(context.Background(), "sheet-1")
		So(errors.Is(err, repository.ErrMissingCredentials), ShouldBeTrue)
	})
}

func TestInstrumented(t *testing.T) {
	Convey("Given an instrumented memory source", t, func() {
		src := repository.Instrument(repository.NewMemorySource(repository.WithSheet("Sales_Agents", [][]any{agentsHeader})))

		Convey("Then it should delegate reads and writes", func() {
			So(src.Name(), ShouldEqual, "memory")
			out, err := src.BatchGet(context.Background(), []string{"Sales_Agents!A1:F"})
			So(err, ShouldBeNil)
			So(out[0], ShouldHaveLength, 1)
			So(src.Append(context.Background(), "Sales_Agents!A1:F", []any{"Bob"}), ShouldBeNil)
		})
	})
}
