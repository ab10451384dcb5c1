// Package parse coerces loosely typed spreadsheet cells into numbers, dates
// and trimmed strings. None of the functions fail: malformed input becomes a
// neutral value (0, the zero time, "").
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/tealeg/xlsx/v2"
)

// Excel serial day numbers accepted as dates (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// Amount parses a currency-ish cell. Every character that is not a digit or
// '.' is dropped, except a leading '-'. Blank, nil and unparseable cells are 0.
// A malformed value is indistinguishable from a true zero.
func Amount(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case bool:
		return 0
	case string:
		return amountFromString(v)
	default:
		return amountFromString(fmt.Sprint(v))
	}
}

func amountFromString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var b strings.Builder
	b.Grow(len(s))
	if s[0] == '-' {
		b.WriteByte('-')
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}
	cleaned := b.String()
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return finite(f)
	}
	// "1.2.3" keeps its longest numeric prefix.
	if first := strings.IndexByte(cleaned, '.'); first >= 0 {
		if second := strings.IndexByte(cleaned[first+1:], '.'); second >= 0 {
			if f, err := strconv.ParseFloat(cleaned[:first+1+second], 64); err == nil {
				return finite(f)
			}
		}
	}
	return 0
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NonNegative clamps negative amounts to 0.
func NonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// Money parses a monetary cell into a finite, non-negative number.
func Money(raw any) float64 { return NonNegative(Amount(raw)) }

// MaxPoints caps a points cell so the value fits an int on every platform.
const MaxPoints = math.MaxInt32

// Points parses a points cell into a non-negative integer no larger than
// MaxPoints.
func Points(raw any) int {
	f := math.Round(Money(raw))
	if f >= MaxPoints {
		return MaxPoints
	}
	return int(f)
}

// Fraction parses a rate cell into [0,1]. Values written as percentages
// ("10%", or any value above 1) are divided by 100.
func Fraction(raw any) float64 {
	f := Money(raw)
	if s, ok := raw.(string); ok && strings.Contains(s, "%") {
		f /= 100
	} else if f > 1 {
		f /= 100
	}
	if f > 1 {
		return 1
	}
	return f
}

// Text returns a trimmed string for any cell; nil becomes "".
func Text(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Date parses a date cell in loc. The zero time marks an invalid date; callers
// must drop it from chronological filters and sorts instead of comparing it.
// Numbers (and numeric strings) are read as Excel serial day numbers.
func Date(raw any, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch v := raw.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		if v.IsZero() {
			return v
		}
		return v.In(loc)
	case float64:
		return fromSerial(v, loc)
	case int:
		return fromSerial(float64(v), loc)
	case int64:
		return fromSerial(float64(v), loc)
	}
	s := Text(raw)
	if s == "" {
		return time.Time{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f, loc)
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fromSerial(f float64, loc *time.Location) time.Time {
	if math.IsNaN(f) || f < minExcelSerial || f > maxExcelSerial {
		return time.Time{}
	}
	u := xlsx.TimeFromExcelTime(f, false)
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), 0, loc)
}
