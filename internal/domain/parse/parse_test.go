package parse_test

import (
	"math"
	"testing"
	"time"

	"github.com/okian/salesboard/internal/domain/parse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAmount(t *testing.T) {
	Convey("Given raw amount cells", t, func() {
		Convey("When the cell carries currency symbols and separators", func() {
			Convey("Then it should parse like the digits-only substring", func() {
				So(parse.Amount("$1,200.50"), ShouldEqual, 1200.50)
				So(parse.Amount("1 200.50 USD"), ShouldEqual, 1200.50)
				So(parse.Amount("€ 3.000"), ShouldEqual, 3.0)
				So(parse.Amount("  42 "), ShouldEqual, 42)
			})
		})

		Convey("When the cell is blank, nil or non-numeric", func() {
			Convey("Then it should be exactly 0", func() {
				So(parse.Amount(nil), ShouldEqual, 0)
				So(parse.Amount(""), ShouldEqual, 0)
				So(parse.Amount("   "), ShouldEqual, 0)
				So(parse.Amount("N/A"), ShouldEqual, 0)
				So(parse.Amount("."), ShouldEqual, 0)
				So(parse.Amount(true), ShouldEqual, 0)
			})
		})

		Convey("When the cell has a leading minus", func() {
			So(parse.Amount("-$50"), ShouldEqual, -50)
			So(parse.Amount("$-50"), ShouldEqual, 50)
		})

		Convey("When the cell has several decimal points", func() {
			So(parse.Amount("1.2.3"), ShouldEqual, 1.2)
		})

		Convey("When the cell is already numeric", func() {
			So(parse.Amount(12.5), ShouldEqual, 12.5)
			So(parse.Amount(7), ShouldEqual, 7)
			So(parse.Amount(math.NaN()), ShouldEqual, 0)
			So(parse.Amount(math.Inf(1)), ShouldEqual, 0)
		})
	})
}

func TestMoneyPointsFraction(t *testing.T) {
	Convey("Given monetary and point cells", t, func() {
		Convey("Then negatives should clamp to 0", func() {
			So(parse.Money("-10"), ShouldEqual, 0)
			So(parse.Points("-3"), ShouldEqual, 0)
		})

		Convey("Then points should round to integers", func() {
			So(parse.Points("1,250"), ShouldEqual, 1250)
			So(parse.Points("7.6"), ShouldEqual, 8)
			So(parse.Points(""), ShouldEqual, 0)
		})

		Convey("Then points too large for an int should be capped", func() {
			So(parse.Points(1e30), ShouldEqual, parse.MaxPoints)
			So(parse.Points(9.3e18), ShouldEqual, parse.MaxPoints)
			So(parse.Points("1000000000000000000000000"), ShouldEqual, parse.MaxPoints)
			So(parse.Points(float64(parse.MaxPoints)-1), ShouldEqual, parse.MaxPoints-1)
			So(parse.Money(1e30), ShouldEqual, 1e30)
		})

		Convey("Then rates should become fractions", func() {
			So(parse.Fraction("0.1"), ShouldEqual, 0.1)
			So(parse.Fraction("10%"), ShouldEqual, 0.1)
			So(parse.Fraction(15.0), ShouldEqual, 0.15)
			So(parse.Fraction("abc"), ShouldEqual, 0)
			So(parse.Fraction("250"), ShouldEqual, 1)
		})
	})
}

func TestText(t *testing.T) {
	Convey("Given text cells", t, func() {
		So(parse.Text(nil), ShouldEqual, "")
		So(parse.Text("  Amy "), ShouldEqual, "Amy")
		So(parse.Text(12.0), ShouldEqual, "12")
		So(parse.Text(3), ShouldEqual, "3")
	})
}

func TestDate(t *testing.T) {
	Convey("Given date cells", t, func() {
		loc := time.UTC

		Convey("When the cell is an ISO date", func() {
			d := parse.Date("2026-10-15", loc)
			So(d.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, loc)), ShouldBeTrue)
		})

		Convey("When the cell is a US formatted date time", func() {
			d := parse.Date("10/15/2026 14:03:22", loc)
			So(d.Equal(time.Date(2026, 10, 15, 14, 3, 22, 0, loc)), ShouldBeTrue)
		})

		Convey("When the cell is an Excel serial number", func() {
			d := parse.Date(45000.0, loc)
			So(d.Year(), ShouldEqual, 2023)
			So(d.Month(), ShouldEqual, time.March)
			So(d.Day(), ShouldEqual, 15)

			So(parse.Date("45000", loc).Equal(d), ShouldBeTrue)
		})

		Convey("When the cell does not parse", func() {
			Convey("Then the date should be invalid (zero)", func() {
				So(parse.Date(nil, loc).IsZero(), ShouldBeTrue)
				So(parse.Date("", loc).IsZero(), ShouldBeTrue)
				So(parse.Date("not a date", loc).IsZero(), ShouldBeTrue)
				So(parse.Date(-4.0, loc).IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the cell is already a time", func() {
			now := time.Date(2026, 1, 2, 3, 4, 5, 0, loc)
			So(parse.Date(now, loc).Equal(now), ShouldBeTrue)
			So(parse.Date(time.Time{}, loc).IsZero(), ShouldBeTrue)
		})

		Convey("When the time is in another zone", func() {
			ny := time.FixedZone("EDT", -4*60*60)
			late := time.Date(2026, 10, 31, 22, 0, 0, 0, ny)
			d := parse.Date(late, loc)

			Convey("Then it should be converted to the configured zone", func() {
				So(d.Location(), ShouldEqual, loc)
				So(d.Equal(late), ShouldBeTrue)
				So(d.Month(), ShouldEqual, time.November)
				So(d.Day(), ShouldEqual, 1)
			})
		})
	})
}
