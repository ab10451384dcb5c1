package view

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// USD renders v as whole US dollars with thousands separators, e.g. $1,201.
func USD(v float64) Money {
	n := int64(math.Round(v))
	if n < 0 {
		return Money{Value: v, Display: usd.Sprintf("-$%d", -n)}
	}
	return Money{Value: v, Display: usd.Sprintf("$%d", n)}
}
