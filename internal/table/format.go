package table

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Missing is rendered in place of an absent value.
const Missing = "—"

// Decimal places per column.
const (
	SizeDecimals     = 4
	DistanceDecimals = 0
	SpeedDecimals    = 0
)

// Formatter renders numbers with locale digit grouping.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewFormatter parses a BCP 47 locale such as "en-US" or "de-DE".
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	return &Formatter{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// DefaultFormatter formats for American English.
func DefaultFormatter() *Formatter {
	return &Formatter{tag: language.AmericanEnglish, printer: message.NewPrinter(language.AmericanEnglish)}
}

// Locale returns the formatter's language tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Format renders v with exactly decimals fraction digits, or Missing when v
// is nil or NaN. Halves round away from zero.
func (f *Formatter) Format(v *float64, decimals int) string {
	if v == nil || math.IsNaN(*v) {
		return Missing
	}
	return f.printer.Sprint(number.Decimal(roundHalfAway(*v, decimals),
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// roundHalfAway pre-rounds v so the formatter's half-to-even rule never
// sees an exact tie.
func roundHalfAway(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) {
		return v
	}
	return r
}
