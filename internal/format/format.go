// Package format renders numbers for templates: CSS values that must stay
// locale-neutral and visible labels that follow the visitor's language.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Counter renders a 0-based position as "i+1 / n". It returns "" when n is 0.
func Counter(i, n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(i+1) + " / " + strconv.Itoa(n)
}

// CSSPercent renders a [0,1] fraction as a CSS percentage, e.g. "42.50%".
func CSSPercent(frac float64) string {
	if math.IsNaN(frac) {
		frac = 0
	}
	frac = math.Max(0, math.Min(1, frac))
	return strconv.FormatFloat(frac*100, 'f', 2, 64) + "%"
}

// Pixels renders v as a CSS pixel length with two decimals.
func Pixels(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "px"
}

// Percent renders a [0,1] fraction as a whole-number percentage using the
// number conventions of lang, e.g. "42%".
func Percent(frac float64, lang string) string {
	if math.IsNaN(frac) {
		frac = 0
	}
	frac = math.Max(0, math.Min(1, frac))
	return printer(lang).Sprintf("%d%%", int(math.Round(frac*100)))
}

// Number renders n with the digit grouping of lang, e.g. "2.000" in id.
func Number(n int, lang string) string {
	return printer(lang).Sprintf("%d", n)
}

func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Indonesian
	}
	return message.NewPrinter(tag)
}
