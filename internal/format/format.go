// Package format renders money and dates the way the vi-VN pages show them.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "₫"

var printer = message.NewPrinter(language.Vietnamese)

// Currency formats an amount in VND: grouped with dots, no fraction digits,
// symbol after a space ("1.200.000 ₫").
func Currency(amount float64) string {
	if math.IsNaN(amount) {
		return "NaN " + currencySymbol
	}
	if math.IsInf(amount, 0) {
		s := "∞"
		if amount < 0 {
			s = "-∞"
		}
		return s + " " + currencySymbol
	}
	r := math.Round(amount)
	if math.Abs(r) >= math.MaxInt64 {
		return groupDigits(strconv.FormatFloat(r, 'f', 0, 64)) + " " + currencySymbol
	}
	return printer.Sprintf("%d", int64(r)) + " " + currencySymbol
}

// groupDigits inserts the vi-VN thousands separator into an integer string.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return sign + b.String()
}

// Date renders a timestamp as a vi-VN short date (d/m/yyyy).
func Date(t time.Time) string {
	return t.Format("2/1/2006")
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the ISO shapes the server emits.
func ParseDate(s string) (time.Time, bool) {
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateString parses then formats; unparseable input yields "Invalid Date".
func DateString(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return "Invalid Date"
	}
	return Date(t)
}
