package core

// convert.go provides best-effort coercion of raw CSV cells into typed
// field values.
//
// Raw exports are messy: mixed date formats, currency symbols and thousand
// separators in numbers, Excel formula prefixes (="value"), stray quotes.
// All Parse* functions return nil (null) for empty or unparsable input
// instead of failing, so a bad cell degrades a single field rather than
// losing the row.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericPattern validates a numeric string after cleanup: integers,
// decimals, and scientific notation.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// twoDigitYearPivot controls how 2-digit years are read: parsed dates more
// than this many years in the future are shifted back a century.
var twoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// ParseDate coerces a string to a Date. Supports several layouts and
// handles 2-digit years with a pivot. Returns nil when unparsable.
func ParseDate(s string) *Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// 4-digit year layouts first, they are unambiguous
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t)
		}
	}

	pivot := time.Now().Year() + twoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivot {
				t = t.AddDate(-100, 0, 0)
			}
			return NewDate(t)
		}
	}

	return nil
}

// ParseNumeric coerces a string to a float. Handles currency symbols,
// thousands separators, and accounting negatives "(123.45)". Returns nil
// when unparsable.
func ParseNumeric(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // euro
	s = strings.ReplaceAll(s, "£", "") // pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}

	if !numericPattern.MatchString(s) {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseID coerces a string to an integer identifier. Accepts values that
// arrive as floats ("42.0") since spreadsheet exports often render ints
// that way. Reports false when missing or unparsable.
func ParseID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f := ParseNumeric(s)
	if f == nil || *f != float64(int64(*f)) {
		return 0, false
	}
	return int64(*f), true
}

// NormalizeHeader canonicalizes a CSV header cell for case- and
// whitespace-insensitive matching.
func NormalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CleanCell removes common CSV artifacts from a cell value:
// whitespace, Excel formula prefixes (="..."), surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}
