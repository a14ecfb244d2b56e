package util

import (
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout renders dates as DD.MM.YYYY. (note the trailing dot).
const DateLayout = "02.01.2006."

var dateLayouts = []string{
	DateLayout,
	"02.01.2006",
	"2.1.2006.",
	"2.1.2006",
	"02. 01. 2006.",
	"2006-01-02",
	"02/01/2006",
	// excelize renders the built-in short date format this way.
	"01-02-06",
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate canonicalizes a date cell. Recognised layouts and five-digit
// Excel serial numbers are reformatted with DateLayout; any other non-empty
// value is returned normalized but otherwise verbatim.
func NormalizeDate(raw string) string {
	value := Normalize(raw)
	if value == "" {
		return ""
	}
	if t, ok := ParseDate(value); ok {
		return FormatDate(t)
	}
	return value
}

func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	if len(value) == 5 && IsDigits(value) {
		serial, err := strconv.Atoi(value)
		if err != nil {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(float64(serial), false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
