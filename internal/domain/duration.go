package domain

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ValidatePeriod checks that start and the optional end are valid dates and
// that end does not precede start.
func ValidatePeriod(start string, end *string) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	if end == nil || *end == "" {
		return nil
	}
	e, err := ParseDate(*end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return ErrDateOrder
	}
	return nil
}

// MonthsBetween returns the number of whole months from start to end, or 0
// when end precedes start.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return max(months, 0)
}

// FormatDuration renders the span between start and end as years and months,
// e.g. "2 yrs 3 mos", "1 yr", "5 mos". Spans under a month read "Less than a month".
func FormatDuration(start, end time.Time) string {
	months := MonthsBetween(start, end)
	years, months := months/12, months%12

	var parts []string
	switch {
	case years == 1:
		parts = append(parts, "1 yr")
	case years > 1:
		parts = append(parts, fmt.Sprintf("%d yrs", years))
	}
	switch {
	case months == 1:
		parts = append(parts, "1 mo")
	case months > 1:
		parts = append(parts, fmt.Sprintf("%d mos", months))
	}
	if len(parts) == 0 {
		return "Less than a month"
	}
	return strings.Join(parts, " ")
}
