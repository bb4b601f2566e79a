// Package dateutils provides the date handling of bank statement exports.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayoutISO is the calendar representation statement dates are
	// rewritten to before parsing.
	DateLayoutISO = "2006-01-02"
	// DateLayoutStatement is the day-first dotted layout of statement exports.
	DateLayoutStatement = "02.01.2006"
)

// ParseStatementDate parses a day-first dotted date ("DD.MM.YYYY").
//
// The text is split on "." into exactly three parts, reordered to
// "YYYY-MM-DD" and parsed as an ISO calendar date in UTC. Parts are not
// padded or trimmed, so "1.2.2024" and " 10.01.2024" are rejected.
func ParseStatementDate(s string) (time.Time, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q is not in DD.MM.YYYY form", s)
	}
	iso := parts[2] + "-" + parts[1] + "-" + parts[0]
	t, err := time.ParseInLocation(DateLayoutISO, iso, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return t, nil
}

// FormatStatementDate formats t in the statement layout, in UTC.
func FormatStatementDate(t time.Time) string {
	return t.UTC().Format(DateLayoutStatement)
}

// ToISODate formats t as YYYY-MM-DD in UTC.
func ToISODate(t time.Time) string {
	return t.UTC().Format(DateLayoutISO)
}

// YearMonth returns the UTC calendar year and month (1..12) of t.
func YearMonth(t time.Time) (int, int) {
	u := t.UTC()
	return u.Year(), int(u.Month())
}

// CompareDates compares the UTC calendar days of two instants:
// -1 if a is earlier, 0 if they are the same day, 1 if a is later.
func CompareDates(a, b time.Time) int {
	da := time.Date(a.UTC().Year(), a.UTC().Month(), a.UTC().Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.UTC().Year(), b.UTC().Month(), b.UTC().Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}
