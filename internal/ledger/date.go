package ledger

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar date format used as the ledger key.
const DateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD date. The result is midnight UTC so
// that day arithmetic never crosses a DST boundary.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidArgument, s)
	}
	// time.Parse accepts some non-canonical inputs; require a round trip.
	if t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidArgument, s)
	}
	return t, nil
}

// FormatDate returns the calendar date of t in t's own location, so a
// time.Now() value yields the user's local date rather than the UTC one.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a canonical date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// ValidDate reports whether s is a canonical YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

func mustAddDays(date string, n int) string {
	t, _ := time.Parse(DateLayout, date)
	return t.AddDate(0, 0, n).Format(DateLayout)
}
