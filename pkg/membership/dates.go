// Package membership holds the rules that decide whether a member may enter,
// how renewals and cancellations move a member between states, and the
// calendar arithmetic behind both.
//
// Every function takes "today" as an argument. Calendar days are represented
// as midnight UTC values so that comparisons never depend on time of day or
// on the location of the caller's clock.
package membership

import (
	"errors"
	"fmt"
	"time"

	"github.com/tendant/gymdesk/pkg/domain"
)

// ErrInvalidDate is returned when a stored date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Today returns the calendar day of now, in now's location, as midnight UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats a calendar day as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// AddDays adds n calendar days, rolling over month and year boundaries.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Today(b).Sub(Today(a)).Hours() / 24)
}
