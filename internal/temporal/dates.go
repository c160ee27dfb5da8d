package temporal

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar-day format used for commit dates and bucket keys
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// ParseDay parses an ISO YYYY-MM-DD string into a UTC midnight time
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar day %q: %w", s, err)
	}
	return t, nil
}

// Truncate drops the time-of-day component, keeping the calendar date as
// seen in t's own location.
func Truncate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a day as YYYY-MM-DD
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of calendar days from "from" to "to".
// The result is negative when "to" is before "from".
func DaysBetween(from, to time.Time) int {
	return int(Truncate(to).Sub(Truncate(from)) / day)
}

// AddDays shifts a calendar day by n days
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// ShiftMonths moves a calendar day k months into the past. The day of month
// is clamped to the length of the target month, so 2024-03-31 shifted by one
// month is 2024-02-29.
func ShiftMonths(t time.Time, k int) time.Time {
	t = Truncate(t)
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -k, 0)
	if last := daysIn(first); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// WeekMonday returns the Monday of the ISO week containing t
func WeekMonday(t time.Time) time.Time {
	t = Truncate(t)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
