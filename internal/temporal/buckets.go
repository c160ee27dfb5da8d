package temporal

import (
	"fmt"
	"strings"
	"time"
)

// Granularity selects the size of a time bucket
type Granularity int

const (
	Week Granularity = iota
	Month
	Year
)

func (g Granularity) String() string {
	switch g {
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// ParseGranularity accepts "week", "month" or "year" (case-insensitive)
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "weeks", "w":
		return Week, nil
	case "month", "months", "m":
		return Month, nil
	case "year", "years", "y":
		return Year, nil
	}
	return Week, fmt.Errorf("unknown granularity %q (expected week, month or year)", s)
}

// BucketKey maps a date to its bucket key:
//   - Year:  YYYY
//   - Month: YYYY-MM
//   - Week:  YYYY-MM-DD of the Monday of the ISO week
func BucketKey(t time.Time, g Granularity) string {
	t = Truncate(t)
	switch g {
	case Year:
		return t.Format("2006")
	case Month:
		return t.Format("2006-01")
	default:
		return FormatDay(WeekMonday(t))
	}
}

// PastBuckets enumerates count bucket keys ending at the bucket that
// contains ref, oldest first. Buckets are listed whether or not anything
// happened in them, so charts built from the result have a fixed width.
func PastBuckets(count int, g Granularity, ref time.Time) []string {
	if count <= 0 {
		return []string{}
	}

	ref = Truncate(ref)
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		back := count - 1 - i
		var t time.Time
		switch g {
		case Year:
			t = time.Date(ref.Year()-back, 1, 1, 0, 0, 0, 0, time.UTC)
		case Month:
			t = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -back, 0)
		default:
			t = WeekMonday(ref).AddDate(0, 0, -7*back)
		}
		keys[i] = BucketKey(t, g)
	}
	return keys
}

// BucketIndex maps each key returned by PastBuckets to its position
func BucketIndex(keys []string) map[string]int {
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return index
}
