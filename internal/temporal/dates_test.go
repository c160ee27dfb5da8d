package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay(" 2024-02-29 ")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDay("2023-02-29")
	assert.Error(t, err)

	_, err = ParseDay("yesterday")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2024, 6, 1, 23, 59, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Truncate(ts))
	assert.True(t, Truncate(time.Time{}).IsZero())
}

func TestDaysBetween(t *testing.T) {
	a := mustDay(t, "2024-01-01")
	b := mustDay(t, "2024-03-01")
	assert.Equal(t, 60, DaysBetween(a, b))
	assert.Equal(t, -60, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a.Add(5*time.Hour)))
}

func TestShiftMonths(t *testing.T) {
	tests := []struct {
		from string
		k    int
		want string
	}{
		{"2024-05-15", 0, "2024-05-15"},
		{"2024-05-15", 1, "2024-04-15"},
		{"2024-03-31", 1, "2024-02-29"},
		{"2023-03-31", 1, "2023-02-28"},
		{"2024-01-31", 2, "2023-11-30"},
		{"2024-05-15", 24, "2022-05-15"},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			got := ShiftMonths(mustDay(t, tt.from), tt.k)
			assert.Equal(t, tt.want, FormatDay(got))
		})
	}
}

func TestWeekMonday(t *testing.T) {
	assert.Equal(t, "2024-05-13", FormatDay(WeekMonday(mustDay(t, "2024-05-19"))))
	assert.Equal(t, "2024-05-20", FormatDay(WeekMonday(mustDay(t, "2024-05-20"))))
}
