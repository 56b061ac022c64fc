package deck_stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForecast(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		due      int
		expected []int
	}{
		{name: "ten due", due: 10, expected: []int{10, 6, 4, 3, 2, 1, 0}},
		{name: "nothing due", due: 0, expected: []int{0, 0, 0, 0, 0, 0, 0}},
		{name: "one due", due: 1, expected: []int{1, 0, 0, 0, 0, 0, 0}},
		// 0.7-0.2 evaluates slightly below 0.5 in float64
		{name: "hundred due", due: 100, expected: []int{100, 60, 49, 39, 29, 19, 9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			days := forecast(tc.due, now)
			counts := make([]int, len(days))
			for i, d := range days {
				counts[i] = d.Count
			}
			assert.Equal(t, tc.expected, counts)
		})
	}
}

func TestForecastDates(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 21:00 at UTC-5 is already the next day in UTC
	now := time.Date(2026, time.December, 28, 21, 0, 0, 0, loc)

	days := forecast(3, now)

	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.Date
	}
	assert.Equal(t, []string{
		"2026-12-29", "2026-12-30", "2026-12-31",
		"2027-01-01", "2027-01-02", "2027-01-03", "2027-01-04",
	}, dates)
}
