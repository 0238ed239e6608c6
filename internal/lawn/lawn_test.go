package lawn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayKey(t *testing.T) {
	in := time.Date(2024, time.March, 10, 23, 59, 59, 123, time.FixedZone("KST", 9*3600))
	got := DayKey(in)
	assert.Equal(t, date(2024, time.March, 10), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestGridBounds2024(t *testing.T) {
	// Jan 1 2024 is a Monday, so the grid reaches back into 2023.
	gridStart, gridEnd := GridBounds(2024)
	assert.Equal(t, date(2023, time.December, 31), gridStart)
	assert.Equal(t, time.Sunday, gridStart.Weekday())
	assert.Equal(t, date(2025, time.January, 4), gridEnd)
	assert.Equal(t, time.Saturday, gridEnd.Weekday())
}

func TestGridBoundsYearStartingOnSunday(t *testing.T) {
	// Jan 1 2023 is itself a Sunday: no backward step.
	gridStart, gridEnd := GridBounds(2023)
	assert.Equal(t, date(2023, time.January, 1), gridStart)
	// Dec 31 2023 is a Sunday, so the grid runs to the next Saturday.
	assert.Equal(t, date(2024, time.January, 6), gridEnd)
}

func TestLevelThresholds(t *testing.T) {
	cases := map[int]int{
		0: 0,
		1: 1, 2: 1,
		3: 2, 4: 2,
		5: 3, 7: 3, 9: 3,
		10: 4, 15: 4, 100: 4,
	}
	for count, want := range cases {
		assert.Equal(t, want, Level(count), "count=%d", count)
	}
}

func TestBuildYearGrid2024(t *testing.T) {
	counts := map[time.Time]int{
		date(2023, time.December, 31): 2,  // overflow day in the first week
		date(2024, time.March, 10):    7,  // Sunday
		date(2024, time.December, 25): 12, // Wednesday
	}
	weeks, months := BuildYearGrid(counts, 2024)

	// Dec 31 2023 .. Jan 4 2025 inclusive: 371 days, 53 whole weeks.
	require.Len(t, weeks, 53)
	for i, w := range weeks {
		require.Len(t, w, 7, "week %d", i)
		assert.Equal(t, time.Sunday, w[0].Date.Weekday(), "week %d", i)
		assert.Equal(t, time.Saturday, w[6].Date.Weekday(), "week %d", i)
	}
	assert.Equal(t, date(2023, time.December, 31), weeks[0][0].Date)
	assert.Equal(t, date(2025, time.January, 4), weeks[52][6].Date)

	// Consecutive days across the whole walk.
	prev := weeks[0][0].Date
	for _, w := range weeks[1:] {
		assert.Equal(t, prev.AddDate(0, 0, 7), w[0].Date)
		prev = w[0].Date
	}

	assert.Equal(t, 2, weeks[0][0].Count)
	assert.Equal(t, 1, weeks[0][0].Level)
	assert.Equal(t, 7, weeks[10][0].Count) // Mar 10 2024 opens week 10
	assert.Equal(t, 3, weeks[10][0].Level)

	total := 0
	for _, m := range months {
		total += m.Weeks
	}
	assert.Equal(t, len(weeks), total, "month spans must cover every week")
}

func TestBuildYearGridMonthLabels(t *testing.T) {
	weeks, months := BuildYearGrid(nil, 2024)

	// The first week straddles the year boundary; its representative day
	// (index 3) is Wed Jan 3 2024, so the week is labeled Jan.
	assert.Equal(t, date(2024, time.January, 3), weeks[0][3].Date)
	require.NotEmpty(t, months)
	assert.Equal(t, "Jan", months[0].Label)
	assert.Equal(t, "Feb", months[1].Label)

	// Exactly the 12 month labels, in calendar order. The final week's
	// representative day is Jan 1 2025, which folds into the Jan span.
	require.Len(t, months, 12)
	assert.Equal(t, "Dec", months[11].Label)
	assert.Equal(t, 6, months[0].Weeks)
}

func TestBuildYearGridEmptyCounts(t *testing.T) {
	weeks, _ := BuildYearGrid(map[time.Time]int{}, 2025)
	for _, w := range weeks {
		for _, d := range w {
			assert.Zero(t, d.Count)
			assert.Zero(t, d.Level)
		}
	}
}

func TestBuildYearGridIgnoresNothing(t *testing.T) {
	// The builder trusts the caller's range: an out-of-grid date simply
	// never matches a walked day and changes nothing.
	counts := map[time.Time]int{date(2020, time.June, 1): 99}
	weeks, _ := BuildYearGrid(counts, 2024)
	for _, w := range weeks {
		for _, d := range w {
			assert.Zero(t, d.Count)
		}
	}
}
