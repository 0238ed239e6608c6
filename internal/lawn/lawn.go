// Package lawn computes the yearly completion-activity grid ("lawn"),
// a GitHub-style calendar heatmap: Sunday-to-Saturday weeks covering one
// calendar year, each day bucketed into an intensity level 0..4.
package lawn

import "time"

// Day is one cell of the grid.
type Day struct {
	Date  time.Time
	Count int
	Level int
}

// Week is an ordered run of days, Sunday first. Every week produced by
// BuildYearGrid has exactly 7 days.
type Week []Day

// MonthSpan says how many consecutive grid weeks belong to a month label.
// Spans are ordered as the labels first appear, so they can be rendered
// directly above the grid columns.
type MonthSpan struct {
	Label string `json:"label"`
	Weeks int    `json:"weeks"`
}

// DayKey normalizes t to UTC midnight, the canonical map key for
// per-day completion counts.
func DayKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GridBounds returns the first and last day of the grid for a year:
// the Sunday on or before Jan 1 and the Saturday on or after Dec 31.
// Callers querying completion counts must use these bounds, not the bare
// year bounds, or the overflow days of the first and last weeks would
// always render empty.
func GridBounds(year int) (gridStart, gridEnd time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	gridStart = start.AddDate(0, 0, -int(start.Weekday()))
	gridEnd = end.AddDate(0, 0, int(time.Saturday-end.Weekday()))
	return gridStart, gridEnd
}

// Level buckets a day's completion count into an intensity tier:
// 0, 1-2, 3-4, 5-9, 10+.
func Level(count int) int {
	switch {
	case count >= 10:
		return 4
	case count >= 5:
		return 3
	case count >= 3:
		return 2
	case count >= 1:
		return 1
	default:
		return 0
	}
}

// BuildYearGrid walks every day of the year's grid and produces the weeks
// plus the month-label spans. counts maps DayKey-normalized dates to the
// number of todos completed that day; absent days count as zero. The
// builder does not filter counts by range, it trusts the caller's query.
func BuildYearGrid(counts map[time.Time]int, year int) ([]Week, []MonthSpan) {
	gridStart, gridEnd := GridBounds(year)

	var weeks []Week
	week := make(Week, 0, 7)
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		count := counts[d]
		week = append(week, Day{Date: d, Count: count, Level: Level(count)})
		if d.Weekday() == time.Saturday {
			weeks = append(weeks, week)
			week = make(Week, 0, 7)
		}
	}
	// gridEnd is always a Saturday, so the buffer is empty here. Flush
	// anyway so a short final week is never dropped.
	if len(week) > 0 {
		weeks = append(weeks, week)
	}

	return weeks, monthSpans(weeks)
}

// monthSpans labels each week with the month of its representative day
// (the 4th day, or the first for a short week) and counts consecutive
// first-seen labels.
func monthSpans(weeks []Week) []MonthSpan {
	var spans []MonthSpan
	index := make(map[string]int)
	for _, w := range weeks {
		rep := w[0]
		if len(w) > 3 {
			rep = w[3]
		}
		label := rep.Date.Month().String()[:3]
		if i, ok := index[label]; ok {
			spans[i].Weeks++
			continue
		}
		index[label] = len(spans)
		spans = append(spans, MonthSpan{Label: label, Weeks: 1})
	}
	return spans
}
