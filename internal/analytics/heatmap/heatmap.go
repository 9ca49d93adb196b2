// Package heatmap lays out daily activity counts as a calendar heatmap grid:
// one column per week, one row per weekday.
package heatmap

import (
	"math"
	"time"
)

// Levels is the number of rendering buckets: level 0 for empty days plus
// quartiles of the nonzero range.
const Levels = 5

// DayCount is one day's activity total
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Cell is a single day positioned in the grid. Intensity is the count
// normalized against the busiest day; Level is the rendering bucket in
// [0, Levels).
type Cell struct {
	Date      string  `json:"date"`
	Count     int     `json:"count"`
	Intensity float64 `json:"intensity"`
	Level     int     `json:"level"`
}

// Week is one grid column: seven cells, Monday through Sunday
type Week struct {
	Start string  `json:"start"`
	Days  [7]Cell `json:"days"`
}

// Grid is the full heatmap layout
type Grid struct {
	Weeks      []Week `json:"weeks"`
	MaxCount   int    `json:"max_count"`
	TotalCount int    `json:"total_count"`
}

// Layout buckets daily counts into week columns. The grid spans whole weeks
// from the Monday at or before the earliest date through the Sunday at or
// after the latest; days without an input entry are zero-filled. Duplicate
// dates accumulate. Empty input yields an empty grid.
func Layout(days []DayCount) Grid {
	counts := make(map[time.Time]int, len(days))
	var first, last time.Time

	for _, d := range days {
		day := truncateToDay(d.Date)
		counts[day] += d.Count
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	if len(counts) == 0 {
		return Grid{}
	}

	grid := Grid{MaxCount: 0, TotalCount: 0}
	for _, c := range counts {
		if c > grid.MaxCount {
			grid.MaxCount = c
		}
		grid.TotalCount += c
	}

	for start := weekStart(first); !start.After(last); start = start.AddDate(0, 0, 7) {
		week := Week{Start: start.Format(time.DateOnly)}
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			count := counts[day]
			week.Days[i] = Cell{
				Date:      day.Format(time.DateOnly),
				Count:     count,
				Intensity: intensity(count, grid.MaxCount),
				Level:     level(count, grid.MaxCount),
			}
		}
		grid.Weeks = append(grid.Weeks, week)
	}

	return grid
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday at or before t
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func intensity(count, max int) float64 {
	if max == 0 || count <= 0 {
		return 0
	}
	return float64(count) / float64(max)
}

// level maps a count to its rendering bucket: 0 for empty days, then
// quartiles of (0, max] for levels 1 through 4.
func level(count, max int) int {
	if count <= 0 || max == 0 {
		return 0
	}

	l := int(math.Ceil(intensity(count, max) * float64(Levels-1)))
	if l < 1 {
		l = 1
	}
	if l > Levels-1 {
		l = Levels - 1
	}
	return l
}
