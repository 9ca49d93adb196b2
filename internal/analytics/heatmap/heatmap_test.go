package heatmap

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d, count int) DayCount {
	return DayCount{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Count: count}
}

func TestLayout_Empty(t *testing.T) {
	grid := Layout(nil)
	if len(grid.Weeks) != 0 || grid.MaxCount != 0 || grid.TotalCount != 0 {
		t.Errorf("expected empty grid, got %+v", grid)
	}
}

func TestLayout_SingleDay(t *testing.T) {
	// 2026-08-05 is a Wednesday
	grid := Layout([]DayCount{day(2026, 8, 5, 7)})

	if len(grid.Weeks) != 1 {
		t.Fatalf("expected 1 week, got %d", len(grid.Weeks))
	}
	if grid.Weeks[0].Start != "2026-08-03" {
		t.Errorf("week start = %q, want the preceding Monday 2026-08-03", grid.Weeks[0].Start)
	}

	wed := grid.Weeks[0].Days[2]
	if wed.Date != "2026-08-05" || wed.Count != 7 {
		t.Errorf("unexpected Wednesday cell: %+v", wed)
	}
	if wed.Intensity != 1 || wed.Level != Levels-1 {
		t.Errorf("busiest day should have intensity 1 and top level, got %+v", wed)
	}

	// The other six days are zero-filled
	for i, c := range grid.Weeks[0].Days {
		if i == 2 {
			continue
		}
		if c.Count != 0 || c.Intensity != 0 || c.Level != 0 {
			t.Errorf("day %d not zero-filled: %+v", i, c)
		}
	}
}

func TestLayout_SpansWholeWeeks(t *testing.T) {
	// Friday 2026-07-31 through Tuesday 2026-08-11: three ISO weeks
	grid := Layout([]DayCount{
		day(2026, 7, 31, 3),
		day(2026, 8, 11, 5),
	})

	if len(grid.Weeks) != 3 {
		t.Fatalf("expected 3 weeks, got %d", len(grid.Weeks))
	}

	wantStarts := []string{"2026-07-27", "2026-08-03", "2026-08-10"}
	for i, w := range grid.Weeks {
		if w.Start != wantStarts[i] {
			t.Errorf("week %d start = %q, want %q", i, w.Start, wantStarts[i])
		}
	}

	if grid.Weeks[0].Days[4].Count != 3 {
		t.Errorf("Friday count = %d, want 3", grid.Weeks[0].Days[4].Count)
	}
	if grid.Weeks[2].Days[1].Count != 5 {
		t.Errorf("Tuesday count = %d, want 5", grid.Weeks[2].Days[1].Count)
	}
	if grid.MaxCount != 5 || grid.TotalCount != 8 {
		t.Errorf("totals = max %d / total %d, want 5/8", grid.MaxCount, grid.TotalCount)
	}
}

func TestLayout_DuplicateDatesAccumulate(t *testing.T) {
	grid := Layout([]DayCount{
		day(2026, 8, 5, 2),
		day(2026, 8, 5, 3),
	})

	if grid.TotalCount != 5 || grid.MaxCount != 5 {
		t.Errorf("duplicates should sum: max %d / total %d", grid.MaxCount, grid.TotalCount)
	}
}

func TestLayout_NormalizesTimeOfDayAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*3600)
	grid := Layout([]DayCount{
		{Date: time.Date(2026, 8, 5, 1, 30, 0, 0, zone), Count: 1}, // 2026-08-04 23:30 UTC
		{Date: time.Date(2026, 8, 4, 18, 0, 0, 0, time.UTC), Count: 1},
	})

	if grid.TotalCount != 2 {
		t.Fatalf("total = %d, want 2", grid.TotalCount)
	}

	tue := grid.Weeks[0].Days[1]
	if tue.Date != "2026-08-04" || tue.Count != 2 {
		t.Errorf("both samples should land on the same UTC day: %+v", tue)
	}
}

func TestLevel_Buckets(t *testing.T) {
	const max = 100

	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{25, 1},
		{26, 2},
		{50, 2},
		{51, 3},
		{75, 3},
		{76, 4},
		{100, 4},
	}

	for _, tt := range tests {
		if got := level(tt.count, max); got != tt.want {
			t.Errorf("level(%d, %d) = %d, want %d", tt.count, max, got, tt.want)
		}
	}

	if got := level(5, 0); got != 0 {
		t.Errorf("level with zero max = %d, want 0", got)
	}
}

func TestIntensity(t *testing.T) {
	if got := intensity(25, 100); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("intensity(25, 100) = %v, want 0.25", got)
	}
	if got := intensity(0, 100); got != 0 {
		t.Errorf("intensity(0, 100) = %v, want 0", got)
	}
	if got := intensity(5, 0); got != 0 {
		t.Errorf("intensity with zero max = %v, want 0", got)
	}
}
