package scatter

import (
	"testing"
	"time"
)

func mkPoints(keys ...string) []Point {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	points := make([]Point, len(keys))
	for i, k := range keys {
		points[i] = Point{Time: base.Add(time.Duration(i) * time.Minute), Value: float64(i), Key: k}
	}
	return points
}

func TestGroupPoints_SuppressedForSingleKey(t *testing.T) {
	if got := GroupPoints(mkPoints("alice", "alice", "alice")); got != nil {
		t.Errorf("expected nil for single-key input, got %d groups", len(got))
	}

	if got := GroupPoints(nil); got != nil {
		t.Errorf("expected nil for empty input, got %d groups", len(got))
	}

	// All-empty keys collapse into one "unknown" group, which is also suppressed
	if got := GroupPoints(mkPoints("", "", "")); got != nil {
		t.Errorf("expected nil for all-unknown input, got %d groups", len(got))
	}
}

func TestGroupPoints_FirstSeenOrderAndColors(t *testing.T) {
	groups := GroupPoints(mkPoints("bob", "alice", "bob", "carol", "alice"))
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	wantKeys := []string{"bob", "alice", "carol"}
	wantSizes := []int{2, 2, 1}

	for i, g := range groups {
		if g.Key != wantKeys[i] {
			t.Errorf("group %d key = %q, want %q", i, g.Key, wantKeys[i])
		}
		if g.Label != wantKeys[i] {
			t.Errorf("group %d label = %q, want %q", i, g.Label, wantKeys[i])
		}
		if g.Color != Palette[i] {
			t.Errorf("group %d color = %q, want %q", i, g.Color, Palette[i])
		}
		if len(g.Points) != wantSizes[i] {
			t.Errorf("group %d has %d points, want %d", i, len(g.Points), wantSizes[i])
		}
	}
}

func TestGroupPoints_EmptyKeyBecomesUnknown(t *testing.T) {
	groups := GroupPoints(mkPoints("gpt-4", "", "gpt-4", ""))
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	if groups[1].Key != UnknownKey {
		t.Errorf("second group key = %q, want %q", groups[1].Key, UnknownKey)
	}
	if len(groups[1].Points) != 2 {
		t.Errorf("unknown group has %d points, want 2", len(groups[1].Points))
	}
}

func TestGroupPoints_PaletteCycles(t *testing.T) {
	keys := make([]string, 0, 12)
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		keys = append(keys, k)
	}

	groups := GroupPoints(mkPoints(keys...))
	if len(groups) != 12 {
		t.Fatalf("expected 12 groups, got %d", len(groups))
	}

	// Groups past the palette length wrap back to the start
	if groups[10].Color != Palette[0] {
		t.Errorf("group 10 color = %q, want %q", groups[10].Color, Palette[0])
	}
	if groups[11].Color != Palette[1] {
		t.Errorf("group 11 color = %q, want %q", groups[11].Color, Palette[1])
	}
}
