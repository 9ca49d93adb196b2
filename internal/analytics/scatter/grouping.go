package scatter

import "time"

// UnknownKey is the group key assigned to points without a grouping value
const UnknownKey = "unknown"

// Palette is the fixed set of series colors. Groups past the palette length
// reuse colors round-robin; with more than len(Palette) groups series become
// visually ambiguous, which is accepted (the dashboards cap group counts
// well below that in practice).
var Palette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc", "#2f4554",
}

// Point is a single plottable sample: an x-axis timestamp, the domain value
// (request interval in minutes, NaN when undefined) and an optional group
// key.
type Point struct {
	Time  time.Time
	Value float64
	Key   string
}

// Group is a named, colored partition of points sharing a key
type Group struct {
	Key    string
	Label  string
	Color  string
	Points []Point
}

// GroupPoints partitions points by their key, in first-seen order, assigning
// each group a palette color round-robin. Points with an empty key land in
// the "unknown" group. When the input holds at most one distinct key the
// partition is suppressed and nil is returned: a one-item legend carries no
// information, so callers render a single ungrouped series instead.
func GroupPoints(points []Point) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, p := range points {
		key := p.Key
		if key == "" {
			key = UnknownKey
		}

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{
				Key:   key,
				Label: key,
				Color: Palette[i%len(Palette)],
			})
		}

		groups[i].Points = append(groups[i].Points, p)
	}

	if len(groups) <= 1 {
		return nil
	}

	return groups
}
