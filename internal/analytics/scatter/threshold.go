package scatter

import "math"

// GroupStats holds threshold statistics for one group
type GroupStats struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Color        string  `json:"color,omitempty"`
	BelowCount   int     `json:"below_count"`
	TotalCount   int     `json:"total_count"`
	BelowPercent float64 `json:"below_percent"`
}

// Stats holds threshold statistics across all groups. PerGroup preserves the
// input group order.
type Stats struct {
	Threshold         float64      `json:"threshold"`
	PerGroup          []GroupStats `json:"per_group"`
	TotalBelowCount   int          `json:"total_below_count"`
	TotalCount        int          `json:"total_count"`
	TotalBelowPercent float64      `json:"total_below_percent"`
}

// ComputeStats counts, per group and in total, how many points fall at or
// below the threshold. Points without a defined numeric value are excluded
// from both counts; groups left with no countable points are skipped. A nil
// threshold, or an input with no countable points at all, yields nil - the
// caller renders nothing. Stats are recomputed from scratch on every
// threshold change; nothing is cached across calls.
func ComputeStats(threshold *float64, groups []Group) *Stats {
	if threshold == nil {
		return nil
	}

	stats := &Stats{
		Threshold: *threshold,
		PerGroup:  make([]GroupStats, 0, len(groups)),
	}

	for _, g := range groups {
		below, total := 0, 0
		for _, p := range g.Points {
			if math.IsNaN(p.Value) {
				continue
			}
			total++
			if p.Value <= *threshold {
				below++
			}
		}

		if total == 0 {
			continue
		}

		stats.PerGroup = append(stats.PerGroup, GroupStats{
			Key:          g.Key,
			Label:        g.Label,
			Color:        g.Color,
			BelowCount:   below,
			TotalCount:   total,
			BelowPercent: percent(below, total),
		})

		stats.TotalBelowCount += below
		stats.TotalCount += total
	}

	if stats.TotalCount == 0 {
		return nil
	}

	stats.TotalBelowPercent = percent(stats.TotalBelowCount, stats.TotalCount)
	return stats
}

func percent(part, total int) float64 {
	return 100 * float64(part) / float64(total)
}
