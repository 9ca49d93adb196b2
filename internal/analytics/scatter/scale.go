// Package scatter implements the computations behind the request-interval
// scatter chart: the non-linear axis transform, point grouping, and the
// crosshair threshold statistics.
package scatter

import (
	"fmt"
	"strconv"
)

// displayMax is the upper end of the display range produced by the transform
const displayMax = 100.0

// Scale maps a bounded domain range [0, UpperBound] onto the display range
// [0, 100] with a two-segment piecewise-linear transform. The lower segment
// [0, Breakpoint] is stretched to occupy LowerRatio of the display range and
// the tail (Breakpoint, UpperBound] is compressed into the rest. Request
// intervals are heavily right-skewed, so a linear axis would crowd all the
// interesting near-zero detail into a few pixels.
type Scale struct {
	Breakpoint float64
	LowerRatio float64
	UpperBound float64
	Landmarks  []float64
}

// Tick is a labeled axis position: a human-chosen domain value and the
// display position it lands on.
type Tick struct {
	Domain  float64 `json:"domain"`
	Display float64 `json:"display"`
	Label   string  `json:"label"`
}

// NewScale creates a Scale, rejecting malformed configuration up front.
// Requires 0 < breakpoint < upperBound and 0 < lowerRatio < 1.
func NewScale(breakpoint, lowerRatio, upperBound float64, landmarks []float64) (*Scale, error) {
	if upperBound <= 0 {
		return nil, fmt.Errorf("upper bound must be positive, got %v", upperBound)
	}
	if breakpoint <= 0 || breakpoint >= upperBound {
		return nil, fmt.Errorf("breakpoint must be strictly between 0 and %v, got %v", upperBound, breakpoint)
	}
	if lowerRatio <= 0 || lowerRatio >= 1 {
		return nil, fmt.Errorf("lower ratio must be in (0,1), got %v", lowerRatio)
	}

	return &Scale{
		Breakpoint: breakpoint,
		LowerRatio: lowerRatio,
		UpperBound: upperBound,
		Landmarks:  landmarks,
	}, nil
}

// ToDisplay converts a domain value to its display position. Values outside
// [0, UpperBound] extrapolate linearly within the applicable segment;
// clamping, if wanted, is the caller's job.
func (s *Scale) ToDisplay(v float64) float64 {
	split := s.LowerRatio * displayMax

	if v <= s.Breakpoint {
		return v * (split / s.Breakpoint)
	}

	return split + (v-s.Breakpoint)/(s.UpperBound-s.Breakpoint)*(displayMax-split)
}

// ToDomain converts a display position back to the domain value. Exact
// inverse of ToDisplay over the full domain.
func (s *Scale) ToDomain(d float64) float64 {
	split := s.LowerRatio * displayMax

	if d <= split {
		return d / (split / s.Breakpoint)
	}

	return s.Breakpoint + (d-split)/(displayMax-split)*(s.UpperBound-s.Breakpoint)
}

// Ticks transforms the landmark set into labeled axis positions. Landmarks
// are fixed, human-chosen domain values, so labels stay meaningful no matter
// how the transform warps the axis.
func (s *Scale) Ticks() []Tick {
	ticks := make([]Tick, len(s.Landmarks))
	for i, lm := range s.Landmarks {
		ticks[i] = Tick{
			Domain:  lm,
			Display: s.ToDisplay(lm),
			Label:   formatTickLabel(lm),
		}
	}
	return ticks
}

// formatTickLabel renders a landmark value without trailing zeros
func formatTickLabel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
