package scatter

// PointerThreshold maps a pointer's vertical pixel position within the plot
// area to a domain-value threshold. The display axis runs from 0 at the
// bottom edge of the plot area to 100 at the top. Returns false when the
// pointer is outside [top, bottom] (or the bounds are degenerate), which
// callers treat as "no threshold".
func (s *Scale) PointerThreshold(y, top, bottom float64) (float64, bool) {
	if bottom <= top {
		return 0, false
	}
	if y < top || y > bottom {
		return 0, false
	}

	display := (bottom - y) / (bottom - top) * displayMax
	return s.ToDomain(display), true
}
