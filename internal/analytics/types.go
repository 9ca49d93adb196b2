// Package analytics provides common types for the console's chart and
// usage computations (scatter, heatmap, etc.)
package analytics

import (
	"encoding/json"
	"math"
	"time"
)

// RequestPoint is a single request-log sample from the gateway: the time a
// request arrived and the interval, in minutes, since the same user's
// previous request. The interval is NaN for the first request in a window
// (the gateway reports it as null).
type RequestPoint struct {
	Time     time.Time
	Interval float64
	UserID   string
	Model    string
}

// Defined reports whether the point carries a usable interval value.
func (p RequestPoint) Defined() bool {
	return !math.IsNaN(p.Interval)
}

// requestPointJSON is the wire/cache form of a point. NaN is not
// representable in JSON, so undefined intervals travel as null.
type requestPointJSON struct {
	Time     time.Time `json:"time"`
	Interval *float64  `json:"interval_minutes"`
	UserID   string    `json:"user_id"`
	Model    string    `json:"model"`
}

// MarshalJSON encodes an undefined interval as null
func (p RequestPoint) MarshalJSON() ([]byte, error) {
	out := requestPointJSON{Time: p.Time, UserID: p.UserID, Model: p.Model}
	if p.Defined() {
		v := p.Interval
		out.Interval = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null interval back to NaN
func (p *RequestPoint) UnmarshalJSON(data []byte) error {
	var in requestPointJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	p.Time = in.Time
	p.UserID = in.UserID
	p.Model = in.Model
	p.Interval = math.NaN()
	if in.Interval != nil {
		p.Interval = *in.Interval
	}
	return nil
}

// RequestPoints is a collection of request-log samples
type RequestPoints []RequestPoint

// Defined returns only the points with a usable interval value
func (ps RequestPoints) Defined() RequestPoints {
	out := make(RequestPoints, 0, len(ps))
	for _, p := range ps {
		if p.Defined() {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of samples
func (ps RequestPoints) Len() int {
	return len(ps)
}
