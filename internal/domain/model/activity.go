// Package model contains domain models passed between layers.
package model

import "time"

// Well-known activity record kinds.
const (
	KindSeries = "series" // streak-of-results entry, scored in points
	KindTimed  = "timed"  // timed task, hits within a duration
	KindMedal  = "medal"  // categorized competition medal
)

// ActivityRecord is a single logged result. Year is the authoritative
// calendar bucket; when it is zero the year of Date is used instead.
type ActivityRecord struct {
	ID              string     `json:"id" validate:"omitempty,max=128"`
	Kind            string     `json:"kind" validate:"required"`
	Year            int        `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2200"`
	Group           string     `json:"group,omitempty"`
	Points          *float64   `json:"points,omitempty"`
	Hits            *int       `json:"hits,omitempty" validate:"omitempty,gte=0"`
	DurationSeconds *float64   `json:"durationSeconds,omitempty" validate:"omitempty,gte=0"`
	Score           *float64   `json:"score,omitempty"`
	Category        string     `json:"category,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
}

// Clone returns a copy of r with its own measurement values.
func (r ActivityRecord) Clone() ActivityRecord {
	out := r
	out.Points = clonePtr(r.Points)
	out.Hits = clonePtr(r.Hits)
	out.DurationSeconds = clonePtr(r.DurationSeconds)
	out.Score = clonePtr(r.Score)
	out.Date = clonePtr(r.Date)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// EffectiveYear returns the calendar year the record counts toward, or zero
// when it has none.
func (r ActivityRecord) EffectiveYear() int {
	if r.Year != 0 {
		return r.Year
	}
	if r.Date != nil && !r.Date.IsZero() {
		return r.Date.Year()
	}
	return 0
}

// Valid reports whether the record can take part in aggregation.
func (r ActivityRecord) Valid() bool {
	return r.Kind != "" && r.EffectiveYear() > 0
}

// Value returns the record's primary measurement: points, then score, then
// hits. ok is false when the record carries none of them.
func (r ActivityRecord) Value() (v float64, ok bool) {
	switch {
	case r.Points != nil:
		return *r.Points, true
	case r.Score != nil:
		return *r.Score, true
	case r.Hits != nil:
		return float64(*r.Hits), true
	}
	return 0, false
}
