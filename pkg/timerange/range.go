// Package timerange holds the half-open interval arithmetic every booking
// decision is made with.
package timerange

import (
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("start time must be before end time")

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if !r.Start.Before(r.End) {
		return ErrInvalidInterval
	}
	return nil
}

// Overlaps reports whether r and other share at least one instant.
// Ranges that only touch at an endpoint do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// UTC normalizes both endpoints, truncated to the millisecond precision BSON dates keep.
func (r Range) UTC() Range {
	return Range{
		Start: r.Start.UTC().Truncate(time.Millisecond),
		End:   r.End.UTC().Truncate(time.Millisecond),
	}
}
