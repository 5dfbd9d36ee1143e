package timerange

import (
	"errors"
	"testing"
	"time"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{name: "valid", start: at(0, 0), end: at(1, 0)},
		{name: "equal endpoints", start: at(1, 0), end: at(1, 0), wantErr: true},
		{name: "reversed", start: at(2, 0), end: at(1, 0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInterval) {
					t.Errorf("expected ErrInvalidInterval, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	existing := Range{Start: at(1, 0), End: at(2, 0)}

	tests := []struct {
		name      string
		candidate Range
		want      bool
	}{
		{name: "touching before", candidate: Range{Start: at(0, 0), End: at(1, 0)}, want: false},
		{name: "touching after", candidate: Range{Start: at(2, 0), End: at(3, 0)}, want: false},
		{name: "partial start", candidate: Range{Start: at(0, 30), End: at(1, 30)}, want: true},
		{name: "partial end", candidate: Range{Start: at(1, 30), End: at(2, 30)}, want: true},
		{name: "contained", candidate: Range{Start: at(1, 15), End: at(1, 45)}, want: true},
		{name: "containing", candidate: Range{Start: at(0, 0), End: at(3, 0)}, want: true},
		{name: "identical", candidate: existing, want: true},
		{name: "disjoint", candidate: Range{Start: at(4, 0), End: at(5, 0)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := existing.Overlaps(tt.candidate); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.candidate.Overlaps(existing); got != tt.want {
				t.Errorf("Overlaps() is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestContains(t *testing.T) {
	r := Range{Start: at(1, 0), End: at(2, 0)}

	if !r.Contains(at(1, 0)) {
		t.Error("start instant should be contained")
	}
	if r.Contains(at(2, 0)) {
		t.Error("end instant should not be contained")
	}
	if r.Duration() != time.Hour {
		t.Errorf("expected 1h duration, got %s", r.Duration())
	}
}

func TestUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	r := Range{
		Start: time.Date(2026, 3, 10, 12, 0, 0, 1500000, loc),
		End:   time.Date(2026, 3, 10, 13, 0, 0, 0, loc),
	}.UTC()

	if r.Start.Location() != time.UTC {
		t.Errorf("expected UTC location, got %s", r.Start.Location())
	}
	if r.Start.Hour() != 9 {
		t.Errorf("expected hour 9, got %d", r.Start.Hour())
	}
	if r.Start.Nanosecond() != 1000000 {
		t.Errorf("expected millisecond truncation, got %dns", r.Start.Nanosecond())
	}
}
