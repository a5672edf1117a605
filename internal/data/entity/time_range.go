package entity

import "time"

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) IsValid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether both ranges share at least one instant. Ranges
// that only touch (a.End == b.Start) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// OverlapsAny reports whether r overlaps any of the given ranges.
func (r TimeRange) OverlapsAny(others []TimeRange) bool {
	for _, o := range others {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

// ConflictsWith runs the overlap check against the occupying bookings of a
// resource. Cancelled bookings never conflict.
func (r TimeRange) ConflictsWith(bookings []*Booking) bool {
	for _, b := range bookings {
		if b == nil || !b.Status.Occupies() || b.DeletedAt != nil {
			continue
		}
		if r.Overlaps(b.Range()) {
			return true
		}
	}
	return false
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
