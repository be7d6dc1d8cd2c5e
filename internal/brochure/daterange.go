package brochure

import (
	"fmt"
	"time"
)

// DateRange is an inclusive validity window.
// Start is midnight of the first day, End is 23:59:59 of the last day.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a range covering the whole calendar days from start to end.
// The time of day of both arguments is ignored.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := startOfDay(start)
	e := endOfDay(end)
	if e.Before(s) {
		return DateRange{}, ErrInvertedRange
	}
	return DateRange{start: s, end: e}, nil
}

// Start returns the first instant of the range
func (r DateRange) Start() time.Time {
	return r.start
}

// End returns the last instant of the range (23:59:59 of the last day)
func (r DateRange) End() time.Time {
	return r.end
}

// Contains reports whether t lies within the range, bounds included
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// IsZero reports whether r is the zero range
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s - %s", r.start.Format("2006-01-02"), r.end.Format("2006-01-02"))
}

// IsActive reports whether r is valid at now.
// Ranges entirely in the past or entirely in the future are not active.
func IsActive(r DateRange, now time.Time) bool {
	return r.Contains(now)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
