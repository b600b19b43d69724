package availability

import (
	"errors"
	"time"
)

// ErrInvalidDateRange is returned whenever a stay's check-out does not fall
// strictly after its check-in.
var ErrInvalidDateRange = errors.New("check_out must be after check_in")

// Night normalizes an instant to the calendar date its night begins on,
// at midnight UTC. All night math happens on normalized values so that
// timezone offsets and DST transitions cannot shift a stay by a day.
func Night(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StayNights returns the number of nights a stay occupies. Never negative.
func StayNights(checkIn, checkOut time.Time) int {
	n := int(Night(checkOut).Sub(Night(checkIn)) / (24 * time.Hour))
	if n < 0 {
		return 0
	}
	return n
}

// NightsBetween enumerates the nights of the half-open range [start, end).
// Empty when start == end.
func NightsBetween(start, end time.Time) []time.Time {
	s, e := Night(start), Night(end)
	var nights []time.Time
	for d := s; d.Before(e); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// Overlaps is the half-open interval overlap test. Two ranges that share
// only a boundary instant do not overlap: a stay ending on day D never
// conflicts with one starting on day D.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NightSet holds a property's occupied nights. Values are normalized on
// insert, so any instant inside a night tests equal to that night.
type NightSet map[time.Time]struct{}

func NewNightSet() NightSet {
	return NightSet{}
}

func (s NightSet) Add(t time.Time) {
	s[Night(t)] = struct{}{}
}

// AddRange marks every night of the half-open range [start, end) busy.
func (s NightSet) AddRange(start, end time.Time) {
	for _, n := range NightsBetween(start, end) {
		s[n] = struct{}{}
	}
}

func (s NightSet) Contains(t time.Time) bool {
	_, ok := s[Night(t)]
	return ok
}

// HasConflict reports whether any requested night is already busy.
func (s NightSet) HasConflict(nights []time.Time) bool {
	for _, n := range nights {
		if _, ok := s[n]; ok {
			return true
		}
	}
	return false
}
