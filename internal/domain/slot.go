package domain

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// OpenWindow is a contiguous bookable interval inside a single day
type OpenWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains reports whether a slot of the given duration starting at
// start fits entirely inside the window.
func (w OpenWindow) Contains(start types.TimeString, durationMinutes int) bool {
	if start.IsBefore(w.Start) {
		return false
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}
	return !end.IsAfter(w.End)
}

// Slot is a concrete bookable interval for a professional+service.
// Slots are derived on demand from availability rules; once reserved
// they exist only as part of a Booking.
type Slot struct {
	ProfessionalID int64
	ServiceID      int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
}

// StartInstant returns the absolute start of the slot in the given location
func (s Slot) StartInstant(loc *time.Location) (time.Time, error) {
	minutes, err := s.StartTime.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		s.Date.Year(), s.Date.Month(), s.Date.Day(),
		minutes/60, minutes%60, 0, 0, loc,
	), nil
}

// Overlaps reports whether two half-open time intervals on the same date
// actually intersect. Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && aEnd.IsAfter(bStart)
}
