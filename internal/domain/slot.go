package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// DisabledTime is the sentinel time-of-day of a disabled slot.
// A slot is never physically deleted once an appointment could reference it;
// "delete" transitions it to startTime = endTime = 00:00:00, maxPatients = 0.
const DisabledTime types.TimeString = "00:00:00"

// AvailabilitySlot represents a doctor's bookable time window on a specific date
type AvailabilitySlot struct {
	ID       int64
	DoctorID int64

	Date      time.Time // calendar date, time part is zero
	StartTime types.TimeString
	EndTime   types.TimeString

	MaxPatients int

	// Booking window: the absolute instant range during which patients may book
	BookingWindowStart time.Time
	BookingWindowEnd   time.Time

	// IsFutureAvailable permits overflow into later slots when this one is full
	IsFutureAvailable bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartAt returns the absolute instant the slot starts
func (s *AvailabilitySlot) StartAt() time.Time {
	return s.StartTime.AtDate(s.Date)
}

// EndAt returns the absolute instant the slot ends
func (s *AvailabilitySlot) EndAt() time.Time {
	return s.EndTime.AtDate(s.Date)
}

// IsDisabled returns true if the slot is in the disabled sentinel state
func (s *AvailabilitySlot) IsDisabled() bool {
	return s.StartTime.Minutes() == 0 && s.EndTime.Minutes() == 0 && s.MaxPatients == 0
}

// Disable transitions the slot to the disabled sentinel state
func (s *AvailabilitySlot) Disable() {
	s.StartTime = DisabledTime
	s.EndTime = DisabledTime
	s.MaxPatients = 0
}

// IsBookingOpen returns true if now falls within the booking window
func (s *AvailabilitySlot) IsBookingOpen(now time.Time) bool {
	return !now.Before(s.BookingWindowStart) && !now.After(s.BookingWindowEnd)
}

// HasRoom returns true if the given occupancy leaves a free spot
func (s *AvailabilitySlot) HasRoom(occupancy int) bool {
	return occupancy < s.MaxPatients
}

// Overlaps reports whether the [start, end) range intersects the slot's range.
// Half-open semantics: touching boundaries do not overlap.
func (s *AvailabilitySlot) Overlaps(start, end types.TimeString) bool {
	return start.IsBefore(s.EndTime) && s.StartTime.IsBefore(end)
}
