package domain

import "time"

// AttendanceProjection is an estimate of when a patient will be seen,
// derived from the slot's time range, queue position and capacity.
// It is a projection only, never a booking guarantee.
type AttendanceProjection struct {
	EstimatedAttendTime    time.Time
	RecommendedArrivalTime time.Time
}

// ProjectAttendance computes the estimated attend time and recommended
// arrival time for a queue position within a slot.
//
// perPatientMinutes = floor((end - start) / maxPatients)
// estimatedAttendTime = start + (queuePosition - 1) * perPatientMinutes
// recommendedArrivalTime = estimatedAttendTime - ArrivalLead
//
// Returns nil when any input is missing or zero - the projection must never
// block booking.
func ProjectAttendance(slot *AvailabilitySlot, queuePosition int) *AttendanceProjection {
	if slot == nil || slot.Date.IsZero() || queuePosition <= 0 || slot.MaxPatients <= 0 {
		return nil
	}
	if slot.StartTime.IsZero() || slot.EndTime.IsZero() {
		return nil
	}

	totalMinutes := slot.EndTime.Sub(slot.StartTime)
	if totalMinutes <= 0 {
		return nil
	}

	perPatientMinutes := totalMinutes / slot.MaxPatients

	attend := slot.StartAt().Add(time.Duration((queuePosition-1)*perPatientMinutes) * time.Minute)

	return &AttendanceProjection{
		EstimatedAttendTime:    attend,
		RecommendedArrivalTime: attend.Add(-ArrivalLead),
	}
}
