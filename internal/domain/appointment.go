package domain

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusBooked      AppointmentStatus = "booked"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// Appointment represents a patient's place in a slot's queue
type Appointment struct {
	ID        int64
	DoctorID  int64
	PatientID int64
	SlotID    int64

	// QueuePosition is the patient's rank within the owning slot.
	// Positions of booked appointments form a contiguous 1..N sequence;
	// a completed appointment keeps its position as a historical record.
	QueuePosition int
	Status        AppointmentStatus
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardCapacity returns true if the appointment occupies a spot in its slot
func (a *Appointment) CountsTowardCapacity() bool {
	return a.Status == StatusBooked || a.Status == StatusCompleted
}

// IsBooked returns true if the appointment is active in the queue
func (a *Appointment) IsBooked() bool {
	return a.Status == StatusBooked
}

// IsTerminal returns true if no further transitions are possible
func (a *Appointment) IsTerminal() bool {
	return a.Status != StatusBooked
}

// ToAppointmentStatus validates and converts a raw status string
func ToAppointmentStatus(status string) (AppointmentStatus, bool) {
	switch AppointmentStatus(status) {
	case StatusBooked, StatusCancelled, StatusCompleted, StatusRescheduled:
		return AppointmentStatus(status), true
	default:
		return "", false
	}
}
