package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// AvailableSlot слот врача со свободными местами
type AvailableSlot struct {
	ID                int64
	Date              time.Time
	StartTime         types.TimeString
	EndTime           types.TimeString
	MaxPatients       int
	BookedCount       int
	AvailableSpots    int
	IsFutureAvailable bool
}

// DoctorAvailability доступность врача: предстоящие слоты со свободными местами
type DoctorAvailability struct {
	DoctorID int64
	Slots    []AvailableSlot
}

// FromDomainSlot конвертирует слот и его занятость в модель ответа
func FromDomainSlot(s *domain.AvailabilitySlot, occupancy int) AvailableSlot {
	return AvailableSlot{
		ID:                s.ID,
		Date:              s.Date,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		MaxPatients:       s.MaxPatients,
		BookedCount:       occupancy,
		AvailableSpots:    s.MaxPatients - occupancy,
		IsFutureAvailable: s.IsFutureAvailable,
	}
}
