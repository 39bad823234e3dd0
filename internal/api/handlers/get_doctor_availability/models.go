package get_doctor_availability

import (
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/availability/models"
)

// DoctorAvailabilityResponse HTTP response model
type DoctorAvailabilityResponse struct {
	DoctorID int64           `json:"doctorId"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot слот со свободными местами
type AvailableSlot struct {
	ID                int64  `json:"id"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	MaxPatients       int    `json:"maxPatients"`
	BookedCount       int    `json:"bookedCount"`
	AvailableSpots    int    `json:"availableSpots"`
	IsFutureAvailable bool   `json:"isFutureAvailable"`
}

// FromServiceModel конвертирует модель сервиса в HTTP response
func FromServiceModel(availability *models.DoctorAvailability) *DoctorAvailabilityResponse {
	slots := make([]AvailableSlot, len(availability.Slots))
	for i, slot := range availability.Slots {
		slots[i] = AvailableSlot{
			ID:                slot.ID,
			Date:              slot.Date.Format(domain.DateFormat),
			StartTime:         slot.StartTime.String(),
			EndTime:           slot.EndTime.String(),
			MaxPatients:       slot.MaxPatients,
			BookedCount:       slot.BookedCount,
			AvailableSpots:    slot.AvailableSpots,
			IsFutureAvailable: slot.IsFutureAvailable,
		}
	}

	return &DoctorAvailabilityResponse{
		DoctorID: availability.DoctorID,
		Slots:    slots,
	}
}
