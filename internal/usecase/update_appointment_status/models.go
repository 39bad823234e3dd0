package update_appointment_status

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// PatientRequest запрос пациента на отмену или перенос своей записи
type PatientRequest struct {
	AppointmentID int64
	PatientID     int64  // Инициатор (владелец записи)
	Status        string // cancelled | rescheduled
}

// DoctorRequest запрос врача на завершение или отмену записи
type DoctorRequest struct {
	AppointmentID int64
	DoctorID      int64  // Инициатор (врач слота)
	Status        string // completed | cancelled
}

// SlotOption свободный слот, предлагаемый пациенту при переносе записи
type SlotOption struct {
	ID             int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	AvailableSpots int
}

// Response результат смены статуса
type Response struct {
	ID        int64
	SlotID    int64
	Status    string
	UpdatedAt time.Time

	// AvailableSlots заполняется только при status=rescheduled:
	// будущие слоты того же врача со свободными местами
	AvailableSlots []SlotOption
}

func buildResponse(a *domain.Appointment, status domain.AppointmentStatus, updatedAt time.Time) *Response {
	return &Response{
		ID:        a.ID,
		SlotID:    a.SlotID,
		Status:    string(status),
		UpdatedAt: updatedAt,
	}
}
