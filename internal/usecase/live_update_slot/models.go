package live_update_slot

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Request модель запроса на изменение слота
// Nil-поля не меняются
type Request struct {
	SlotID   int64
	DoctorID int64 // Инициатор (владелец слота)

	StartTime          *types.TimeString
	EndTime            *types.TimeString
	MaxPatients        *int
	BookingWindowStart *time.Time
	BookingWindowEnd   *time.Time
	IsFutureAvailable  *bool
}

// Response модель ответа с обновленным слотом
type Response struct {
	ID                 int64
	DoctorID           int64
	Date               time.Time
	StartTime          types.TimeString
	EndTime            types.TimeString
	MaxPatients        int
	BookingWindowStart time.Time
	BookingWindowEnd   time.Time
	IsFutureAvailable  bool
	UpdatedAt          time.Time

	// Судьба вытесненных при уменьшении maxPatients записей
	RedistributedAppointmentIDs []int64
	RemovedAppointmentIDs       []int64
}

func buildResponse(s *domain.AvailabilitySlot, redistributed, removed []int64) *Response {
	return &Response{
		ID:                 s.ID,
		DoctorID:           s.DoctorID,
		Date:               s.Date,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		MaxPatients:        s.MaxPatients,
		BookingWindowStart: s.BookingWindowStart,
		BookingWindowEnd:   s.BookingWindowEnd,
		IsFutureAvailable:  s.IsFutureAvailable,
		UpdatedAt:          s.UpdatedAt,

		RedistributedAppointmentIDs: redistributed,
		RemovedAppointmentIDs:       removed,
	}
}
