package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// Request модель запроса на бронирование
type Request struct {
	SlotID    int64  // Выбранный слот
	PatientID int64  // Пациент
	Notes     string // Заметки (опционально)
}

// Projection расчетное время приема (только прогноз, не гарантия)
type Projection struct {
	EstimatedAttendTime    time.Time
	RecommendedArrivalTime time.Time
}

// Response модель ответа с созданной записью
type Response struct {
	ID            int64
	DoctorID      int64
	PatientID     int64
	SlotID        int64 // Фактический слот (при переливе - fallback-слот)
	QueuePosition int
	Status        string
	Notes         string

	// FallbackUsed = true, если выбранный слот был заполнен
	// и запись создана в следующем доступном слоте
	FallbackUsed bool

	// ExpectedTime = nil, если прогноз невозможен (нет входных данных)
	ExpectedTime *Projection

	CreatedAt time.Time
	UpdatedAt time.Time
}

func buildResponse(a *domain.Appointment, slot *domain.AvailabilitySlot, fallbackUsed bool) *Response {
	resp := &Response{
		ID:            a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		SlotID:        a.SlotID,
		QueuePosition: a.QueuePosition,
		Status:        string(a.Status),
		Notes:         a.Notes,
		FallbackUsed:  fallbackUsed,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}

	if projection := domain.ProjectAttendance(slot, a.QueuePosition); projection != nil {
		resp.ExpectedTime = &Projection{
			EstimatedAttendTime:    projection.EstimatedAttendTime,
			RecommendedArrivalTime: projection.RecommendedArrivalTime,
		}
	}

	return resp
}
