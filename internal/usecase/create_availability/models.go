package create_availability

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Request модель запроса на создание повторяющихся слотов
type Request struct {
	DoctorID    int64            // ID врача
	DayOfWeek   string           // Имя дня недели ("Monday" ... "Sunday")
	RepeatWeeks int              // Количество недель повторения (0 = 1)
	StartTime   types.TimeString // Начало слота
	EndTime     types.TimeString // Конец слота

	// Окно бронирования (опционально, по умолчанию [start, end] слота)
	BookingStartTime *types.TimeString
	BookingEndTime   *types.TimeString

	MaxPatients       *int  // Вместимость (по умолчанию 1)
	IsFutureAvailable *bool // Разрешен ли перелив в будущие слоты (по умолчанию false)
}

// SlotResult созданный слот
type SlotResult struct {
	ID                 int64
	DoctorID           int64
	Date               time.Time
	StartTime          types.TimeString
	EndTime            types.TimeString
	MaxPatients        int
	BookingWindowStart time.Time
	BookingWindowEnd   time.Time
	IsFutureAvailable  bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Response модель ответа: пересекающиеся даты молча пропускаются,
// возвращается выжившее подмножество
type Response struct {
	Slots []SlotResult
}

func fromDomainSlot(s *domain.AvailabilitySlot) SlotResult {
	return SlotResult{
		ID:                 s.ID,
		DoctorID:           s.DoctorID,
		Date:               s.Date,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		MaxPatients:        s.MaxPatients,
		BookingWindowStart: s.BookingWindowStart,
		BookingWindowEnd:   s.BookingWindowEnd,
		IsFutureAvailable:  s.IsFutureAvailable,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
