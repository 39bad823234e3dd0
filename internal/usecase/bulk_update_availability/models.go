package bulk_update_availability

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Request модель запроса на массовое обновление слотов
// Слоты адресуются либо явным списком дат (Dates), либо повторяющимся
// расписанием (DayOfWeek + RepeatWeeks); в обоих случаях слот находится
// по ключу (doctorId, date, startTime, endTime)
type Request struct {
	DoctorID int64

	Dates       []time.Time // Вариант 1: явные даты
	DayOfWeek   string      // Вариант 2: день недели...
	RepeatWeeks int         // ...и число недель

	// Ключ слота
	StartTime types.TimeString
	EndTime   types.TimeString

	// Обновляемые поля (nil - не меняется)
	BookingStartTime  *types.TimeString // Время на дату слота
	BookingEndTime    *types.TimeString
	MaxPatients       *int
	IsFutureAvailable *bool
}

// SkipReason причина пропуска даты
type SkipReason string

const (
	// SkipNotFound - слот по ключу не найден
	SkipNotFound SkipReason = "not_found"
	// SkipTooSoon - слот начинается меньше чем через час
	SkipTooSoon SkipReason = "starts_soon"
)

// SkippedDate дата, пропущенная при обновлении
type SkippedDate struct {
	Date   time.Time
	Reason SkipReason
}

// Response результат массового обновления: частичный успех,
// каждая дата обрабатывается независимо
type Response struct {
	UpdatedSlotIDs []int64
	Skipped        []SkippedDate

	// Судьба вытесненных при уменьшении maxPatients записей
	RedistributedAppointmentIDs []int64
	RemovedAppointmentIDs       []int64
}
