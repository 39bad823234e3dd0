package disable_slots

import "time"

// SingleRequest запрос на отключение одного слота
type SingleRequest struct {
	SlotID   int64
	DoctorID int64 // Инициатор (владелец слота)
}

// ByDateRequest запрос на отключение всех слотов врача на дату
type ByDateRequest struct {
	DoctorID int64
	Date     time.Time
}

// AllRequest запрос на отключение всех слотов врача
type AllRequest struct {
	DoctorID int64
}

// Response результат отключения: частичный успех для групповых операций
// Слот не удаляется физически - переводится в отключенное состояние
// (startTime = endTime = 00:00:00, maxPatients = 0)
type Response struct {
	DisabledSlotIDs []int64

	// BlockedSlotIDs - слоты, отключение которых отклонено из-за активной
	// записи меньше чем за два часа до начала
	BlockedSlotIDs []int64

	// CancelledAppointmentIDs - отмененные при отключении записи
	CancelledAppointmentIDs []int64
}
