package update_appointment_status

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_appointment_status: appointment not found")

	// ErrForbidden возвращается, когда запись принадлежит другому пациенту/врачу
	ErrForbidden = errors.New("update_appointment_status: appointment belongs to another user")

	// ErrInvalidStatus возвращается при недопустимом целевом статусе
	ErrInvalidStatus = errors.New("update_appointment_status: invalid target status")

	// ErrNotActive возвращается, когда запись уже не в статусе booked
	ErrNotActive = errors.New("update_appointment_status: appointment is not active")

	// ErrTooLate возвращается, когда до начала слота остается меньше часа
	ErrTooLate = errors.New("update_appointment_status: slot starts too soon")

	// ErrSlotBusy возвращается, когда блокировка слота занята конкурентным запросом
	ErrSlotBusy = errors.New("update_appointment_status: slot is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment_status: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_appointment_status: internal error")
)
