package book_appointment

import "errors"

var (
	// ErrSlotNotFound возвращается, когда выбранный слот не найден
	ErrSlotNotFound = errors.New("book_appointment: slot not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = errors.New("book_appointment: patient not found")

	// ErrBookingClosed возвращается, когда текущее время вне окна бронирования слота
	ErrBookingClosed = errors.New("book_appointment: booking is not open for this slot")

	// ErrAlreadyBooked возвращается, когда у пациента уже есть активная запись в слоте
	ErrAlreadyBooked = errors.New("book_appointment: patient already booked this slot")

	// ErrSlotFull возвращается, когда слот заполнен и перелив в будущие слоты запрещен
	ErrSlotFull = errors.New("book_appointment: slot is full and future booking is not allowed")

	// ErrNoFutureSlot возвращается, когда подходящий fallback-слот не найден
	ErrNoFutureSlot = errors.New("book_appointment: no available future slot")

	// ErrSlotBusy возвращается, когда блокировка слота занята конкурентным запросом
	ErrSlotBusy = errors.New("book_appointment: slot is busy, try again")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
