package bulk_update_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bulk_update_availability: invalid input data")

	// ErrSlotBusy возвращается, когда блокировка одного из слотов занята
	// конкурентным запросом
	ErrSlotBusy = errors.New("bulk_update_availability: slot is busy, try again")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("bulk_update_availability: internal error")
)
