package create_availability

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("create_availability: doctor not found")

	// ErrInvalidTimeRange возвращается, когда начало слота не раньше конца
	ErrInvalidTimeRange = errors.New("create_availability: start time must be before end time")

	// ErrInvalidBookingWindow возвращается при некорректном окне бронирования
	ErrInvalidBookingWindow = errors.New("create_availability: booking window start must be before end")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_availability: internal error")
)
