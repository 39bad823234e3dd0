package create_availability

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.DayOfWeek == "" {
		return fmt.Errorf("%w: dayOfWeek is required", ErrInvalidInput)
	}

	if req.RepeatWeeks < 0 {
		return fmt.Errorf("%w: repeatWeeks must not be negative", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
	}

	// Начало слота должно быть строго раньше конца
	if !req.StartTime.IsBefore(req.EndTime) {
		return ErrInvalidTimeRange
	}

	// Окно бронирования, если задано, тоже должно быть упорядочено
	if req.BookingStartTime != nil && req.BookingEndTime != nil {
		if err := req.BookingStartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid bookingStartTime format: %v", ErrInvalidInput, err)
		}
		if err := req.BookingEndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid bookingEndTime format: %v", ErrInvalidInput, err)
		}
		if !req.BookingStartTime.IsBefore(*req.BookingEndTime) {
			return ErrInvalidBookingWindow
		}
	}

	if req.MaxPatients != nil && *req.MaxPatients < 0 {
		return fmt.Errorf("%w: maxPatients must not be negative", ErrInvalidInput)
	}

	return nil
}
