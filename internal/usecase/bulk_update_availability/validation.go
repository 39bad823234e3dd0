package bulk_update_availability

import "fmt"

func validateRequest(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	// Ровно один способ адресации: даты либо расписание
	if len(req.Dates) == 0 && req.DayOfWeek == "" {
		return fmt.Errorf("%w: either dates or dayOfWeek with repeatWeeks is required", ErrInvalidInput)
	}
	if len(req.Dates) == 0 && req.RepeatWeeks < 1 {
		return fmt.Errorf("%w: repeatWeeks must be positive", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	if req.BookingStartTime != nil {
		if err := req.BookingStartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid bookingStartTime: %v", ErrInvalidInput, err)
		}
	}
	if req.BookingEndTime != nil {
		if err := req.BookingEndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid bookingEndTime: %v", ErrInvalidInput, err)
		}
	}
	if req.MaxPatients != nil && *req.MaxPatients < 1 {
		return fmt.Errorf("%w: maxPatients must be positive", ErrInvalidInput)
	}

	return nil
}
