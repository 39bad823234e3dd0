package live_update_slot

import "fmt"

func validateRequest(req *Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	if req.StartTime == nil && req.EndTime == nil && req.MaxPatients == nil &&
		req.BookingWindowStart == nil && req.BookingWindowEnd == nil && req.IsFutureAvailable == nil {
		return fmt.Errorf("%w: at least one field to update is required", ErrInvalidInput)
	}

	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
	}
	if req.EndTime != nil {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
		}
	}
	if req.MaxPatients != nil && *req.MaxPatients < 1 {
		return fmt.Errorf("%w: maxPatients must be positive", ErrInvalidInput)
	}

	return nil
}
