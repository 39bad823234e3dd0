package book_appointment

import "fmt"

func validateRequest(req *Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotId must be positive", ErrInvalidInput)
	}
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientId must be positive", ErrInvalidInput)
	}
	return nil
}
