package disable_slot

import (
	disableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
)

// DisableSlotResponse HTTP response model
type DisableSlotResponse struct {
	DisabledSlotIDs         []int64 `json:"disabledSlotIds"`
	CancelledAppointmentIDs []int64 `json:"cancelledAppointmentIds,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *disableSlots.Response) *DisableSlotResponse {
	return &DisableSlotResponse{
		DisabledSlotIDs:         resp.DisabledSlotIDs,
		CancelledAppointmentIDs: resp.CancelledAppointmentIDs,
	}
}
