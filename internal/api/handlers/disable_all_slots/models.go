package disable_all_slots

import (
	disableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
)

// DisableSlotsResponse HTTP response model с частичным результатом
type DisableSlotsResponse struct {
	DisabledSlotIDs         []int64 `json:"disabledSlotIds"`
	BlockedSlotIDs          []int64 `json:"blockedSlotIds,omitempty"`
	CancelledAppointmentIDs []int64 `json:"cancelledAppointmentIds,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *disableSlots.Response) *DisableSlotsResponse {
	return &DisableSlotsResponse{
		DisabledSlotIDs:         resp.DisabledSlotIDs,
		BlockedSlotIDs:          resp.BlockedSlotIDs,
		CancelledAppointmentIDs: resp.CancelledAppointmentIDs,
	}
}
