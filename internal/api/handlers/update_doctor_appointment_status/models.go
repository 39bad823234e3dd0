package update_doctor_appointment_status

import (
	"time"

	updateStatus "github.com/m04kA/SMC-ClinicService/internal/usecase/update_appointment_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // completed | cancelled
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	ID        int64  `json:"id"`
	SlotID    int64  `json:"slotId"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateStatus.Response) *UpdateStatusResponse {
	return &UpdateStatusResponse{
		ID:        resp.ID,
		SlotID:    resp.SlotID,
		Status:    resp.Status,
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}
}
