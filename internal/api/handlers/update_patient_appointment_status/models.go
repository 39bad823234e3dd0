package update_patient_appointment_status

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	updateStatus "github.com/m04kA/SMC-ClinicService/internal/usecase/update_appointment_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // cancelled | rescheduled
}

// SlotOptionResponse свободный слот для новой записи при переносе
type SlotOptionResponse struct {
	ID             int64  `json:"id"`
	Date           string `json:"date"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSpots int    `json:"availableSpots"`
}

// UpdateStatusResponse HTTP response model
type UpdateStatusResponse struct {
	ID        int64  `json:"id"`
	SlotID    int64  `json:"slotId"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`

	AvailableSlots []SlotOptionResponse `json:"availableSlots,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateStatus.Response) *UpdateStatusResponse {
	result := &UpdateStatusResponse{
		ID:        resp.ID,
		SlotID:    resp.SlotID,
		Status:    resp.Status,
		UpdatedAt: resp.UpdatedAt.Format(time.RFC3339),
	}

	for _, option := range resp.AvailableSlots {
		result.AvailableSlots = append(result.AvailableSlots, SlotOptionResponse{
			ID:             option.ID,
			Date:           option.Date.Format(domain.DateFormat),
			StartTime:      option.StartTime.String(),
			EndTime:        option.EndTime.String(),
			AvailableSpots: option.AvailableSpots,
		})
	}

	return result
}
