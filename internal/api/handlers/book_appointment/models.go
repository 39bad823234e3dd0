package book_appointment

import (
	"time"

	bookAppointment "github.com/m04kA/SMC-ClinicService/internal/usecase/book_appointment"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	SlotID int64  `json:"slotId"`
	Notes  string `json:"notes,omitempty"`
}

// ProjectionResponse расчетное время приема
type ProjectionResponse struct {
	EstimatedAttendTime    string `json:"estimatedAttendTime"`
	RecommendedArrivalTime string `json:"recommendedArrivalTime"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID            int64  `json:"id"`
	DoctorID      int64  `json:"doctorId"`
	PatientID     int64  `json:"patientId"`
	SlotID        int64  `json:"slotId"`
	QueuePosition int    `json:"queuePosition"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	FallbackUsed  bool   `json:"fallbackUsed"`

	ExpectedTime *ProjectionResponse `json:"expectedTime,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(patientID int64) *bookAppointment.Request {
	return &bookAppointment.Request{
		SlotID:    r.SlotID,
		PatientID: patientID,
		Notes:     r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	result := &AppointmentResponse{
		ID:            resp.ID,
		DoctorID:      resp.DoctorID,
		PatientID:     resp.PatientID,
		SlotID:        resp.SlotID,
		QueuePosition: resp.QueuePosition,
		Status:        resp.Status,
		Notes:         resp.Notes,
		FallbackUsed:  resp.FallbackUsed,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.ExpectedTime != nil {
		result.ExpectedTime = &ProjectionResponse{
			EstimatedAttendTime:    resp.ExpectedTime.EstimatedAttendTime.Format(time.RFC3339),
			RecommendedArrivalTime: resp.ExpectedTime.RecommendedArrivalTime.Format(time.RFC3339),
		}
	}

	return result
}
