package get_patient_appointments

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
)

// ProjectionResponse расчетное время приема
type ProjectionResponse struct {
	EstimatedAttendTime    string `json:"estimatedAttendTime"`
	RecommendedArrivalTime string `json:"recommendedArrivalTime"`
}

// AppointmentResponse запись пациента в HTTP ответе
type AppointmentResponse struct {
	ID            int64  `json:"id"`
	DoctorID      int64  `json:"doctorId"`
	SlotID        int64  `json:"slotId"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	QueuePosition int    `json:"queuePosition"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`

	ExpectedTime *ProjectionResponse `json:"expectedTime,omitempty"`
}

// AppointmentListResponse HTTP response model
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(list *models.PatientAppointmentList) *AppointmentListResponse {
	result := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list.Appointments)),
	}

	for _, a := range list.Appointments {
		item := AppointmentResponse{
			ID:            a.ID,
			DoctorID:      a.DoctorID,
			SlotID:        a.SlotID,
			Date:          a.Date.Format(domain.DateFormat),
			StartTime:     a.StartTime.String(),
			EndTime:       a.EndTime.String(),
			QueuePosition: a.QueuePosition,
			Status:        a.Status,
			Notes:         a.Notes,
		}
		if a.ExpectedTime != nil {
			item.ExpectedTime = &ProjectionResponse{
				EstimatedAttendTime:    a.ExpectedTime.EstimatedAttendTime.Format(time.RFC3339),
				RecommendedArrivalTime: a.ExpectedTime.RecommendedArrivalTime.Format(time.RFC3339),
			}
		}
		result.Appointments = append(result.Appointments, item)
	}

	return result
}
