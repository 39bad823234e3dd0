package get_doctor_appointments

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
)

// AppointmentResponse запись в расписании врача
type AppointmentResponse struct {
	ID            int64  `json:"id"`
	PatientID     int64  `json:"patientId"`
	QueuePosition int    `json:"queuePosition"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// SlotGroupResponse слот врача с его записями
type SlotGroupResponse struct {
	SlotID       int64                 `json:"slotId"`
	Date         string                `json:"date"`
	StartTime    string                `json:"startTime"`
	EndTime      string                `json:"endTime"`
	MaxPatients  int                   `json:"maxPatients"`
	Appointments []AppointmentResponse `json:"appointments"`
}

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	Slots []SlotGroupResponse `json:"slots"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(list *models.DoctorScheduleList) *ScheduleResponse {
	result := &ScheduleResponse{
		Slots: make([]SlotGroupResponse, 0, len(list.Slots)),
	}

	for _, group := range list.Slots {
		item := SlotGroupResponse{
			SlotID:       group.SlotID,
			Date:         group.Date.Format(domain.DateFormat),
			StartTime:    group.StartTime.String(),
			EndTime:      group.EndTime.String(),
			MaxPatients:  group.MaxPatients,
			Appointments: make([]AppointmentResponse, 0, len(group.Appointments)),
		}
		for _, a := range group.Appointments {
			item.Appointments = append(item.Appointments, AppointmentResponse{
				ID:            a.ID,
				PatientID:     a.PatientID,
				QueuePosition: a.QueuePosition,
				Status:        a.Status,
				Notes:         a.Notes,
				CreatedAt:     a.CreatedAt.Format(time.RFC3339),
			})
		}
		result.Slots = append(result.Slots, item)
	}

	return result
}
