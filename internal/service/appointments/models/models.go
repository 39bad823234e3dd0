package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Projection расчетное время приема (только прогноз, не гарантия)
type Projection struct {
	EstimatedAttendTime    time.Time
	RecommendedArrivalTime time.Time
}

// PatientAppointment запись пациента со сведениями о слоте и прогнозом
type PatientAppointment struct {
	ID            int64
	DoctorID      int64
	SlotID        int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	QueuePosition int
	Status        string
	Notes         string

	// ExpectedTime = nil, если прогноз невозможен
	ExpectedTime *Projection
}

// PatientAppointmentList список записей пациента
type PatientAppointmentList struct {
	Appointments []PatientAppointment
}

// DoctorAppointment запись в расписании врача
type DoctorAppointment struct {
	ID            int64
	PatientID     int64
	QueuePosition int
	Status        string
	Notes         string
	CreatedAt     time.Time
}

// DoctorSlotGroup слот врача с его записями
type DoctorSlotGroup struct {
	SlotID       int64
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	MaxPatients  int
	Appointments []DoctorAppointment
}

// DoctorScheduleList расписание врача: предстоящие слоты с записями
type DoctorScheduleList struct {
	Slots []DoctorSlotGroup
}

// FromDomainPatientAppointment конвертирует запись и её слот в модель ответа
func FromDomainPatientAppointment(a *domain.Appointment, slot *domain.AvailabilitySlot) PatientAppointment {
	result := PatientAppointment{
		ID:            a.ID,
		DoctorID:      a.DoctorID,
		SlotID:        a.SlotID,
		Date:          slot.Date,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		QueuePosition: a.QueuePosition,
		Status:        string(a.Status),
		Notes:         a.Notes,
	}

	if projection := domain.ProjectAttendance(slot, a.QueuePosition); projection != nil {
		result.ExpectedTime = &Projection{
			EstimatedAttendTime:    projection.EstimatedAttendTime,
			RecommendedArrivalTime: projection.RecommendedArrivalTime,
		}
	}

	return result
}

// FromDomainDoctorAppointment конвертирует запись в модель расписания врача
func FromDomainDoctorAppointment(a *domain.Appointment) DoctorAppointment {
	return DoctorAppointment{
		ID:            a.ID,
		PatientID:     a.PatientID,
		QueuePosition: a.QueuePosition,
		Status:        string(a.Status),
		Notes:         a.Notes,
		CreatedAt:     a.CreatedAt,
	}
}
