package get_patient_appointments

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetByPatient(ctx context.Context, patientID int64) (*models.PatientAppointmentList, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
