package get_doctor_appointments

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetByDoctor(ctx context.Context, doctorID int64) (*models.DoctorScheduleList, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
