package get_doctor_availability

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetDoctorAvailability(ctx context.Context, doctorID int64) (*models.DoctorAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
