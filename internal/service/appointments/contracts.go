package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListByPatientAndStatus(ctx context.Context, patientID int64, status domain.AppointmentStatus) ([]*domain.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Appointment, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error)
}

// ProfileServiceClient интерфейс клиента ProfileService
type ProfileServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*profileservice.Doctor, error)
	GetPatient(ctx context.Context, patientID int64) (*profileservice.Patient, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
