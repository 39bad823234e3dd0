package queueledger

import (
	"context"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CountBySlot(ctx context.Context, slotID int64, statuses []domain.AppointmentStatus) (int, error)
	ShiftQueueDown(ctx context.Context, slotID int64, abovePosition int) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
