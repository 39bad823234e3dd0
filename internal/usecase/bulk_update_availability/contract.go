package bulk_update_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	FindBySlotKey(ctx context.Context, doctorID int64, date time.Time, start, end types.TimeString) (*domain.AvailabilitySlot, error)
	ListRedistributionCandidates(ctx context.Context, doctorID int64, fromDate time.Time, afterTime types.TimeString) ([]*domain.AvailabilitySlot, error)
	Update(ctx context.Context, s *domain.AvailabilitySlot) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListBySlotByCreation(ctx context.Context, slotID int64, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error)
	UpdateSlotAndPosition(ctx context.Context, id, slotID int64, position int) error
	Delete(ctx context.Context, id int64) error
}

// QueueLedger интерфейс реестра очереди
type QueueLedger interface {
	Occupancy(ctx context.Context, slotID int64) (int, error)
}

// SlotLocker межпроцессная блокировка по ID слота
type SlotLocker interface {
	WithSlotLock(ctx context.Context, slotID int64, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
