package queueledger

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// Service реестр позиций очереди
// Слот монопольно владеет своей последовательностью позиций: реестр выдает
// следующую позицию, отвечает на вопросы о занятости и уплотняет
// последовательность при освобождении позиции
//
// Все вызовы, меняющие позиции, должны выполняться внутри сериализуемой
// транзакции / блокировки слота - реестр сам блокировок не берет
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый реестр очереди
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Occupancy возвращает занятость слота: число записей со статусами
// booked/completed (занимают место в слоте)
func (s *Service) Occupancy(ctx context.Context, slotID int64) (int, error) {
	count, err := s.appointmentRepo.CountBySlot(ctx, slotID, domain.CapacityStatuses)
	if err != nil {
		return 0, fmt.Errorf("%w: Occupancy - repository error: %v", ErrInternal, err)
	}
	return count, nil
}

// BookedCount возвращает число активных (booked) записей слота
// Используется ограничениями на изменение слота
func (s *Service) BookedCount(ctx context.Context, slotID int64) (int, error) {
	count, err := s.appointmentRepo.CountBySlot(ctx, slotID, domain.QueueStatuses)
	if err != nil {
		return 0, fmt.Errorf("%w: BookedCount - repository error: %v", ErrInternal, err)
	}
	return count, nil
}

// NextPosition возвращает следующую позицию очереди слота: занятость + 1
func (s *Service) NextPosition(ctx context.Context, slotID int64) (int, error) {
	occupancy, err := s.Occupancy(ctx, slotID)
	if err != nil {
		return 0, err
	}
	return occupancy + 1, nil
}

// Compact уплотняет очередь слота после освобождения позиции:
// все booked записи с позицией выше vacatedPosition сдвигаются на одну вниз,
// так что активные позиции снова образуют непрерывный диапазон 1..N
func (s *Service) Compact(ctx context.Context, slotID int64, vacatedPosition int) error {
	if err := s.appointmentRepo.ShiftQueueDown(ctx, slotID, vacatedPosition); err != nil {
		return fmt.Errorf("%w: Compact - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Compact: slot=%d positions above %d shifted down", slotID, vacatedPosition)
	return nil
}
