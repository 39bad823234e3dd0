package live_update_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
)

// UseCase use case изменения существующего слота
// Охранные проверки (порядок времен, 30-минутное окно) выполняются до
// первой мутации; при уменьшении maxPatients ниже занятости лишние записи
// переносятся в следующий подходящий слот врача или удаляются
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	ledger          QueueLedger
	locker          SlotLocker
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	ledger QueueLedger,
	locker SlotLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		ledger:          ledger,
		locker:          locker,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute применяет изменения к слоту
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("LiveUpdateSlot: slot=%d doctor=%d", req.SlotID, req.DoctorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("LiveUpdateSlot: validation failed: %v", err)
		return nil, err
	}

	var result *Response

	err := uc.locker.WithSlotLock(ctx, req.SlotID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			var err error
			result, err = uc.update(txCtx, req)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, slotlock.ErrLockNotAcquired) {
			uc.logger.Warn("LiveUpdateSlot: slot=%d lock not acquired", req.SlotID)
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	uc.logger.Info("LiveUpdateSlot: slot=%d updated, redistributed=%d removed=%d",
		req.SlotID, len(result.RedistributedAppointmentIDs), len(result.RemovedAppointmentIDs))

	return result, nil
}

func (uc *UseCase) update(ctx context.Context, req *Request) (*Response, error) {
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("LiveUpdateSlot: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("LiveUpdateSlot: failed to get slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	if slot.DoctorID != req.DoctorID {
		uc.logger.Warn("LiveUpdateSlot: slot=%d owned by doctor=%d, requested by %d",
			slot.ID, slot.DoctorID, req.DoctorID)
		return nil, ErrForbidden
	}
	if slot.IsDisabled() {
		uc.logger.Warn("LiveUpdateSlot: slot=%d is disabled", slot.ID)
		return nil, ErrSlotDisabled
	}

	updated := applyChanges(slot, req)
	now := uc.timeProvider.Now()

	// 1. Проверки порядка и прошедшего времени - до охранного окна
	if err := uc.validateTimes(slot, updated, now); err != nil {
		return nil, err
	}

	// 2. Охранное окно: за 30 минут до начала сужающие изменения запрещены
	withinGuard := now.After(slot.StartAt().Add(-domain.LiveUpdateGuard))
	if withinGuard {
		if err := uc.rejectNarrowing(ctx, slot, updated); err != nil {
			return nil, err
		}
	}

	// 3. Только вне охранного окна: уменьшение maxPatients ниже занятости
	// вытесняет лишние записи
	var redistributed, removed []int64
	if req.MaxPatients != nil && !withinGuard {
		occupancy, err := uc.ledger.Occupancy(ctx, slot.ID)
		if err != nil {
			uc.logger.Error("LiveUpdateSlot: occupancy check failed: %v", err)
			return nil, fmt.Errorf("%w: occupancy check failed: %v", ErrInternal, err)
		}
		if *req.MaxPatients < occupancy {
			redistributed, removed, err = uc.shrinkCapacity(ctx, slot, *req.MaxPatients)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := uc.slotRepo.Update(ctx, updated); err != nil {
		uc.logger.Error("LiveUpdateSlot: failed to update slot: %v", err)
		return nil, fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
	}

	return buildResponse(updated, redistributed, removed), nil
}

// applyChanges строит новое состояние слота из старого и запроса
func applyChanges(slot *domain.AvailabilitySlot, req *Request) *domain.AvailabilitySlot {
	updated := *slot

	if req.StartTime != nil {
		updated.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		updated.EndTime = *req.EndTime
	}
	if req.MaxPatients != nil {
		updated.MaxPatients = *req.MaxPatients
	}
	if req.BookingWindowStart != nil {
		updated.BookingWindowStart = *req.BookingWindowStart
	}
	if req.BookingWindowEnd != nil {
		updated.BookingWindowEnd = *req.BookingWindowEnd
	}
	if req.IsFutureAvailable != nil {
		updated.IsFutureAvailable = *req.IsFutureAvailable
	}

	return &updated
}

// validateTimes проверяет порядок новых границ и запрещает времена в прошлом
func (uc *UseCase) validateTimes(old, updated *domain.AvailabilitySlot, now time.Time) error {
	if !updated.StartTime.IsBefore(updated.EndTime) {
		uc.logger.Warn("LiveUpdateSlot: slot=%d start %s not before end %s",
			old.ID, updated.StartTime, updated.EndTime)
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidTimeRange)
	}
	if updated.BookingWindowEnd.Before(updated.BookingWindowStart) {
		uc.logger.Warn("LiveUpdateSlot: slot=%d booking window end before start", old.ID)
		return fmt.Errorf("%w: booking window end before start", ErrInvalidTimeRange)
	}

	// Менять границы на уже прошедшие моменты нельзя
	if old.StartTime != updated.StartTime && updated.StartAt().Before(now) {
		return fmt.Errorf("%w: startTime is in the past", ErrInvalidTimeRange)
	}
	if old.EndTime != updated.EndTime && updated.EndAt().Before(now) {
		return fmt.Errorf("%w: endTime is in the past", ErrInvalidTimeRange)
	}
	if !old.BookingWindowEnd.Equal(updated.BookingWindowEnd) && updated.BookingWindowEnd.Before(now) {
		return fmt.Errorf("%w: booking window end is in the past", ErrInvalidTimeRange)
	}

	return nil
}

// rejectNarrowing запрещает сужающие изменения внутри 30-минутного окна:
// сужение границ слота, сужение окна бронирования и уменьшение maxPatients
// ниже числа активных записей. Остальные поля менять можно
func (uc *UseCase) rejectNarrowing(ctx context.Context, old, updated *domain.AvailabilitySlot) error {
	if old.StartTime.IsBefore(updated.StartTime) || updated.EndTime.IsBefore(old.EndTime) {
		uc.logger.Warn("LiveUpdateSlot: slot=%d time window narrowing rejected", old.ID)
		return fmt.Errorf("%w: cannot narrow time window", ErrTooCloseToStart)
	}
	if updated.BookingWindowStart.After(old.BookingWindowStart) ||
		updated.BookingWindowEnd.Before(old.BookingWindowEnd) {
		uc.logger.Warn("LiveUpdateSlot: slot=%d booking window narrowing rejected", old.ID)
		return fmt.Errorf("%w: cannot narrow booking window", ErrTooCloseToStart)
	}

	if updated.MaxPatients < old.MaxPatients {
		booked, err := uc.ledger.BookedCount(ctx, old.ID)
		if err != nil {
			uc.logger.Error("LiveUpdateSlot: booked count failed: %v", err)
			return fmt.Errorf("%w: booked count failed: %v", ErrInternal, err)
		}
		if updated.MaxPatients < booked {
			uc.logger.Warn("LiveUpdateSlot: slot=%d maxPatients %d below booked %d rejected",
				old.ID, updated.MaxPatients, booked)
			return fmt.Errorf("%w: cannot reduce maxPatients below active bookings", ErrTooCloseToStart)
		}
	}

	return nil
}

// shrinkCapacity вытесняет лишние записи при уменьшении maxPatients:
// записи с наибольшими позициями (порядок создания) переносятся в первый
// подходящий слот врача (date/start_time по возрастанию, start_time позже
// конца текущего слота, есть место, is_future_available=true); если такого
// слота нет - запись удаляется, а не остается висеть
func (uc *UseCase) shrinkCapacity(ctx context.Context, slot *domain.AvailabilitySlot, newMax int) (redistributed, removed []int64, err error) {
	booked, err := uc.appointmentRepo.ListBySlotByCreation(ctx, slot.ID, domain.QueueStatuses)
	if err != nil {
		uc.logger.Error("LiveUpdateSlot: failed to list appointments: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// Вытесняются записи с позициями выше нового лимита; остаток очереди
	// остается непрерывным 1..newMax без уплотнения
	var excess []*domain.Appointment
	for _, a := range booked {
		if a.QueuePosition > newMax {
			excess = append(excess, a)
		}
	}
	if len(excess) == 0 {
		return nil, nil, nil
	}

	candidates, err := uc.slotRepo.ListRedistributionCandidates(ctx, slot.DoctorID, slot.Date, slot.EndTime)
	if err != nil {
		uc.logger.Error("LiveUpdateSlot: failed to list candidates: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}

	for _, a := range excess {
		target, position, err := uc.pickCandidate(ctx, candidates)
		if err != nil {
			return nil, nil, err
		}

		if target == nil {
			if err := uc.appointmentRepo.Delete(ctx, a.ID); err != nil {
				uc.logger.Error("LiveUpdateSlot: failed to remove appointment=%d: %v", a.ID, err)
				return nil, nil, fmt.Errorf("%w: failed to remove appointment: %v", ErrInternal, err)
			}
			removed = append(removed, a.ID)
			uc.logger.Warn("LiveUpdateSlot: appointment=%d removed, no slot to move to", a.ID)
			continue
		}

		if err := uc.appointmentRepo.UpdateSlotAndPosition(ctx, a.ID, target.ID, position); err != nil {
			uc.logger.Error("LiveUpdateSlot: failed to move appointment=%d: %v", a.ID, err)
			return nil, nil, fmt.Errorf("%w: failed to move appointment: %v", ErrInternal, err)
		}
		redistributed = append(redistributed, a.ID)
		uc.logger.Info("LiveUpdateSlot: appointment=%d moved to slot=%d position=%d",
			a.ID, target.ID, position)
	}

	return redistributed, removed, nil
}

// pickCandidate возвращает первый слот-кандидат со свободным местом
func (uc *UseCase) pickCandidate(ctx context.Context, candidates []*domain.AvailabilitySlot) (*domain.AvailabilitySlot, int, error) {
	for _, c := range candidates {
		occupancy, err := uc.ledger.Occupancy(ctx, c.ID)
		if err != nil {
			uc.logger.Error("LiveUpdateSlot: candidate occupancy check failed: %v", err)
			return nil, 0, fmt.Errorf("%w: candidate occupancy check failed: %v", ErrInternal, err)
		}
		if c.HasRoom(occupancy) {
			return c, occupancy + 1, nil
		}
	}
	return nil, 0, nil
}
