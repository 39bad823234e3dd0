package bulk_update_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
)

// UseCase use case массового обновления слотов
// Каждая дата обрабатывается независимо: не найденные и начинающиеся
// меньше чем через час слоты пропускаются, остальные обновляются
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

// Execute обновляет группу слотов, адресованных датами или расписанием
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BulkUpdateAvailability: doctor=%d dates=%d day=%q weeks=%d",
		req.DoctorID, len(req.Dates), req.DayOfWeek, req.RepeatWeeks)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BulkUpdateAvailability: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	dates := req.Dates
	if len(dates) == 0 {
		dates = domain.GenerateRepeatDates(req.DayOfWeek, req.RepeatWeeks, req.EndTime, now)
	}

	result := &Response{
		UpdatedSlotIDs: make([]int64, 0, len(dates)),
		Skipped:        make([]SkippedDate, 0),
	}

	// Не найденные и начинающиеся скоро слоты пропускаются,
	// сбой хранилища останавливает обработку
	for _, date := range dates {
		if err := uc.updateOne(ctx, req, date, now, result); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("BulkUpdateAvailability: doctor=%d updated=%d skipped=%d",
		req.DoctorID, len(result.UpdatedSlotIDs), len(result.Skipped))

	return result, nil
}

func (uc *UseCase) updateOne(ctx context.Context, req *Request, date time.Time, now time.Time, result *Response) error {
	slot, err := uc.slotRepo.FindBySlotKey(ctx, req.DoctorID, date, req.StartTime, req.EndTime)
	if err != nil {
		// Отсутствующий на дату слот - не ошибка запроса в целом,
		// сбой хранилища - ошибка
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Info("BulkUpdateAvailability: no slot for doctor=%d date=%s %s-%s",
				req.DoctorID, date.Format(domain.DateFormat), req.StartTime, req.EndTime)
			result.Skipped = append(result.Skipped, SkippedDate{Date: date, Reason: SkipNotFound})
			return nil
		}
		uc.logger.Error("BulkUpdateAvailability: failed to find slot for date=%s: %v",
			date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: failed to find slot: %v", ErrInternal, err)
	}

	// Слоты, начинающиеся меньше чем через час, молча пропускаются
	if !slot.StartAt().After(now.Add(time.Hour)) {
		uc.logger.Info("BulkUpdateAvailability: slot=%d starts at %s, skipped", slot.ID, slot.StartAt())
		result.Skipped = append(result.Skipped, SkippedDate{Date: date, Reason: SkipTooSoon})
		return nil
	}

	err = uc.locker.WithSlotLock(ctx, slot.ID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			return uc.applyUpdate(txCtx, slot, req, result)
		})
	})
	if err != nil {
		if errors.Is(err, slotlock.ErrLockNotAcquired) {
			uc.logger.Warn("BulkUpdateAvailability: slot=%d lock not acquired", slot.ID)
			return ErrSlotBusy
		}
		return err
	}

	result.UpdatedSlotIDs = append(result.UpdatedSlotIDs, slot.ID)
	return nil
}

func (uc *UseCase) applyUpdate(ctx context.Context, slot *domain.AvailabilitySlot, req *Request, result *Response) error {
	if req.BookingStartTime != nil {
		slot.BookingWindowStart = req.BookingStartTime.AtDate(slot.Date)
	}
	if req.BookingEndTime != nil {
		slot.BookingWindowEnd = req.BookingEndTime.AtDate(slot.Date)
	}
	if req.IsFutureAvailable != nil {
		slot.IsFutureAvailable = *req.IsFutureAvailable
	}

	if req.MaxPatients != nil {
		occupancy, err := uc.ledger.Occupancy(ctx, slot.ID)
		if err != nil {
			uc.logger.Error("BulkUpdateAvailability: occupancy check failed: %v", err)
			return fmt.Errorf("%w: occupancy check failed: %v", ErrInternal, err)
		}
		if *req.MaxPatients < occupancy {
			if err := uc.shrinkCapacity(ctx, slot, *req.MaxPatients, result); err != nil {
				return err
			}
		}
		slot.MaxPatients = *req.MaxPatients
	}

	if err := uc.slotRepo.Update(ctx, slot); err != nil {
		uc.logger.Error("BulkUpdateAvailability: failed to update slot=%d: %v", slot.ID, err)
		return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
	}

	return nil
}

// shrinkCapacity вытесняет записи с позициями выше нового лимита:
// перенос в первый подходящий слот врача, при его отсутствии - удаление
func (uc *UseCase) shrinkCapacity(ctx context.Context, slot *domain.AvailabilitySlot, newMax int, result *Response) error {
	booked, err := uc.appointmentRepo.ListBySlotByCreation(ctx, slot.ID, domain.QueueStatuses)
	if err != nil {
		uc.logger.Error("BulkUpdateAvailability: failed to list appointments: %v", err)
		return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	candidates, err := uc.slotRepo.ListRedistributionCandidates(ctx, slot.DoctorID, slot.Date, slot.EndTime)
	if err != nil {
		uc.logger.Error("BulkUpdateAvailability: failed to list candidates: %v", err)
		return fmt.Errorf("%w: failed to list candidates: %v", ErrInternal, err)
	}

	for _, a := range booked {
		if a.QueuePosition <= newMax {
			continue
		}

		target, position, err := uc.pickCandidate(ctx, candidates)
		if err != nil {
			return err
		}

		if target == nil {
			if err := uc.appointmentRepo.Delete(ctx, a.ID); err != nil {
				uc.logger.Error("BulkUpdateAvailability: failed to remove appointment=%d: %v", a.ID, err)
				return fmt.Errorf("%w: failed to remove appointment: %v", ErrInternal, err)
			}
			result.RemovedAppointmentIDs = append(result.RemovedAppointmentIDs, a.ID)
			uc.logger.Warn("BulkUpdateAvailability: appointment=%d removed, no slot to move to", a.ID)
			continue
		}

		if err := uc.appointmentRepo.UpdateSlotAndPosition(ctx, a.ID, target.ID, position); err != nil {
			uc.logger.Error("BulkUpdateAvailability: failed to move appointment=%d: %v", a.ID, err)
			return fmt.Errorf("%w: failed to move appointment: %v", ErrInternal, err)
		}
		result.RedistributedAppointmentIDs = append(result.RedistributedAppointmentIDs, a.ID)
		uc.logger.Info("BulkUpdateAvailability: appointment=%d moved to slot=%d position=%d",
			a.ID, target.ID, position)
	}

	return nil
}

// pickCandidate возвращает первый слот-кандидат со свободным местом
func (uc *UseCase) pickCandidate(ctx context.Context, candidates []*domain.AvailabilitySlot) (*domain.AvailabilitySlot, int, error) {
	for _, c := range candidates {
		occupancy, err := uc.ledger.Occupancy(ctx, c.ID)
		if err != nil {
			uc.logger.Error("BulkUpdateAvailability: candidate occupancy check failed: %v", err)
			return nil, 0, fmt.Errorf("%w: candidate occupancy check failed: %v", ErrInternal, err)
		}
		if c.HasRoom(occupancy) {
			return c, occupancy + 1, nil
		}
	}
	return nil, 0, nil
}
