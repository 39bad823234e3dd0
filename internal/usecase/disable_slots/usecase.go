package disable_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
)

// UseCase use case отключения слотов
// Слот никогда не удаляется физически: он переводится в отключенное
// состояние, а его активные записи отменяются. Слот с активной записью
// меньше чем за два часа до начала отключить нельзя
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	locker          SlotLocker
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	appointmentRepo AppointmentRepository,
	locker SlotLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		locker:          locker,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// ExecuteSingle отключает один слот
// Для единственного слота отклонение не частичное: ErrSlotBlocked
func (uc *UseCase) ExecuteSingle(ctx context.Context, req *SingleRequest) (*Response, error) {
	uc.logger.Info("DisableSlots: slot=%d doctor=%d", req.SlotID, req.DoctorID)

	if req.SlotID <= 0 || req.DoctorID <= 0 {
		return nil, fmt.Errorf("%w: slotId and doctorId must be positive", ErrInvalidInput)
	}

	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("DisableSlots: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("DisableSlots: failed to get slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	if slot.DoctorID != req.DoctorID {
		uc.logger.Warn("DisableSlots: slot=%d owned by doctor=%d, requested by %d",
			slot.ID, slot.DoctorID, req.DoctorID)
		return nil, ErrForbidden
	}

	result := &Response{}
	if err := uc.disableOne(ctx, slot, result); err != nil {
		return nil, err
	}
	if len(result.BlockedSlotIDs) > 0 {
		return nil, ErrSlotBlocked
	}

	uc.logger.Info("DisableSlots: slot=%d disabled, cancelled=%d",
		req.SlotID, len(result.CancelledAppointmentIDs))

	return result, nil
}

// ExecuteByDate отключает все слоты врача на дату
// Частичный успех: заблокированные слоты перечисляются в BlockedSlotIDs
func (uc *UseCase) ExecuteByDate(ctx context.Context, req *ByDateRequest) (*Response, error) {
	uc.logger.Info("DisableSlots: doctor=%d date=%s", req.DoctorID, req.Date.Format(domain.DateFormat))

	if req.DoctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	slots, err := uc.slotRepo.ListByDoctorAndDate(ctx, req.DoctorID, req.Date)
	if err != nil {
		uc.logger.Error("DisableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	return uc.disableMany(ctx, req.DoctorID, slots)
}

// ExecuteAll отключает все слоты врача
// Частичный успех: заблокированные слоты перечисляются в BlockedSlotIDs
func (uc *UseCase) ExecuteAll(ctx context.Context, req *AllRequest) (*Response, error) {
	uc.logger.Info("DisableSlots: doctor=%d all slots", req.DoctorID)

	if req.DoctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	slots, err := uc.slotRepo.ListByDoctor(ctx, req.DoctorID)
	if err != nil {
		uc.logger.Error("DisableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	return uc.disableMany(ctx, req.DoctorID, slots)
}

func (uc *UseCase) disableMany(ctx context.Context, doctorID int64, slots []*domain.AvailabilitySlot) (*Response, error) {
	result := &Response{}

	// Каждый слот обрабатывается независимо: заблокированный слот не
	// прерывает остальные
	for _, slot := range slots {
		if slot.IsDisabled() {
			continue
		}
		if err := uc.disableOne(ctx, slot, result); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("DisableSlots: doctor=%d disabled=%d blocked=%d cancelled=%d",
		doctorID, len(result.DisabledSlotIDs), len(result.BlockedSlotIDs),
		len(result.CancelledAppointmentIDs))

	return result, nil
}

// disableOne отключает один слот под его блокировкой
// Слот с активной записью и стартом меньше чем через DisableGuard
// попадает в BlockedSlotIDs и не меняется
func (uc *UseCase) disableOne(ctx context.Context, slot *domain.AvailabilitySlot, result *Response) error {
	err := uc.locker.WithSlotLock(ctx, slot.ID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			return uc.disableTx(txCtx, slot.ID, result)
		})
	})
	if err != nil {
		if errors.Is(err, slotlock.ErrLockNotAcquired) {
			uc.logger.Warn("DisableSlots: slot=%d lock not acquired", slot.ID)
			return ErrSlotBusy
		}
		return err
	}
	return nil
}

func (uc *UseCase) disableTx(ctx context.Context, slotID int64, result *Response) error {
	// Перечитываем слот внутри транзакции (FOR UPDATE)
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		uc.logger.Error("DisableSlots: failed to get slot=%d: %v", slotID, err)
		return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}
	if slot.IsDisabled() {
		return nil
	}

	booked, err := uc.appointmentRepo.ListBySlot(ctx, slot.ID, domain.QueueStatuses)
	if err != nil {
		uc.logger.Error("DisableSlots: failed to list appointments: %v", err)
		return fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	if len(booked) > 0 {
		now := uc.timeProvider.Now()
		if slot.StartAt().Sub(now) <= domain.DisableGuard {
			uc.logger.Warn("DisableSlots: slot=%d starts at %s with %d booking(s), blocked",
				slot.ID, slot.StartAt(), len(booked))
			result.BlockedSlotIDs = append(result.BlockedSlotIDs, slot.ID)
			return nil
		}

		for _, a := range booked {
			if err := uc.appointmentRepo.UpdateStatus(ctx, a.ID, domain.StatusCancelled); err != nil {
				uc.logger.Error("DisableSlots: failed to cancel appointment=%d: %v", a.ID, err)
				return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
			}
			result.CancelledAppointmentIDs = append(result.CancelledAppointmentIDs, a.ID)
		}
	}

	slot.Disable()
	if err := uc.slotRepo.Update(ctx, slot); err != nil {
		uc.logger.Error("DisableSlots: failed to update slot=%d: %v", slot.ID, err)
		return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
	}

	result.DisabledSlotIDs = append(result.DisabledSlotIDs, slot.ID)
	uc.logger.Info("DisableSlots: slot=%d disabled", slot.ID)

	return nil
}
