package update_appointment_status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
)

// UseCase use case смены статуса записи на прием
// Пациент может отменить или перенести свою запись, врач - завершить
// или отменить запись своего слота. Все проверки выполняются до первой
// мутации: запрос либо проходит целиком, либо не меняет ничего
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

// ExecutePatient отменяет или переносит запись по запросу пациента
// Обе операции запрещены меньше чем за час до начала слота
func (uc *UseCase) ExecutePatient(ctx context.Context, req *PatientRequest) (*Response, error) {
	uc.logger.Info("UpdateAppointmentStatus: patient=%d appointment=%d status=%s",
		req.PatientID, req.AppointmentID, req.Status)

	if err := validatePatientRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointmentStatus: validation failed: %v", err)
		return nil, err
	}

	target, ok := domain.ToAppointmentStatus(req.Status)
	if !ok || (target != domain.StatusCancelled && target != domain.StatusRescheduled) {
		uc.logger.Warn("UpdateAppointmentStatus: patient status %q not allowed", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	appointment, err := uc.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != req.PatientID {
		uc.logger.Warn("UpdateAppointmentStatus: appointment=%d owned by patient=%d, requested by %d",
			appointment.ID, appointment.PatientID, req.PatientID)
		return nil, ErrForbidden
	}

	var result *Response

	err = uc.withSlotTx(ctx, appointment.SlotID, func(txCtx context.Context) error {
		result, err = uc.release(txCtx, req.AppointmentID, req.PatientID, target, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	// При переносе пациент сразу получает варианты для новой записи
	if target == domain.StatusRescheduled {
		options, err := uc.listAvailableSlots(ctx, appointment.DoctorID)
		if err != nil {
			return nil, err
		}
		result.AvailableSlots = options
	}

	uc.logger.Info("UpdateAppointmentStatus: appointment=%d -> %s", req.AppointmentID, target)

	return result, nil
}

// ExecuteDoctor завершает или отменяет запись по запросу врача
// Ограничение по времени на врача не распространяется
func (uc *UseCase) ExecuteDoctor(ctx context.Context, req *DoctorRequest) (*Response, error) {
	uc.logger.Info("UpdateAppointmentStatus: doctor=%d appointment=%d status=%s",
		req.DoctorID, req.AppointmentID, req.Status)

	if err := validateDoctorRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointmentStatus: validation failed: %v", err)
		return nil, err
	}

	target, ok := domain.ToAppointmentStatus(req.Status)
	if !ok || (target != domain.StatusCompleted && target != domain.StatusCancelled) {
		uc.logger.Warn("UpdateAppointmentStatus: doctor status %q not allowed", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	appointment, err := uc.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != req.DoctorID {
		uc.logger.Warn("UpdateAppointmentStatus: appointment=%d owned by doctor=%d, requested by %d",
			appointment.ID, appointment.DoctorID, req.DoctorID)
		return nil, ErrForbidden
	}

	var result *Response

	err = uc.withSlotTx(ctx, appointment.SlotID, func(txCtx context.Context) error {
		if target == domain.StatusCompleted {
			result, err = uc.complete(txCtx, req.AppointmentID)
		} else {
			// Отмена врачом не ограничена часом до начала
			result, err = uc.releaseByDoctor(txCtx, req.AppointmentID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateAppointmentStatus: appointment=%d -> %s", req.AppointmentID, target)

	return result, nil
}

// release отменяет/переносит запись пациента: проверки статуса и временного
// окна, смена статуса, уплотнение очереди
func (uc *UseCase) release(ctx context.Context, appointmentID, patientID int64, target domain.AppointmentStatus, enforceGuard bool) (*Response, error) {
	// Перечитываем запись внутри транзакции: конкурентный запрос мог
	// успеть изменить статус между пре-чтением и захватом блокировки
	appointment, err := uc.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, ErrForbidden
	}
	if !appointment.IsBooked() {
		uc.logger.Warn("UpdateAppointmentStatus: appointment=%d is %s, not booked",
			appointment.ID, appointment.Status)
		return nil, ErrNotActive
	}

	slot, err := uc.slotRepo.GetByID(ctx, appointment.SlotID)
	if err != nil {
		uc.logger.Error("UpdateAppointmentStatus: failed to get slot id=%d: %v", appointment.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	if enforceGuard {
		now := uc.timeProvider.Now()
		if slot.StartAt().Sub(now) < domain.CancelGuard {
			uc.logger.Warn("UpdateAppointmentStatus: appointment=%d slot starts at %s, too late",
				appointment.ID, slot.StartAt())
			return nil, ErrTooLate
		}
	}

	if err := uc.appointmentRepo.UpdateStatus(ctx, appointment.ID, target); err != nil {
		uc.logger.Error("UpdateAppointmentStatus: failed to update status: %v", err)
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}

	if err := uc.ledger.Compact(ctx, appointment.SlotID, appointment.QueuePosition); err != nil {
		uc.logger.Error("UpdateAppointmentStatus: failed to compact queue: %v", err)
		return nil, fmt.Errorf("%w: failed to compact queue: %v", ErrInternal, err)
	}

	return buildResponse(appointment, target, uc.timeProvider.Now()), nil
}

// releaseByDoctor отменяет запись по инициативе врача: без временного окна,
// с уплотнением очереди
func (uc *UseCase) releaseByDoctor(ctx context.Context, appointmentID int64) (*Response, error) {
	appointment, err := uc.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsBooked() {
		return nil, ErrNotActive
	}

	if err := uc.appointmentRepo.UpdateStatus(ctx, appointment.ID, domain.StatusCancelled); err != nil {
		uc.logger.Error("UpdateAppointmentStatus: failed to update status: %v", err)
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}

	if err := uc.ledger.Compact(ctx, appointment.SlotID, appointment.QueuePosition); err != nil {
		uc.logger.Error("UpdateAppointmentStatus: failed to compact queue: %v", err)
		return nil, fmt.Errorf("%w: failed to compact queue: %v", ErrInternal, err)
	}

	return buildResponse(appointment, domain.StatusCancelled, uc.timeProvider.Now()), nil
}

// complete помечает запись завершенной
// Завершенная запись сохраняет позицию и продолжает занимать место в слоте,
// поэтому очередь не уплотняется
func (uc *UseCase) complete(ctx context.Context, appointmentID int64) (*Response, error) {
	appointment, err := uc.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.IsBooked() {
		return nil, ErrNotActive
	}

	if err := uc.appointmentRepo.UpdateStatus(ctx, appointment.ID, domain.StatusCompleted); err != nil {
		uc.logger.Error("UpdateAppointmentStatus: failed to update status: %v", err)
		return nil, fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}

	return buildResponse(appointment, domain.StatusCompleted, uc.timeProvider.Now()), nil
}

// listAvailableSlots возвращает будущие слоты врача со свободными местами
func (uc *UseCase) listAvailableSlots(ctx context.Context, doctorID int64) ([]SlotOption, error) {
	now := uc.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	slots, err := uc.slotRepo.ListByDoctorFromDate(ctx, doctorID, today)
	if err != nil {
		uc.logger.Error("UpdateAppointmentStatus: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	options := make([]SlotOption, 0, len(slots))
	for _, s := range slots {
		if s.IsDisabled() || !s.StartAt().After(now) {
			continue
		}

		occupancy, err := uc.ledger.Occupancy(ctx, s.ID)
		if err != nil {
			uc.logger.Error("UpdateAppointmentStatus: occupancy check failed: %v", err)
			return nil, fmt.Errorf("%w: occupancy check failed: %v", ErrInternal, err)
		}
		if !s.HasRoom(occupancy) {
			continue
		}

		options = append(options, SlotOption{
			ID:             s.ID,
			Date:           s.Date,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.MaxPatients - occupancy,
		})
	}

	return options, nil
}

// getAppointment загружает запись, различая отсутствие и сбой хранилища
func (uc *UseCase) getAppointment(ctx context.Context, appointmentID int64) (*domain.Appointment, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("UpdateAppointmentStatus: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("UpdateAppointmentStatus: failed to get appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return appointment, nil
}

func (uc *UseCase) withSlotTx(ctx context.Context, slotID int64, fn func(ctx context.Context) error) error {
	err := uc.locker.WithSlotLock(ctx, slotID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, fn)
	})
	if err != nil {
		if errors.Is(err, slotlock.ErrLockNotAcquired) {
			uc.logger.Warn("UpdateAppointmentStatus: slot=%d lock not acquired", slotID)
			return ErrSlotBusy
		}
		return err
	}
	return nil
}
