package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
	profileClient "github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
)

// UseCase use case бронирования записи на прием
// Последовательность "проверка занятости - назначение позиции" выполняется
// под блокировкой слота и в сериализуемой транзакции: два конкурентных
// бронирования не могут получить одну и ту же позицию
type UseCase struct {
	slotRepo        SlotRepository
	appointmentRepo AppointmentRepository
	ledger          QueueLedger
	profileClient   ProfileServiceClient
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
	profileClient ProfileServiceClient,
	locker SlotLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		ledger:          ledger,
		profileClient:   profileClient,
		locker:          locker,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute бронирует место в слоте или, при заполненном слоте с разрешенным
// переливом, в ближайшем будущем слоте врача
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: slot=%d, patient=%d", req.SlotID, req.PatientID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// Проверяем существование пациента до захвата блокировки
	if _, err := uc.profileClient.GetPatient(ctx, req.PatientID); err != nil {
		if errors.Is(err, profileClient.ErrPatientNotFound) {
			uc.logger.Warn("BookAppointment: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("BookAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	var result *Response

	err := uc.locker.WithSlotLock(ctx, req.SlotID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			var err error
			result, err = uc.book(txCtx, req)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, slotlock.ErrLockNotAcquired) {
			uc.logger.Warn("BookAppointment: slot=%d lock not acquired", req.SlotID)
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	uc.logger.Info("BookAppointment: created appointment id=%d slot=%d position=%d fallback=%t",
		result.ID, result.SlotID, result.QueuePosition, result.FallbackUsed)

	return result, nil
}

func (uc *UseCase) book(ctx context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()

	// 1. Загружаем выбранный слот (в транзакции - с блокировкой строки)
	selected, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("BookAppointment: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("BookAppointment: failed to get slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	// 2. Текущее время должно попадать в окно бронирования
	if !selected.IsBookingOpen(now) {
		uc.logger.Warn("BookAppointment: booking closed for slot=%d (window %s - %s)",
			selected.ID, selected.BookingWindowStart, selected.BookingWindowEnd)
		return nil, ErrBookingClosed
	}

	// 3. Повторное бронирование того же слота запрещено
	exists, err := uc.appointmentRepo.ExistsForPatientAndSlot(ctx, req.PatientID, selected.ID, domain.CapacityStatuses)
	if err != nil {
		uc.logger.Error("BookAppointment: duplicate check failed: %v", err)
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrInternal, err)
	}
	if exists {
		uc.logger.Warn("BookAppointment: patient=%d already booked slot=%d", req.PatientID, selected.ID)
		return nil, ErrAlreadyBooked
	}

	// 4. Есть место - бронируем выбранный слот
	occupancy, err := uc.ledger.Occupancy(ctx, selected.ID)
	if err != nil {
		uc.logger.Error("BookAppointment: occupancy check failed: %v", err)
		return nil, fmt.Errorf("%w: occupancy check failed: %v", ErrInternal, err)
	}

	if selected.HasRoom(occupancy) {
		return uc.createAppointment(ctx, req, selected, occupancy+1, false)
	}

	// 5. Слот заполнен и перелив запрещен
	if !selected.IsFutureAvailable {
		uc.logger.Warn("BookAppointment: slot=%d full, future booking not allowed", selected.ID)
		return nil, ErrSlotFull
	}

	// 6. Ищем fallback-слот
	fallback, position, err := uc.findFallbackSlot(ctx, selected)
	if err != nil {
		return nil, err
	}
	if fallback == nil {
		uc.logger.Warn("BookAppointment: no future slot for doctor=%d from date=%s",
			selected.DoctorID, selected.Date.Format(domain.DateFormat))
		return nil, ErrNoFutureSlot
	}

	return uc.createAppointment(ctx, req, fallback, position, true)
}

// findFallbackSlot ищет первый слот врача с date >= даты выбранного слота
// (порядок date, start_time) со свободным местом
//
// Поиск останавливается на первом заполненном слоте с isFutureAvailable=false,
// даже если за ним есть слоты со свободными местами. Это намеренно
// сохраненное поведение границы поиска, а не ошибка.
func (uc *UseCase) findFallbackSlot(ctx context.Context, selected *domain.AvailabilitySlot) (*domain.AvailabilitySlot, int, error) {
	candidates, err := uc.slotRepo.ListByDoctorFromDate(ctx, selected.DoctorID, selected.Date)
	if err != nil {
		uc.logger.Error("BookAppointment: fallback search failed: %v", err)
		return nil, 0, fmt.Errorf("%w: fallback search failed: %v", ErrInternal, err)
	}

	for _, candidate := range candidates {
		occupancy, err := uc.ledger.Occupancy(ctx, candidate.ID)
		if err != nil {
			uc.logger.Error("BookAppointment: fallback occupancy check failed: %v", err)
			return nil, 0, fmt.Errorf("%w: fallback occupancy check failed: %v", ErrInternal, err)
		}

		if candidate.HasRoom(occupancy) {
			return candidate, occupancy + 1, nil
		}

		if !candidate.IsFutureAvailable {
			// Граница поиска: дальше не смотрим
			break
		}
	}

	return nil, 0, nil
}

func (uc *UseCase) createAppointment(ctx context.Context, req *Request, slot *domain.AvailabilitySlot, position int, fallbackUsed bool) (*Response, error) {
	appointment := &domain.Appointment{
		DoctorID:      slot.DoctorID,
		PatientID:     req.PatientID,
		SlotID:        slot.ID,
		QueuePosition: position,
		Status:        domain.StatusBooked,
		Notes:         req.Notes,
	}

	created, err := uc.appointmentRepo.Create(ctx, appointment)
	if err != nil {
		uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	return buildResponse(created, slot, fallbackUsed), nil
}
