package create_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	profileClient "github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// UseCase use case создания повторяющихся слотов доступности
type UseCase struct {
	slotRepo      SlotRepository
	profileClient ProfileServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slotRepo,
		profileClient: profileClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute создает слоты по повторяющемуся расписанию
// Даты с пересечениями молча пропускаются: вызывающий код получает
// выжившее подмножество (пустой список = ничего не создано)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAvailability: doctor=%d, day=%s, weeks=%d, time=%s-%s",
		req.DoctorID, req.DayOfWeek, req.RepeatWeeks, req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование врача
	if _, err := uc.profileClient.GetDoctor(ctx, req.DoctorID); err != nil {
		if errors.Is(err, profileClient.ErrDoctorNotFound) {
			uc.logger.Warn("CreateAvailability: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("CreateAvailability: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 3. Генерируем даты повторения
	repeatWeeks := req.RepeatWeeks
	if repeatWeeks == 0 {
		repeatWeeks = domain.DefaultRepeatWeeks
	}

	now := uc.timeProvider.Now()
	dates := domain.GenerateRepeatDates(req.DayOfWeek, repeatWeeks, req.EndTime, now)

	created := make([]SlotResult, 0, len(dates))

	// 4. Создаем непересекающиеся слоты в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, date := range dates {
			overlap, err := uc.hasOverlap(txCtx, req.DoctorID, date, req.StartTime, req.EndTime)
			if err != nil {
				return err
			}
			if overlap {
				// Пересекающийся кандидат просто выпадает из результата
				uc.logger.Info("CreateAvailability: skipping overlapping slot doctor=%d date=%s",
					req.DoctorID, date.Format(domain.DateFormat))
				continue
			}

			slot := uc.buildSlot(req, date)
			saved, err := uc.slotRepo.Create(txCtx, slot)
			if err != nil {
				uc.logger.Error("CreateAvailability: failed to create slot: %v", err)
				return fmt.Errorf("%w: failed to create slot: %v", ErrInternal, err)
			}

			created = append(created, fromDomainSlot(saved))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAvailability: created %d of %d slot(s) for doctor=%d",
		len(created), len(dates), req.DoctorID)

	return &Response{Slots: created}, nil
}

// hasOverlap проверяет пересечение кандидата с существующими слотами
// врача на дату (полуоткрытые интервалы: касание границ - не пересечение)
func (uc *UseCase) hasOverlap(ctx context.Context, doctorID int64, date time.Time, start, end types.TimeString) (bool, error) {
	existing, err := uc.slotRepo.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		uc.logger.Error("CreateAvailability: failed to list slots: %v", err)
		return false, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	for _, s := range existing {
		if s.Overlaps(start, end) {
			return true, nil
		}
	}

	return false, nil
}

func (uc *UseCase) buildSlot(req *Request, date time.Time) *domain.AvailabilitySlot {
	maxPatients := domain.DefaultMaxPatients
	if req.MaxPatients != nil {
		maxPatients = *req.MaxPatients
	}

	isFutureAvailable := false
	if req.IsFutureAvailable != nil {
		isFutureAvailable = *req.IsFutureAvailable
	}

	// Окно бронирования по умолчанию совпадает с границами слота
	bookingStart := req.StartTime
	if req.BookingStartTime != nil {
		bookingStart = *req.BookingStartTime
	}
	bookingEnd := req.EndTime
	if req.BookingEndTime != nil {
		bookingEnd = *req.BookingEndTime
	}

	return &domain.AvailabilitySlot{
		DoctorID:           req.DoctorID,
		Date:               date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		MaxPatients:        maxPatients,
		BookingWindowStart: bookingStart.AtDate(date),
		BookingWindowEnd:   bookingEnd.AtDate(date),
		IsFutureAvailable:  isFutureAvailable,
	}
}
