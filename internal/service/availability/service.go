package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	profileClient "github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ClinicService/internal/service/availability/models"
)

// Service сервис чтения доступности врача
type Service struct {
	slotRepo      SlotRepository
	ledger        QueueLedger
	profileClient ProfileServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	slotRepo SlotRepository,
	ledger QueueLedger,
	profileClient ProfileServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:      slotRepo,
		ledger:        ledger,
		profileClient: profileClient,
		txManager:     txManager,
		timeProvider:  &realTimeProvider{},
		logger:        logger,
	}
}

// GetDoctorAvailability получает слоты врача начиная с сегодняшнего дня
// со счетчиками занятости; возвращаются только слоты со свободными местами
func (s *Service) GetDoctorAvailability(ctx context.Context, doctorID int64) (*models.DoctorAvailability, error) {
	s.logger.Info("GetDoctorAvailability: fetching slots for doctor=%d", doctorID)

	if _, err := s.profileClient.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, profileClient.ErrDoctorNotFound) {
			s.logger.Warn("GetDoctorAvailability: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("GetDoctorAvailability: failed to get doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAvailability - failed to get doctor: %v", ErrInternal, err)
	}

	result := &models.DoctorAvailability{
		DoctorID: doctorID,
		Slots:    make([]models.AvailableSlot, 0),
	}

	// Срез слотов и их занятости читаем в одной read-only транзакции,
	// чтобы счетчики соответствовали одному снимку данных
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		now := s.timeProvider.Now()
		today := domain.DateOnly(now)

		slots, err := s.slotRepo.ListByDoctorFromDate(txCtx, doctorID, today)
		if err != nil {
			s.logger.Error("GetDoctorAvailability: repository error for doctor=%d: %v", doctorID, err)
			return fmt.Errorf("%w: GetDoctorAvailability - repository error: %v", ErrInternal, err)
		}

		for _, slot := range slots {
			if slot.IsDisabled() || slot.EndAt().Before(now) {
				continue
			}

			occupancy, err := s.ledger.Occupancy(txCtx, slot.ID)
			if err != nil {
				s.logger.Error("GetDoctorAvailability: occupancy check failed for slot=%d: %v", slot.ID, err)
				return fmt.Errorf("%w: GetDoctorAvailability - occupancy check failed: %v", ErrInternal, err)
			}
			if !slot.HasRoom(occupancy) {
				continue
			}

			result.Slots = append(result.Slots, models.FromDomainSlot(slot, occupancy))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetDoctorAvailability: %d available slot(s) for doctor=%d", len(result.Slots), doctorID)
	return result, nil
}

type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}
