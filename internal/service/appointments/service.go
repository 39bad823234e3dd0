package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	profileClient "github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ClinicService/internal/service/appointments/models"
)

// Service сервис чтения записей на прием
type Service struct {
	appointmentRepo AppointmentRepository
	slotRepo        SlotRepository
	profileClient   ProfileServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	slotRepo SlotRepository,
	profileClient ProfileServiceClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		profileClient:   profileClient,
		timeProvider:    &realTimeProvider{},
		logger:          logger,
	}
}

// GetByPatient получает активные записи пациента с прогнозом времени приема,
// упорядоченные по дате и времени слота
func (s *Service) GetByPatient(ctx context.Context, patientID int64) (*models.PatientAppointmentList, error) {
	s.logger.Info("GetByPatient: fetching appointments for patient=%d", patientID)

	if _, err := s.profileClient.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, profileClient.ErrPatientNotFound) {
			s.logger.Warn("GetByPatient: patient id=%d not found", patientID)
			return nil, ErrPatientNotFound
		}
		s.logger.Error("GetByPatient: failed to get patient id=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetByPatient - failed to get patient: %v", ErrInternal, err)
	}

	appointments, err := s.appointmentRepo.ListByPatientAndStatus(ctx, patientID, domain.StatusBooked)
	if err != nil {
		s.logger.Error("GetByPatient: repository error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetByPatient - repository error: %v", ErrInternal, err)
	}

	result := &models.PatientAppointmentList{
		Appointments: make([]models.PatientAppointment, 0, len(appointments)),
	}

	for _, a := range appointments {
		slot, err := s.slotRepo.GetByID(ctx, a.SlotID)
		if err != nil {
			s.logger.Error("GetByPatient: failed to get slot id=%d: %v", a.SlotID, err)
			return nil, fmt.Errorf("%w: GetByPatient - failed to get slot: %v", ErrInternal, err)
		}
		result.Appointments = append(result.Appointments, models.FromDomainPatientAppointment(a, slot))
	}

	s.logger.Info("GetByPatient: fetched %d appointment(s) for patient=%d", len(result.Appointments), patientID)
	return result, nil
}

// GetByDoctor получает предстоящие записи врача, сгруппированные по слотам
// Прошедшие слоты отфильтровываются
func (s *Service) GetByDoctor(ctx context.Context, doctorID int64) (*models.DoctorScheduleList, error) {
	s.logger.Info("GetByDoctor: fetching appointments for doctor=%d", doctorID)

	if _, err := s.profileClient.GetDoctor(ctx, doctorID); err != nil {
		if errors.Is(err, profileClient.ErrDoctorNotFound) {
			s.logger.Warn("GetByDoctor: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("GetByDoctor: failed to get doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetByDoctor - failed to get doctor: %v", ErrInternal, err)
	}

	appointments, err := s.appointmentRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error("GetByDoctor: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetByDoctor - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	// Группируем по слотам, сохраняя порядок (date, start_time) из выборки
	result := &models.DoctorScheduleList{Slots: make([]models.DoctorSlotGroup, 0)}
	groupIndex := make(map[int64]int)

	for _, a := range appointments {
		idx, seen := groupIndex[a.SlotID]
		if !seen {
			slot, err := s.slotRepo.GetByID(ctx, a.SlotID)
			if err != nil {
				s.logger.Error("GetByDoctor: failed to get slot id=%d: %v", a.SlotID, err)
				return nil, fmt.Errorf("%w: GetByDoctor - failed to get slot: %v", ErrInternal, err)
			}

			// Прошедшие и отключенные слоты не попадают в расписание
			if slot.IsDisabled() || slot.EndAt().Before(now) {
				groupIndex[a.SlotID] = -1
				continue
			}

			result.Slots = append(result.Slots, models.DoctorSlotGroup{
				SlotID:       slot.ID,
				Date:         slot.Date,
				StartTime:    slot.StartTime,
				EndTime:      slot.EndTime,
				MaxPatients:  slot.MaxPatients,
				Appointments: make([]models.DoctorAppointment, 0, 1),
			})
			idx = len(result.Slots) - 1
			groupIndex[a.SlotID] = idx
		}
		if idx < 0 {
			continue
		}

		result.Slots[idx].Appointments = append(result.Slots[idx].Appointments, models.FromDomainDoctorAppointment(a))
	}

	s.logger.Info("GetByDoctor: fetched %d upcoming slot(s) for doctor=%d", len(result.Slots), doctorID)
	return result, nil
}

type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}
