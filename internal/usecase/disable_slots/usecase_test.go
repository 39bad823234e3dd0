package disable_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

var testNow = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

type fakeSlotRepo struct {
	slots   []*domain.AvailabilitySlot
	failGet error
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.AvailabilitySlot, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	for _, s := range f.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (f *fakeSlotRepo) ListByDoctorAndDate(_ context.Context, doctorID int64, date time.Time) ([]*domain.AvailabilitySlot, error) {
	result := make([]*domain.AvailabilitySlot, 0)
	for _, s := range f.slots {
		if s.DoctorID == doctorID && s.Date.Equal(date) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSlotRepo) ListByDoctor(_ context.Context, doctorID int64) ([]*domain.AvailabilitySlot, error) {
	result := make([]*domain.AvailabilitySlot, 0)
	for _, s := range f.slots {
		if s.DoctorID == doctorID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeSlotRepo) Update(_ context.Context, _ *domain.AvailabilitySlot) error {
	return nil
}

type fakeAppointmentRepo struct {
	bySlot    map[int64][]*domain.Appointment
	cancelled []int64
}

func (f *fakeAppointmentRepo) ListBySlot(_ context.Context, slotID int64, _ []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return f.bySlot[slotID], nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, _ domain.AppointmentStatus) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakeLocker struct {
	busy bool
}

func (f *fakeLocker) WithSlotLock(ctx context.Context, _ int64, fn func(ctx context.Context) error) error {
	if f.busy {
		return slotlock.ErrLockNotAcquired
	}
	return fn(ctx)
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func slotAt(id int64, date time.Time, start types.TimeString) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:          id,
		DoctorID:    10,
		Date:        date,
		StartTime:   start,
		EndTime:     "18:00:00",
		MaxPatients: 3,
	}
}

func newTestUseCase(slots *fakeSlotRepo, appointments *fakeAppointmentRepo, locker *fakeLocker) *UseCase {
	uc := NewUseCase(slots, appointments, locker, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func TestExecuteSingle_DisablesAndCancels(t *testing.T) {
	tomorrow := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slot := slotAt(1, tomorrow, "10:00:00")

	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{slot}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{
		1: {
			{ID: 21, SlotID: 1, QueuePosition: 1, Status: domain.StatusBooked},
			{ID: 22, SlotID: 1, QueuePosition: 2, Status: domain.StatusBooked},
		},
	}}

	uc := newTestUseCase(slots, appointments, &fakeLocker{})

	resp, err := uc.ExecuteSingle(context.Background(), &SingleRequest{SlotID: 1, DoctorID: 10})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, resp.DisabledSlotIDs)
	assert.Equal(t, []int64{21, 22}, resp.CancelledAppointmentIDs)
	assert.Equal(t, []int64{21, 22}, appointments.cancelled)

	// Слот переведен в отключенное состояние, не удален
	assert.True(t, slot.IsDisabled())
}

func TestExecuteSingle_BlockedCloseToStart(t *testing.T) {
	today := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	slot := slotAt(1, today, "10:30:00") // через полтора часа

	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{slot}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{
		1: {{ID: 21, SlotID: 1, QueuePosition: 1, Status: domain.StatusBooked}},
	}}

	uc := newTestUseCase(slots, appointments, &fakeLocker{})

	_, err := uc.ExecuteSingle(context.Background(), &SingleRequest{SlotID: 1, DoctorID: 10})
	require.ErrorIs(t, err, ErrSlotBlocked)
	assert.False(t, slot.IsDisabled())
	assert.Empty(t, appointments.cancelled)
}

func TestExecuteSingle_EmptySlotDisablesCloseToStart(t *testing.T) {
	today := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	slot := slotAt(1, today, "10:30:00")

	// Без активных записей двухчасовое ограничение не действует
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{slot}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}}

	uc := newTestUseCase(slots, appointments, &fakeLocker{})

	resp, err := uc.ExecuteSingle(context.Background(), &SingleRequest{SlotID: 1, DoctorID: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, resp.DisabledSlotIDs)
	assert.True(t, slot.IsDisabled())
}

func TestExecuteSingle_ForeignSlot(t *testing.T) {
	slot := slotAt(1, time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC), "10:00:00")
	uc := newTestUseCase(
		&fakeSlotRepo{slots: []*domain.AvailabilitySlot{slot}},
		&fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}},
		&fakeLocker{},
	)

	_, err := uc.ExecuteSingle(context.Background(), &SingleRequest{SlotID: 1, DoctorID: 20})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestExecuteByDate_PartialResult(t *testing.T) {
	today := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	// Утренний слот заблокирован активной записью, вечерний отключается
	morning := slotAt(1, today, "10:30:00")
	evening := slotAt(2, today, "16:00:00")

	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{morning, evening}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{
		1: {{ID: 21, SlotID: 1, QueuePosition: 1, Status: domain.StatusBooked}},
		2: {{ID: 22, SlotID: 2, QueuePosition: 1, Status: domain.StatusBooked}},
	}}

	uc := newTestUseCase(slots, appointments, &fakeLocker{})

	resp, err := uc.ExecuteByDate(context.Background(), &ByDateRequest{DoctorID: 10, Date: today})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, resp.DisabledSlotIDs)
	assert.Equal(t, []int64{1}, resp.BlockedSlotIDs)
	assert.Equal(t, []int64{22}, resp.CancelledAppointmentIDs)
	assert.False(t, morning.IsDisabled())
	assert.True(t, evening.IsDisabled())
}

func TestExecuteAll_SkipsAlreadyDisabled(t *testing.T) {
	tomorrow := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)

	active := slotAt(1, tomorrow, "10:00:00")
	alreadyDisabled := slotAt(2, tomorrow, "14:00:00")
	alreadyDisabled.Disable()

	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{active, alreadyDisabled}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}}

	uc := newTestUseCase(slots, appointments, &fakeLocker{})

	resp, err := uc.ExecuteAll(context.Background(), &AllRequest{DoctorID: 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, resp.DisabledSlotIDs)
}

func TestExecuteSingle_SlotNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeSlotRepo{},
		&fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}},
		&fakeLocker{},
	)

	_, err := uc.ExecuteSingle(context.Background(), &SingleRequest{SlotID: 99, DoctorID: 10})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecuteSingle_StorageFailure(t *testing.T) {
	uc := newTestUseCase(
		&fakeSlotRepo{failGet: assert.AnError},
		&fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}},
		&fakeLocker{},
	)

	// Сбой хранилища не маскируется под отсутствие слота
	_, err := uc.ExecuteSingle(context.Background(), &SingleRequest{SlotID: 1, DoctorID: 10})
	require.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrSlotNotFound)
}

func TestExecuteSingle_SlotLockBusy(t *testing.T) {
	slot := slotAt(1, time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC), "10:00:00")
	uc := newTestUseCase(
		&fakeSlotRepo{slots: []*domain.AvailabilitySlot{slot}},
		&fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}},
		&fakeLocker{busy: true},
	)

	_, err := uc.ExecuteSingle(context.Background(), &SingleRequest{SlotID: 1, DoctorID: 10})
	require.ErrorIs(t, err, ErrSlotBusy)
}
