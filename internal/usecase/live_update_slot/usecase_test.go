package live_update_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

var testNow = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

type fakeSlotRepo struct {
	slots      []*domain.AvailabilitySlot
	candidates []*domain.AvailabilitySlot
	updated    []*domain.AvailabilitySlot
	failGet    error
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.AvailabilitySlot, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	for _, s := range f.slots {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

func (f *fakeSlotRepo) ListRedistributionCandidates(_ context.Context, _ int64, _ time.Time, _ types.TimeString) ([]*domain.AvailabilitySlot, error) {
	return f.candidates, nil
}

func (f *fakeSlotRepo) Update(_ context.Context, s *domain.AvailabilitySlot) error {
	f.updated = append(f.updated, s)
	return nil
}

type fakeAppointmentRepo struct {
	bySlot  map[int64][]*domain.Appointment
	moved   map[int64]int64 // appointmentID -> new slotID
	deleted []int64
}

func (f *fakeAppointmentRepo) ListBySlotByCreation(_ context.Context, slotID int64, _ []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	return f.bySlot[slotID], nil
}

func (f *fakeAppointmentRepo) UpdateSlotAndPosition(_ context.Context, id, slotID int64, _ int) error {
	f.moved[id] = slotID
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLedger struct {
	occupancy    map[int64]int
	booked       map[int64]int
	appointments *fakeAppointmentRepo
}

// Occupancy учитывает записи, перенесенные в слот по ходу теста
func (f *fakeLedger) Occupancy(_ context.Context, slotID int64) (int, error) {
	count := f.occupancy[slotID]
	if f.appointments != nil {
		for _, target := range f.appointments.moved {
			if target == slotID {
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeLedger) BookedCount(_ context.Context, slotID int64) (int, error) {
	return f.booked[slotID], nil
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

type fixture struct {
	uc           *UseCase
	slots        *fakeSlotRepo
	appointments *fakeAppointmentRepo
	ledger       *fakeLedger
	locker       *fakeLocker
}

// newFixture создает use case со слотом завтра 10:00-12:00 на 3 пациентов
func newFixture() *fixture {
	f := &fixture{
		slots: &fakeSlotRepo{slots: []*domain.AvailabilitySlot{
			{
				ID:                 1,
				DoctorID:           10,
				Date:               time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
				StartTime:          "10:00:00",
				EndTime:            "12:00:00",
				MaxPatients:        3,
				BookingWindowStart: testNow.AddDate(0, 0, -7),
				BookingWindowEnd:   testNow.AddDate(0, 0, 7),
			},
		}},
		appointments: &fakeAppointmentRepo{
			bySlot: map[int64][]*domain.Appointment{},
			moved:  map[int64]int64{},
		},
		ledger: &fakeLedger{occupancy: map[int64]int{}, booked: map[int64]int{}},
		locker: &fakeLocker{},
	}
	f.ledger.appointments = f.appointments

	f.uc = NewUseCase(f.slots, f.appointments, f.ledger, f.locker, &fakeTxManager{}, nopLogger{})
	f.uc.timeProvider = &fixedTime{now: testNow}
	return f
}

func TestExecute_AppliesPartialChanges(t *testing.T) {
	f := newFixture()

	endTime := types.TimeString("13:00:00")
	resp, err := f.uc.Execute(context.Background(), &Request{
		SlotID:            1,
		DoctorID:          10,
		EndTime:           &endTime,
		MaxPatients:       ptr.Ptr(5),
		IsFutureAvailable: ptr.Ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, types.TimeString("10:00:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("13:00:00"), resp.EndTime)
	assert.Equal(t, 5, resp.MaxPatients)
	assert.True(t, resp.IsFutureAvailable)
	require.Len(t, f.slots.updated, 1)
}

func TestExecute_RejectsInvertedTimeRange(t *testing.T) {
	f := newFixture()

	start := types.TimeString("12:30:00")
	_, err := f.uc.Execute(context.Background(), &Request{
		SlotID:    1,
		DoctorID:  10,
		StartTime: &start, // позже endTime 12:00
	})
	require.ErrorIs(t, err, ErrInvalidTimeRange)
	assert.Empty(t, f.slots.updated)
}

func TestExecute_RejectsPastEndTime(t *testing.T) {
	f := newFixture()

	// Слот сегодня, уже идет; сдвиг конца в прошлое запрещен
	f.slots.slots[0].Date = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	f.uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 16, 11, 0, 0, 0, time.UTC)}

	end := types.TimeString("10:30:00")
	_, err := f.uc.Execute(context.Background(), &Request{
		SlotID:   1,
		DoctorID: 10,
		EndTime:  &end,
	})
	require.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestExecute_GuardRejectsNarrowingCloseToStart(t *testing.T) {
	f := newFixture()

	// За 20 минут до начала слота
	f.uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 17, 9, 40, 0, 0, time.UTC)}

	t.Run("time window narrowing", func(t *testing.T) {
		end := types.TimeString("11:00:00")
		_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 10, EndTime: &end})
		require.ErrorIs(t, err, ErrTooCloseToStart)
	})

	t.Run("booking window narrowing", func(t *testing.T) {
		windowEnd := testNow.AddDate(0, 0, 2)
		_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 10, BookingWindowEnd: &windowEnd})
		require.ErrorIs(t, err, ErrTooCloseToStart)
	})

	t.Run("maxPatients below active bookings", func(t *testing.T) {
		f.ledger.booked[1] = 3
		_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 10, MaxPatients: ptr.Ptr(2)})
		require.ErrorIs(t, err, ErrTooCloseToStart)
	})

	t.Run("widening still allowed", func(t *testing.T) {
		end := types.TimeString("13:00:00")
		_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 10, EndTime: &end})
		require.NoError(t, err)
	})
}

func TestExecute_ShrinkRedistributesExcess(t *testing.T) {
	f := newFixture()

	// Очередь 1..3, уменьшаем до 1: позиции 2 и 3 вытесняются
	f.ledger.occupancy[1] = 3
	f.appointments.bySlot[1] = []*domain.Appointment{
		{ID: 21, SlotID: 1, QueuePosition: 1, Status: domain.StatusBooked},
		{ID: 22, SlotID: 1, QueuePosition: 2, Status: domain.StatusBooked},
		{ID: 23, SlotID: 1, QueuePosition: 3, Status: domain.StatusBooked},
	}

	// Кандидат с одним свободным местом: вторая вытесненная запись удаляется
	f.slots.candidates = []*domain.AvailabilitySlot{
		{ID: 2, DoctorID: 10, Date: time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC),
			StartTime: "14:00:00", EndTime: "16:00:00", MaxPatients: 1, IsFutureAvailable: true},
	}
	f.ledger.occupancy[2] = 0

	resp, err := f.uc.Execute(context.Background(), &Request{
		SlotID:      1,
		DoctorID:    10,
		MaxPatients: ptr.Ptr(1),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{22}, resp.RedistributedAppointmentIDs)
	assert.Equal(t, []int64{23}, resp.RemovedAppointmentIDs)
	assert.Equal(t, int64(2), f.appointments.moved[22])
	assert.Equal(t, []int64{23}, f.appointments.deleted)
}

func TestExecute_ShrinkInsideGuardKeepsQueue(t *testing.T) {
	f := newFixture()

	// За 20 минут до начала. Занято 3 места (completed на позиции 1 плюс
	// две booked), активных записей 2: уменьшение до 2 проходит охранную
	// проверку, но вытеснение внутри окна не выполняется
	f.uc.timeProvider = &fixedTime{now: time.Date(2025, 6, 17, 9, 40, 0, 0, time.UTC)}
	f.ledger.occupancy[1] = 3
	f.ledger.booked[1] = 2
	f.appointments.bySlot[1] = []*domain.Appointment{
		{ID: 22, SlotID: 1, QueuePosition: 2, Status: domain.StatusBooked},
		{ID: 23, SlotID: 1, QueuePosition: 3, Status: domain.StatusBooked},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		SlotID:      1,
		DoctorID:    10,
		MaxPatients: ptr.Ptr(2),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.MaxPatients)
	assert.Empty(t, resp.RedistributedAppointmentIDs)
	assert.Empty(t, resp.RemovedAppointmentIDs)
	assert.Empty(t, f.appointments.moved)
	assert.Empty(t, f.appointments.deleted)
}

func TestExecute_ShrinkRemovesAllWithoutCandidates(t *testing.T) {
	f := newFixture()

	f.ledger.occupancy[1] = 2
	f.appointments.bySlot[1] = []*domain.Appointment{
		{ID: 21, SlotID: 1, QueuePosition: 1, Status: domain.StatusBooked},
		{ID: 22, SlotID: 1, QueuePosition: 2, Status: domain.StatusBooked},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		SlotID:      1,
		DoctorID:    10,
		MaxPatients: ptr.Ptr(1),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.RedistributedAppointmentIDs)
	assert.Equal(t, []int64{22}, resp.RemovedAppointmentIDs)
}

func TestExecute_SlotNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: 99, DoctorID: 10})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_SlotStorageFailure(t *testing.T) {
	f := newFixture()
	f.slots.failGet = assert.AnError

	// Сбой хранилища не маскируется под отсутствие слота
	_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 10})
	require.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_ForeignSlot(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 20})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestExecute_DisabledSlot(t *testing.T) {
	f := newFixture()
	f.slots.slots[0].Disable()

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 10})
	require.ErrorIs(t, err, ErrSlotDisabled)
}

func TestExecute_SlotLockBusy(t *testing.T) {
	f := newFixture()
	f.locker.busy = true

	_, err := f.uc.Execute(context.Background(), &Request{SlotID: 1, DoctorID: 10})
	require.ErrorIs(t, err, ErrSlotBusy)
}
