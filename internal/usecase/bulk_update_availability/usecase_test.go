package bulk_update_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Понедельник, 16 июня 2025, 09:00
var testNow = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

type slotKey struct {
	date  string
	start string
}

type fakeSlotRepo struct {
	byKey      map[slotKey]*domain.AvailabilitySlot
	candidates []*domain.AvailabilitySlot
	updated    []*domain.AvailabilitySlot
	failFind   error
}

func (f *fakeSlotRepo) FindBySlotKey(_ context.Context, _ int64, date time.Time, start, _ types.TimeString) (*domain.AvailabilitySlot, error) {
	if f.failFind != nil {
		return nil, f.failFind
	}
	s, ok := f.byKey[slotKey{date: date.Format(domain.DateFormat), start: start.String()}]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
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
	moved   map[int64]int64
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

type fakeLocker struct{}

func (f *fakeLocker) WithSlotLock(ctx context.Context, _ int64, fn func(ctx context.Context) error) error {
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

func morningSlot(id int64, date time.Time) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:          id,
		DoctorID:    10,
		Date:        date,
		StartTime:   "10:00:00",
		EndTime:     "12:00:00",
		MaxPatients: 3,
	}
}

func newTestUseCase(slots *fakeSlotRepo, appointments *fakeAppointmentRepo, ledger *fakeLedger) *UseCase {
	uc := NewUseCase(slots, appointments, ledger, &fakeLocker{}, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func TestExecute_UpdatesSlotsByExplicitDates(t *testing.T) {
	day1 := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	slots := &fakeSlotRepo{byKey: map[slotKey]*domain.AvailabilitySlot{
		{date: "2025-06-17", start: "10:00:00"}: morningSlot(1, day1),
		{date: "2025-06-18", start: "10:00:00"}: morningSlot(2, day2),
	}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}, moved: map[int64]int64{}}
	ledger := &fakeLedger{occupancy: map[int64]int{}}

	uc := newTestUseCase(slots, appointments, ledger)

	bookingStart := types.TimeString("08:00:00")
	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:          10,
		Dates:             []time.Time{day1, day2},
		StartTime:         "10:00:00",
		EndTime:           "12:00:00",
		BookingStartTime:  &bookingStart,
		IsFutureAvailable: ptr.Ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, resp.UpdatedSlotIDs)
	assert.Empty(t, resp.Skipped)

	// Время окна бронирования привязывается к дате каждого слота
	require.Len(t, slots.updated, 2)
	assert.Equal(t, time.Date(2025, 6, 17, 8, 0, 0, 0, time.UTC), slots.updated[0].BookingWindowStart)
	assert.Equal(t, time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC), slots.updated[1].BookingWindowStart)
	assert.True(t, slots.updated[0].IsFutureAvailable)
}

func TestExecute_ResolvesDatesFromWeekday(t *testing.T) {
	// Вторники: 17 и 24 июня
	slots := &fakeSlotRepo{byKey: map[slotKey]*domain.AvailabilitySlot{
		{date: "2025-06-17", start: "10:00:00"}: morningSlot(1, time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)),
		{date: "2025-06-24", start: "10:00:00"}: morningSlot(2, time.Date(2025, 6, 24, 0, 0, 0, 0, time.UTC)),
	}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}, moved: map[int64]int64{}}
	ledger := &fakeLedger{occupancy: map[int64]int{}}

	uc := newTestUseCase(slots, appointments, ledger)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:          10,
		DayOfWeek:         "Tuesday",
		RepeatWeeks:       2,
		StartTime:         "10:00:00",
		EndTime:           "12:00:00",
		IsFutureAvailable: ptr.Ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, resp.UpdatedSlotIDs)
}

func TestExecute_SkipsMissingAndImminentSlots(t *testing.T) {
	today := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	missing := today.AddDate(0, 0, 2)

	// Слот сегодня начинается в 10:00 - меньше чем через час от 09:00
	slots := &fakeSlotRepo{byKey: map[slotKey]*domain.AvailabilitySlot{
		{date: "2025-06-16", start: "10:00:00"}: morningSlot(1, today),
		{date: "2025-06-17", start: "10:00:00"}: morningSlot(2, tomorrow),
	}}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}, moved: map[int64]int64{}}
	ledger := &fakeLedger{occupancy: map[int64]int{}}

	uc := newTestUseCase(slots, appointments, ledger)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:          10,
		Dates:             []time.Time{today, tomorrow, missing},
		StartTime:         "10:00:00",
		EndTime:           "12:00:00",
		IsFutureAvailable: ptr.Ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, resp.UpdatedSlotIDs)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, SkipTooSoon, resp.Skipped[0].Reason)
	assert.Equal(t, SkipNotFound, resp.Skipped[1].Reason)
}

func TestExecute_ShrinkDisplacesExcess(t *testing.T) {
	day := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slot := morningSlot(1, day)

	slots := &fakeSlotRepo{
		byKey: map[slotKey]*domain.AvailabilitySlot{{date: "2025-06-17", start: "10:00:00"}: slot},
		candidates: []*domain.AvailabilitySlot{
			{ID: 5, DoctorID: 10, Date: day, StartTime: "14:00:00", EndTime: "16:00:00",
				MaxPatients: 2, IsFutureAvailable: true},
		},
	}
	appointments := &fakeAppointmentRepo{
		bySlot: map[int64][]*domain.Appointment{1: {
			{ID: 21, SlotID: 1, QueuePosition: 1, Status: domain.StatusBooked},
			{ID: 22, SlotID: 1, QueuePosition: 2, Status: domain.StatusBooked},
			{ID: 23, SlotID: 1, QueuePosition: 3, Status: domain.StatusBooked},
		}},
		moved: map[int64]int64{},
	}
	ledger := &fakeLedger{occupancy: map[int64]int{1: 3, 5: 1}, appointments: appointments}

	uc := newTestUseCase(slots, appointments, ledger)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:    10,
		Dates:       []time.Time{day},
		StartTime:   "10:00:00",
		EndTime:     "12:00:00",
		MaxPatients: ptr.Ptr(1),
	})
	require.NoError(t, err)

	// Одно свободное место у кандидата: вторая лишняя запись удаляется
	assert.Equal(t, []int64{22}, resp.RedistributedAppointmentIDs)
	assert.Equal(t, []int64{23}, resp.RemovedAppointmentIDs)
	assert.Equal(t, 1, slot.MaxPatients)
}

func TestExecute_StorageFailureStopsRun(t *testing.T) {
	day := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)

	// Сбой хранилища - не повод считать дату пропущенной
	slots := &fakeSlotRepo{byKey: map[slotKey]*domain.AvailabilitySlot{}, failFind: assert.AnError}
	appointments := &fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}, moved: map[int64]int64{}}
	ledger := &fakeLedger{occupancy: map[int64]int{}}

	uc := newTestUseCase(slots, appointments, ledger)

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:          10,
		Dates:             []time.Time{day},
		StartTime:         "10:00:00",
		EndTime:           "12:00:00",
		IsFutureAvailable: ptr.Ptr(true),
	})
	require.ErrorIs(t, err, ErrInternal)
}

func TestExecute_RequiresAddressingMode(t *testing.T) {
	uc := newTestUseCase(
		&fakeSlotRepo{byKey: map[slotKey]*domain.AvailabilitySlot{}},
		&fakeAppointmentRepo{bySlot: map[int64][]*domain.Appointment{}, moved: map[int64]int64{}},
		&fakeLedger{occupancy: map[int64]int{}},
	)

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:  10,
		StartTime: "10:00:00",
		EndTime:   "12:00:00",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}
