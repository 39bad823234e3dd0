package book_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
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

func (f *fakeSlotRepo) ListByDoctorFromDate(_ context.Context, doctorID int64, from time.Time) ([]*domain.AvailabilitySlot, error) {
	result := make([]*domain.AvailabilitySlot, 0)
	for _, s := range f.slots {
		if s.DoctorID == doctorID && !s.Date.Before(from) {
			result = append(result, s)
		}
	}
	return result, nil
}

type fakeAppointmentRepo struct {
	nextID   int64
	created  []*domain.Appointment
	existing map[int64]map[int64]bool // patientID -> slotID
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = testNow
	a.UpdatedAt = testNow
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAppointmentRepo) ExistsForPatientAndSlot(_ context.Context, patientID, slotID int64, _ []domain.AppointmentStatus) (bool, error) {
	return f.existing[patientID][slotID], nil
}

type fakeLedger struct {
	occupancy map[int64]int
}

func (f *fakeLedger) Occupancy(_ context.Context, slotID int64) (int, error) {
	return f.occupancy[slotID], nil
}

type fakeProfileClient struct {
	patients map[int64]bool
}

func (f *fakeProfileClient) GetPatient(_ context.Context, patientID int64) (*profileservice.Patient, error) {
	if !f.patients[patientID] {
		return nil, profileservice.ErrPatientNotFound
	}
	return &profileservice.Patient{ID: patientID}, nil
}

type fakeLocker struct {
	busy  bool
	calls int
}

func (f *fakeLocker) WithSlotLock(ctx context.Context, _ int64, fn func(ctx context.Context) error) error {
	f.calls++
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

func openSlot(id int64, date time.Time, maxPatients int, futureAvailable bool) *domain.AvailabilitySlot {
	return &domain.AvailabilitySlot{
		ID:                 id,
		DoctorID:           10,
		Date:               date,
		StartTime:          "10:00:00",
		EndTime:            "12:00:00",
		MaxPatients:        maxPatients,
		BookingWindowStart: testNow.AddDate(0, 0, -7),
		BookingWindowEnd:   testNow.AddDate(0, 0, 7),
		IsFutureAvailable:  futureAvailable,
	}
}

func newTestUseCase(slots *fakeSlotRepo, appointments *fakeAppointmentRepo, ledger *fakeLedger, locker *fakeLocker) *UseCase {
	uc := NewUseCase(
		slots,
		appointments,
		ledger,
		&fakeProfileClient{patients: map[int64]bool{100: true}},
		locker,
		&fakeTxManager{},
		nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func TestExecute_BooksNextQueuePosition(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{openSlot(1, date, 3, false)}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{1: 0}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{})

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QueuePosition)
	assert.Equal(t, int64(1), resp.SlotID)
	assert.False(t, resp.FallbackUsed)
	assert.Equal(t, string(domain.StatusBooked), resp.Status)

	// Второе бронирование встает следующим в очередь
	ledger.occupancy[1] = 1
	resp, err = uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.QueuePosition)
}

func TestExecute_ProjectsAttendanceTime(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{openSlot(1, date, 4, false)}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{1: 2}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{})

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.NoError(t, err)
	require.NotNil(t, resp.ExpectedTime)

	// 120 минут / 4 пациента = 30 минут; позиция 3 - через час после начала
	assert.Equal(t, time.Date(2025, 6, 17, 11, 0, 0, 0, time.UTC), resp.ExpectedTime.EstimatedAttendTime)
	assert.Equal(t, time.Date(2025, 6, 17, 10, 50, 0, 0, time.UTC), resp.ExpectedTime.RecommendedArrivalTime)
}

func TestExecute_SlotFullWithoutOverflow(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{openSlot(1, date, 2, false)}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{1: 2}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.ErrorIs(t, err, ErrSlotFull)
	assert.Empty(t, appointments.created)
}

func TestExecute_FallbackToNextSlot(t *testing.T) {
	day1 := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{
		openSlot(1, day1, 2, true),
		openSlot(2, day2, 2, false),
	}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{1: 2, 2: 1}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{})

	resp, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.SlotID)
	assert.Equal(t, 2, resp.QueuePosition)
	assert.True(t, resp.FallbackUsed)
}

func TestExecute_FallbackStopsAtClosedFullSlot(t *testing.T) {
	day1 := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	// Второй слот заполнен и закрыт для перелива: третий слот со свободным
	// местом находится за границей поиска
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{
		openSlot(1, day1, 2, true),
		openSlot(2, day2, 2, false),
		openSlot(3, day3, 2, true),
	}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{1: 2, 2: 2, 3: 0}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.ErrorIs(t, err, ErrNoFutureSlot)
	assert.Empty(t, appointments.created)
}

func TestExecute_DuplicateBookingRejected(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{openSlot(1, date, 3, false)}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{100: {1: true}}}
	ledger := &fakeLedger{occupancy: map[int64]int{1: 1}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestExecute_BookingWindowClosed(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slot := openSlot(1, date, 3, false)
	slot.BookingWindowEnd = testNow.Add(-time.Hour)

	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{slot}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.ErrorIs(t, err, ErrBookingClosed)
}

func TestExecute_SlotLockBusy(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{openSlot(1, date, 3, false)}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{}}

	uc := newTestUseCase(slots, appointments, ledger, &fakeLocker{busy: true})

	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.ErrorIs(t, err, ErrSlotBusy)
}

func TestExecute_PatientNotFound(t *testing.T) {
	date := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	slots := &fakeSlotRepo{slots: []*domain.AvailabilitySlot{openSlot(1, date, 3, false)}}
	appointments := &fakeAppointmentRepo{existing: map[int64]map[int64]bool{}}
	ledger := &fakeLedger{occupancy: map[int64]int{}}
	locker := &fakeLocker{}

	uc := newTestUseCase(slots, appointments, ledger, locker)

	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 999})
	require.ErrorIs(t, err, ErrPatientNotFound)

	// Блокировка не захватывается для несуществующего пациента
	assert.Zero(t, locker.calls)
}

func TestExecute_SlotNotFound(t *testing.T) {
	uc := newTestUseCase(
		&fakeSlotRepo{},
		&fakeAppointmentRepo{existing: map[int64]map[int64]bool{}},
		&fakeLedger{occupancy: map[int64]int{}},
		&fakeLocker{},
	)

	_, err := uc.Execute(context.Background(), &Request{SlotID: 99, PatientID: 100})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_SlotStorageFailure(t *testing.T) {
	uc := newTestUseCase(
		&fakeSlotRepo{failGet: assert.AnError},
		&fakeAppointmentRepo{existing: map[int64]map[int64]bool{}},
		&fakeLedger{occupancy: map[int64]int{}},
		&fakeLocker{},
	)

	// Сбой хранилища не маскируется под отсутствие слота
	_, err := uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: 100})
	require.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeSlotRepo{},
		&fakeAppointmentRepo{existing: map[int64]map[int64]bool{}},
		&fakeLedger{occupancy: map[int64]int{}},
		&fakeLocker{},
	)

	_, err := uc.Execute(context.Background(), &Request{SlotID: 0, PatientID: 100})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{SlotID: 1, PatientID: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}
