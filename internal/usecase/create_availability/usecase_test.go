package create_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-ClinicService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// Понедельник, 16 июня 2025, 09:00
var testNow = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

type fakeSlotRepo struct {
	existing []*domain.AvailabilitySlot
	created  []*domain.AvailabilitySlot
	nextID   int64
}

func (f *fakeSlotRepo) Create(_ context.Context, s *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	f.nextID++
	saved := *s
	saved.ID = f.nextID
	f.created = append(f.created, &saved)
	return &saved, nil
}

func (f *fakeSlotRepo) ListByDoctorAndDate(_ context.Context, doctorID int64, date time.Time) ([]*domain.AvailabilitySlot, error) {
	result := make([]*domain.AvailabilitySlot, 0)
	for _, s := range f.existing {
		if s.DoctorID == doctorID && s.Date.Equal(date) {
			result = append(result, s)
		}
	}
	return result, nil
}

type fakeProfileClient struct {
	doctors map[int64]bool
}

func (f *fakeProfileClient) GetDoctor(_ context.Context, doctorID int64) (*profileservice.Doctor, error) {
	if !f.doctors[doctorID] {
		return nil, profileservice.ErrDoctorNotFound
	}
	return &profileservice.Doctor{ID: doctorID}, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
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

func newTestUseCase(slots *fakeSlotRepo) *UseCase {
	uc := NewUseCase(slots, &fakeProfileClient{doctors: map[int64]bool{10: true}}, &fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func TestExecute_CreatesSlotsForEachWeek(t *testing.T) {
	slots := &fakeSlotRepo{}
	uc := newTestUseCase(slots)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:    10,
		DayOfWeek:   "Friday",
		RepeatWeeks: 3,
		StartTime:   "10:00:00",
		EndTime:     "12:00:00",
		MaxPatients: ptr.Ptr(3),
	})
	require.NoError(t, err)

	// Пятницы: 20 и 27 июня, 4 июля
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), resp.Slots[0].Date)
	assert.Equal(t, time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC), resp.Slots[1].Date)
	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), resp.Slots[2].Date)

	first := resp.Slots[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 3, first.MaxPatients)
	assert.False(t, first.IsFutureAvailable)

	// Окно бронирования по умолчанию совпадает с границами слота
	assert.Equal(t, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC), first.BookingWindowStart)
	assert.Equal(t, time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC), first.BookingWindowEnd)
}

func TestExecute_AppliesExplicitBookingWindow(t *testing.T) {
	slots := &fakeSlotRepo{}
	uc := newTestUseCase(slots)

	bookingStart := types.TimeString("08:00:00")
	bookingEnd := types.TimeString("11:30:00")
	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:          10,
		DayOfWeek:         "Tuesday",
		RepeatWeeks:       1,
		StartTime:         "10:00:00",
		EndTime:           "12:00:00",
		BookingStartTime:  &bookingStart,
		BookingEndTime:    &bookingEnd,
		IsFutureAvailable: ptr.Ptr(true),
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	slot := resp.Slots[0]
	assert.Equal(t, time.Date(2025, 6, 17, 8, 0, 0, 0, time.UTC), slot.BookingWindowStart)
	assert.Equal(t, time.Date(2025, 6, 17, 11, 30, 0, 0, time.UTC), slot.BookingWindowEnd)
	assert.True(t, slot.IsFutureAvailable)
}

func TestExecute_SkipsOverlappingDates(t *testing.T) {
	// На первую пятницу уже есть слот 11:00-13:00
	slots := &fakeSlotRepo{existing: []*domain.AvailabilitySlot{
		{
			ID: 99, DoctorID: 10,
			Date:      time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			StartTime: "11:00:00", EndTime: "13:00:00", MaxPatients: 2,
		},
	}}
	uc := newTestUseCase(slots)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:    10,
		DayOfWeek:   "Friday",
		RepeatWeeks: 2,
		StartTime:   "10:00:00",
		EndTime:     "12:00:00",
	})
	require.NoError(t, err)

	// Пересекающаяся дата выпадает, выживает только вторая пятница
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC), resp.Slots[0].Date)
}

func TestExecute_TouchingBoundariesDoNotOverlap(t *testing.T) {
	slots := &fakeSlotRepo{existing: []*domain.AvailabilitySlot{
		{
			ID: 99, DoctorID: 10,
			Date:      time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC),
			StartTime: "12:00:00", EndTime: "14:00:00", MaxPatients: 2,
		},
	}}
	uc := newTestUseCase(slots)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:    10,
		DayOfWeek:   "Tuesday",
		RepeatWeeks: 1,
		StartTime:   "10:00:00",
		EndTime:     "12:00:00",
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
}

func TestExecute_DefaultsRepeatWeeksAndCapacity(t *testing.T) {
	slots := &fakeSlotRepo{}
	uc := newTestUseCase(slots)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:  10,
		DayOfWeek: "Wednesday",
		StartTime: "10:00:00",
		EndTime:   "12:00:00",
	})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, domain.DefaultMaxPatients, resp.Slots[0].MaxPatients)
}

func TestExecute_UnknownDoctor(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:  999,
		DayOfWeek: "Monday",
		StartTime: "10:00:00",
		EndTime:   "12:00:00",
	})
	require.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{})

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "missing day of week",
			req:     &Request{DoctorID: 10, StartTime: "10:00:00", EndTime: "12:00:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "inverted time range",
			req:     &Request{DoctorID: 10, DayOfWeek: "Monday", StartTime: "12:00:00", EndTime: "10:00:00"},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "inverted booking window",
			req: &Request{
				DoctorID: 10, DayOfWeek: "Monday", StartTime: "10:00:00", EndTime: "12:00:00",
				BookingStartTime: ptr.Ptr(types.TimeString("11:00:00")),
				BookingEndTime:   ptr.Ptr(types.TimeString("09:00:00")),
			},
			wantErr: ErrInvalidBookingWindow,
		},
		{
			name:    "negative maxPatients",
			req:     &Request{DoctorID: 10, DayOfWeek: "Monday", StartTime: "10:00:00", EndTime: "12:00:00", MaxPatients: ptr.Ptr(-1)},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
