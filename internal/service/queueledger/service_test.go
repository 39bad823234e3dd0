package queueledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

type fakeAppointmentRepo struct {
	counts map[int64]map[string]int // slotID -> status -> count
	err    error

	shiftCalls []shiftCall
}

type shiftCall struct {
	slotID        int64
	abovePosition int
}

func (f *fakeAppointmentRepo) CountBySlot(_ context.Context, slotID int64, statuses []domain.AppointmentStatus) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	total := 0
	for _, status := range statuses {
		total += f.counts[slotID][string(status)]
	}
	return total, nil
}

func (f *fakeAppointmentRepo) ShiftQueueDown(_ context.Context, slotID int64, abovePosition int) error {
	if f.err != nil {
		return f.err
	}
	f.shiftCalls = append(f.shiftCalls, shiftCall{slotID: slotID, abovePosition: abovePosition})
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestOccupancy_CountsBookedAndCompleted(t *testing.T) {
	repo := &fakeAppointmentRepo{counts: map[int64]map[string]int{
		1: {"booked": 2, "completed": 1, "cancelled": 5},
	}}
	svc := NewService(repo, nopLogger{})

	occupancy, err := svc.Occupancy(context.Background(), 1)
	require.NoError(t, err)

	// cancelled не занимают место
	assert.Equal(t, 3, occupancy)
}

func TestBookedCount_CountsOnlyBooked(t *testing.T) {
	repo := &fakeAppointmentRepo{counts: map[int64]map[string]int{
		1: {"booked": 2, "completed": 1},
	}}
	svc := NewService(repo, nopLogger{})

	booked, err := svc.BookedCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, booked)
}

func TestNextPosition(t *testing.T) {
	repo := &fakeAppointmentRepo{counts: map[int64]map[string]int{
		1: {"booked": 1, "completed": 1},
	}}
	svc := NewService(repo, nopLogger{})

	pos, err := svc.NextPosition(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	// Пустой слот начинает очередь с позиции 1
	pos, err = svc.NextPosition(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestCompact_ShiftsQueueDown(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	svc := NewService(repo, nopLogger{})

	err := svc.Compact(context.Background(), 1, 2)
	require.NoError(t, err)

	require.Len(t, repo.shiftCalls, 1)
	assert.Equal(t, shiftCall{slotID: 1, abovePosition: 2}, repo.shiftCalls[0])
}

func TestService_WrapsRepositoryErrors(t *testing.T) {
	repo := &fakeAppointmentRepo{err: assert.AnError}
	svc := NewService(repo, nopLogger{})

	_, err := svc.Occupancy(context.Background(), 1)
	require.ErrorIs(t, err, ErrInternal)

	_, err = svc.BookedCount(context.Background(), 1)
	require.ErrorIs(t, err, ErrInternal)

	err = svc.Compact(context.Background(), 1, 1)
	require.ErrorIs(t, err, ErrInternal)
}
