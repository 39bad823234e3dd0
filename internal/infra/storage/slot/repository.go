package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

var slotColumns = []string{
	"id",
	"doctor_id",
	"date",
	"start_time",
	"end_time",
	"max_patients",
	"booking_window_start",
	"booking_window_end",
	"is_future_available",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот
func (r *Repository) Create(ctx context.Context, s *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_slots").
		Columns(
			"doctor_id",
			"date",
			"start_time",
			"end_time",
			"max_patients",
			"booking_window_start",
			"booking_window_end",
			"is_future_available",
		).
		Values(
			s.DoctorID,
			s.Date,
			s.StartTime.String(),
			s.EndTime.String(),
			s.MaxPatients,
			s.BookingWindowStart,
			s.BookingWindowEnd,
			s.IsFutureAvailable,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает слот по ID
// В транзакции блокирует строку (FOR UPDATE) - используется движком
// бронирования для сериализации проверки занятости
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("availability_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListByDoctorAndDate получает все слоты врача на дату
// Используется валидатором пересечений при создании слотов
func (r *Repository) ListByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]*domain.AvailabilitySlot, error) {
	return r.list(ctx, "ListByDoctorAndDate", squirrel.Eq{
		"doctor_id": doctorID,
		"date":      date,
	})
}

// ListByDoctorFromDate получает слоты врача начиная с даты,
// упорядоченные по (date, start_time) - порядок поиска fallback-слота
func (r *Repository) ListByDoctorFromDate(ctx context.Context, doctorID int64, from time.Time) ([]*domain.AvailabilitySlot, error) {
	return r.list(ctx, "ListByDoctorFromDate", squirrel.And{
		squirrel.Eq{"doctor_id": doctorID},
		squirrel.GtOrEq{"date": from},
	})
}

// ListByDoctor получает все слоты врача
func (r *Repository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.AvailabilitySlot, error) {
	return r.list(ctx, "ListByDoctor", squirrel.Eq{"doctor_id": doctorID})
}

// FindBySlotKey находит слот врача по дате и границам времени
// Используется bulk-обновлением для адресации слотов
func (r *Repository) FindBySlotKey(ctx context.Context, doctorID int64, date time.Time, start, end types.TimeString) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("availability_slots").
		Where(squirrel.Eq{
			"doctor_id":  doctorID,
			"date":       date,
			"start_time": start.String(),
			"end_time":   end.String(),
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindBySlotKey - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindBySlotKey - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListRedistributionCandidates получает слоты врача, куда можно перенести
// вытесненную запись: date >= fromDate, start_time > afterTime,
// is_future_available = true, порядок (date, start_time)
func (r *Repository) ListRedistributionCandidates(ctx context.Context, doctorID int64, fromDate time.Time, afterTime types.TimeString) ([]*domain.AvailabilitySlot, error) {
	return r.list(ctx, "ListRedistributionCandidates", squirrel.And{
		squirrel.Eq{"doctor_id": doctorID, "is_future_available": true},
		squirrel.GtOrEq{"date": fromDate},
		squirrel.Gt{"start_time": afterTime.String()},
	})
}

// Update обновляет изменяемые поля слота
func (r *Repository) Update(ctx context.Context, s *domain.AvailabilitySlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_slots").
		Set("start_time", s.StartTime.String()).
		Set("end_time", s.EndTime.String()).
		Set("max_patients", s.MaxPatients).
		Set("booking_window_start", s.BookingWindowStart).
		Set("booking_window_end", s.BookingWindowEnd).
		Set("is_future_available", s.IsFutureAvailable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("availability_slots").
		Where(where).
		OrderBy("date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.AvailabilitySlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan slot: %v", ErrScanRow, op, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return slots, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.AvailabilitySlot, error) {
	var (
		s                    domain.AvailabilitySlot
		startTime, endTime   string
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&s.DoctorID,
		&s.Date,
		&startTime,
		&endTime,
		&s.MaxPatients,
		&s.BookingWindowStart,
		&s.BookingWindowEnd,
		&s.IsFutureAvailable,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.StartTime = types.TimeString(startTime)
	s.EndTime = types.TimeString(endTime)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
