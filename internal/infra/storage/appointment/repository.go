package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"doctor_id",
	"patient_id",
	"slot_id",
	"queue_position",
	"status",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на прием
// Владеет SQL частью реестра очереди: подсчет занятости,
// выборка по позициям и уплотнение позиций
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на прием
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"doctor_id",
			"patient_id",
			"slot_id",
			"queue_position",
			"status",
			"notes",
		).
		Values(
			a.DoctorID,
			a.PatientID,
			a.SlotID,
			a.QueuePosition,
			a.Status,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListBySlot получает записи слота с указанными статусами,
// упорядоченные по позиции в очереди
// В транзакции блокирует строки (FOR UPDATE) для сериализации
// уплотнения очереди с конкурентными бронированиями
func (r *Repository) ListBySlot(ctx context.Context, slotID int64, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"slot_id": slotID, "status": statusStrings(statuses)}).
		OrderBy("queue_position ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.queryList(ctx, "ListBySlot", selectBuilder)
}

// ListBySlotByCreation получает записи слота с указанными статусами,
// упорядоченные по времени создания - порядок выбора "лишних" записей
// при уменьшении maxPatients
func (r *Repository) ListBySlotByCreation(ctx context.Context, slotID int64, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"slot_id": slotID, "status": statusStrings(statuses)}).
		OrderBy("created_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.queryList(ctx, "ListBySlotByCreation", selectBuilder)
}

// CountBySlot подсчитывает записи слота с указанными статусами
// Занятость слота = CountBySlot(slotID, domain.CapacityStatuses)
func (r *Repository) CountBySlot(ctx context.Context, slotID int64, statuses []domain.AppointmentStatus) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"slot_id": slotID, "status": statusStrings(statuses)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ExistsForPatientAndSlot проверяет, есть ли у пациента запись
// в слоте с одним из указанных статусов
func (r *Repository) ExistsForPatientAndSlot(ctx context.Context, patientID, slotID int64, statuses []domain.AppointmentStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("appointments").
		Where(squirrel.Eq{
			"patient_id": patientID,
			"slot_id":    slotID,
			"status":     statusStrings(statuses),
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsForPatientAndSlot - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForPatientAndSlot - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// ListByPatientAndStatus получает записи пациента с указанным статусом,
// упорядоченные по дате и времени слота
func (r *Repository) ListByPatientAndStatus(ctx context.Context, patientID int64, status domain.AppointmentStatus) ([]*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(prefixed("a", appointmentColumns)...).
		From("appointments a").
		Join("availability_slots s ON s.id = a.slot_id").
		Where(squirrel.Eq{"a.patient_id": patientID, "a.status": string(status)}).
		OrderBy("s.date ASC", "s.start_time ASC")

	return r.queryList(ctx, "ListByPatientAndStatus", selectBuilder)
}

// ListByDoctor получает все записи врача, упорядоченные по дате и времени слота
func (r *Repository) ListByDoctor(ctx context.Context, doctorID int64) ([]*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(prefixed("a", appointmentColumns)...).
		From("appointments a").
		Join("availability_slots s ON s.id = a.slot_id").
		Where(squirrel.Eq{"a.doctor_id": doctorID}).
		OrderBy("s.date ASC", "s.start_time ASC")

	return r.queryList(ctx, "ListByDoctor", selectBuilder)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return r.exec(ctx, "UpdateStatus", psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateSlotAndPosition переносит запись в другой слот с новой позицией
// Используется при перераспределении вытесненных записей
func (r *Repository) UpdateSlotAndPosition(ctx context.Context, id, slotID int64, position int) error {
	return r.exec(ctx, "UpdateSlotAndPosition", psqlbuilder.Update("appointments").
		Set("slot_id", slotID).
		Set("queue_position", position).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// ShiftQueueDown сдвигает на единицу вниз позиции booked записей слота,
// стоящих выше освободившейся позиции (уплотнение очереди)
func (r *Repository) ShiftQueueDown(ctx context.Context, slotID int64, abovePosition int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("queue_position", squirrel.Expr("queue_position - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.And{
			squirrel.Eq{"slot_id": slotID, "status": string(domain.StatusBooked)},
			squirrel.Gt{"queue_position": abovePosition},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ShiftQueueDown - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ShiftQueueDown - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет запись
// Применяется только к вытесненным записям, для которых не нашлось
// fallback-слота; статусные переходы идут через UpdateStatus
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) exec(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *Repository) queryList(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.SlotID,
		&a.QueuePosition,
		&a.Status,
		&a.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func prefixed(alias string, columns []string) []string {
	result := make([]string, len(columns))
	for i, c := range columns {
		result[i] = alias + "." + c
	}
	return result
}
