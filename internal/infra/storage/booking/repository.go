package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-CalendarService/pkg/txmanager"
)

var bookingColumns = []string{
	"id",
	"user_id",
	"job_id",
	"client_id",
	"client_name",
	"status",
	"booking_date",
	"start_time",
	"end_time",
	"rate_per_hour",
	"notes",
	"confirmed_at",
	"cancelled_at",
	"cancellation_reason",
	"created_at",
	"updated_at",
}

var conflictColumns = []string{
	"id",
	"user_id",
	"conflict_type",
	"primary_booking_id",
	"conflicting_booking_id",
	"conflict_date",
	"start_time",
	"end_time",
	"resolution_status",
	"resolution_action",
	"created_at",
	"resolved_at",
}

// Repository репозиторий бронирований и записей конфликтов
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое бронирование
func (r *Repository) Create(ctx context.Context, b *domain.BookingReference) (*domain.BookingReference, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("id", "user_id", "job_id", "client_id", "client_name", "status",
			"booking_date", "start_time", "end_time", "rate_per_hour", "notes").
		Values(b.ID, b.UserID, b.JobID, b.ClientID, b.ClientName, b.Status,
			domain.DateOnly(b.Date), b.StartTime, b.EndTime, b.RatePerHour, b.Notes).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.BookingReference, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}
	return b, nil
}

// GetByUser получает бронирования владельца календаря,
// опционально фильтруя по статусу
func (r *Repository) GetByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.BookingReference, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByDate получает активные бронирования владельца на дату,
// отсортированные по времени начала
func (r *Repository) GetActiveByDate(ctx context.Context, userID int64, date time.Time) ([]*domain.BookingReference, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID, "booking_date": domain.DateOnly(date)}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusRequested), string(domain.StatusConfirmed)}}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования.
// При переходе в confirmed дополнительно фиксируется confirmed_at.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if status == domain.StatusConfirmed {
		updateBuilder = updateBuilder.Set("confirmed_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id string, reason string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CreateConflict сохраняет запись конфликта бронирований
func (r *Repository) CreateConflict(ctx context.Context, c *domain.BookingConflict) (*domain.BookingConflict, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_conflicts").
		Columns("id", "user_id", "conflict_type", "primary_booking_id", "conflicting_booking_id",
			"conflict_date", "start_time", "end_time", "resolution_status").
		Values(c.ID, c.UserID, c.Type, c.PrimaryBookingID, c.ConflictingBookingID,
			domain.DateOnly(c.Date), c.StartTime, c.EndTime, c.ResolutionStatus).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateConflict - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateConflict - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	return c, nil
}

// GetConflictByID получает запись конфликта по ID
func (r *Repository) GetConflictByID(ctx context.Context, id string) (*domain.BookingConflict, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(conflictColumns...).
		From("booking_conflicts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetConflictByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := scanConflict(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConflictNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetConflictByID - scan conflict: %v", ErrScanRow, err)
	}
	return c, nil
}

// GetConflictsByUser получает конфликты владельца календаря,
// опционально только нерешённые
func (r *Repository) GetConflictsByUser(ctx context.Context, userID int64, pendingOnly bool) ([]*domain.BookingConflict, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(conflictColumns...).
		From("booking_conflicts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	if pendingOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resolution_status": domain.ResolutionPending})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetConflictsByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetConflictsByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	conflicts := make([]*domain.BookingConflict, 0)
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetConflictsByUser - scan conflict: %v", ErrScanRow, err)
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetConflictsByUser - rows error: %v", ErrScanRow, err)
	}
	return conflicts, nil
}

// ResolveConflict помечает конфликт решённым с указанием действия
func (r *Repository) ResolveConflict(ctx context.Context, id string, action domain.ResolutionAction) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_conflicts").
		Set("resolution_status", domain.ResolutionResolved).
		Set("resolution_action", action).
		Set("resolved_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ResolveConflict - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ResolveConflict - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ResolveConflict - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrConflictNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.BookingReference, error) {
	var b domain.BookingReference
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.JobID,
		&b.ClientID,
		&b.ClientName,
		&b.Status,
		&b.Date,
		&b.StartTime,
		&b.EndTime,
		&b.RatePerHour,
		&b.Notes,
		&b.ConfirmedAt,
		&b.CancelledAt,
		&b.CancellationReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.BookingReference, error) {
	bookings := make([]*domain.BookingReference, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}
	return bookings, nil
}

func scanConflict(row rowScanner) (*domain.BookingConflict, error) {
	var c domain.BookingConflict
	var createdAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Type,
		&c.PrimaryBookingID,
		&c.ConflictingBookingID,
		&c.Date,
		&c.StartTime,
		&c.EndTime,
		&c.ResolutionStatus,
		&c.ResolutionAction,
		&createdAt,
		&c.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt.Time
	return &c, nil
}
