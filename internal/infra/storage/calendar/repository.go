package calendar

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

var entryColumns = []string{
	"user_id",
	"entry_date",
	"status",
	"is_recurring",
	"pattern_id",
	"notes",
	"created_at",
	"updated_at",
}

var slotColumns = []string{
	"id",
	"user_id",
	"entry_date",
	"start_time",
	"end_time",
	"status",
	"is_booked",
	"booking_id",
	"job_id",
	"job_title",
	"client_name",
	"rate_per_hour",
	"notes",
	"version",
}

// Repository репозиторий записей календаря и временных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetEntry получает запись календаря пользователя на дату вместе со слотами
func (r *Repository) GetEntry(ctx context.Context, userID int64, date time.Time) (*domain.CalendarEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("calendar_entries").
		Where(squirrel.Eq{"user_id": userID, "entry_date": domain.DateOnly(date)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntry - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := r.scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	slots, err := r.getSlots(ctx, executor, userID, date, date)
	if err != nil {
		return nil, err
	}
	entry.Slots = slots[entry.Date.Format(domain.DateFormat)]
	if entry.Slots == nil {
		entry.Slots = []domain.TimeSlot{}
	}

	return entry, nil
}

// GetEntries получает записи календаря пользователя за период, со слотами,
// отсортированные по дате
func (r *Repository) GetEntries(ctx context.Context, userID int64, from, to time.Time) ([]*domain.CalendarEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("calendar_entries").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"entry_date": domain.DateOnly(from)}).
		Where(squirrel.LtOrEq{"entry_date": domain.DateOnly(to)}).
		OrderBy("entry_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEntries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.CalendarEntry, 0)
	for rows.Next() {
		entry, err := r.scanEntryFromRows(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetEntries - rows error: %v", ErrScanRow, err)
	}

	slotsByDate, err := r.getSlots(ctx, executor, userID, from, to)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.Slots = slotsByDate[entry.Date.Format(domain.DateFormat)]
		if entry.Slots == nil {
			entry.Slots = []domain.TimeSlot{}
		}
	}

	return entries, nil
}

// UpsertEntry атомарно заменяет запись календаря на дату: сама запись
// обновляется через ON CONFLICT, слоты даты удаляются и вставляются заново.
// Вызывается внутри транзакции (txmanager кладёт её в контекст).
func (r *Repository) UpsertEntry(ctx context.Context, entry *domain.CalendarEntry) error {
	executor := txmanager.GetExecutor(ctx, r.db)
	date := domain.DateOnly(entry.Date)

	query, args, err := psqlbuilder.Insert("calendar_entries").
		Columns("user_id", "entry_date", "status", "is_recurring", "pattern_id", "notes").
		Values(entry.UserID, date, entry.Status, entry.IsRecurring, entry.PatternID, entry.Notes).
		Suffix(`ON CONFLICT (user_id, entry_date) DO UPDATE SET
			status = EXCLUDED.status,
			is_recurring = EXCLUDED.is_recurring,
			pattern_id = EXCLUDED.pattern_id,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertEntry - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("%w: UpsertEntry - execute insert: %v", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"user_id": entry.UserID, "entry_date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertEntry - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: UpsertEntry - delete old slots: %v", ErrExecQuery, err)
	}

	if len(entry.Slots) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("time_slots").
		Columns(slotColumns...)
	for i := range entry.Slots {
		slot := &entry.Slots[i]
		insertBuilder = insertBuilder.Values(
			slot.ID,
			entry.UserID,
			date,
			slot.StartTime,
			slot.EndTime,
			slot.Status,
			slot.IsBooked,
			slot.BookingID,
			slot.JobID,
			slot.JobTitle,
			slot.ClientName,
			slot.RatePerHour,
			slot.Notes,
			slot.Version,
		)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpsertEntry - build slots insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: UpsertEntry - insert slots: %v", ErrExecQuery, err)
	}

	return nil
}

// SlotBookingUpdate изменение бронирующих полей слота
type SlotBookingUpdate struct {
	Status      domain.SlotStatus
	IsBooked    bool
	BookingID   *string
	JobID       *int64
	JobTitle    *string
	ClientName  *string
	RatePerHour *float64
}

// UpdateSlotBooking обновляет бронирующие поля слота через compare-and-set
// по версии. Если версия изменилась с момента чтения, возвращает
// ErrVersionConflict - вызывающая сторона трактует это как retryable conflict.
func (r *Repository) UpdateSlotBooking(ctx context.Context, slotID string, expectedVersion int64, update SlotBookingUpdate) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", update.Status).
		Set("is_booked", update.IsBooked).
		Set("booking_id", update.BookingID).
		Set("job_id", update.JobID).
		Set("job_title", update.JobTitle).
		Set("client_name", update.ClientName).
		Set("rate_per_hour", update.RatePerHour).
		Set("version", expectedVersion+1).
		Where(squirrel.Eq{"id": slotID, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlotBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSlotBooking - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSlotBooking - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо слот удалён, либо версия изменилась
		if exists, checkErr := r.slotExists(ctx, executor, slotID); checkErr == nil && !exists {
			return ErrSlotNotFound
		}
		return ErrVersionConflict
	}

	return nil
}

// DetachPattern отвязывает все записи, материализованные из паттерна.
// Записи и слоты сохраняются, исчезает только связь с паттерном.
func (r *Repository) DetachPattern(ctx context.Context, patternID string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("calendar_entries").
		Set("is_recurring", false).
		Set("pattern_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"pattern_id": patternID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DetachPattern - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DetachPattern - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// getSlots читает слоты пользователя за период, сгруппированные по дате
func (r *Repository) getSlots(ctx context.Context, executor DBExecutor, userID int64, from, to time.Time) (map[string][]domain.TimeSlot, error) {
	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"entry_date": domain.DateOnly(from)}).
		Where(squirrel.LtOrEq{"entry_date": domain.DateOnly(to)}).
		OrderBy("entry_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byDate := make(map[string][]domain.TimeSlot)
	for rows.Next() {
		var slot domain.TimeSlot
		var slotUserID int64
		var entryDate time.Time

		err := rows.Scan(
			&slot.ID,
			&slotUserID,
			&entryDate,
			&slot.StartTime,
			&slot.EndTime,
			&slot.Status,
			&slot.IsBooked,
			&slot.BookingID,
			&slot.JobID,
			&slot.JobTitle,
			&slot.ClientName,
			&slot.RatePerHour,
			&slot.Notes,
			&slot.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: getSlots - scan slot: %v", ErrScanRow, err)
		}

		key := entryDate.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getSlots - rows error: %v", ErrScanRow, err)
	}

	return byDate, nil
}

func (r *Repository) slotExists(ctx context.Context, executor DBExecutor, slotID string) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From("time_slots").
		Where(squirrel.Eq{"id": slotID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: slotExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: slotExists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanEntry(row rowScanner) (*domain.CalendarEntry, error) {
	entry, err := scanEntryRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanEntry - scan entry: %v", ErrScanRow, err)
	}
	return entry, nil
}

func (r *Repository) scanEntryFromRows(rows *sql.Rows) (*domain.CalendarEntry, error) {
	entry, err := scanEntryRow(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: scanEntryFromRows - scan entry: %v", ErrScanRow, err)
	}
	return entry, nil
}

func scanEntryRow(row rowScanner) (*domain.CalendarEntry, error) {
	var entry domain.CalendarEntry
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&entry.UserID,
		&entry.Date,
		&entry.Status,
		&entry.IsRecurring,
		&entry.PatternID,
		&entry.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time
	return &entry, nil
}
