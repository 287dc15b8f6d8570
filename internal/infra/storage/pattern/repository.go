package pattern

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CalendarService/internal/domain"
	"github.com/m04kA/SMC-CalendarService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-CalendarService/pkg/txmanager"
)

var patternColumns = []string{
	"id",
	"user_id",
	"name",
	"pattern_type",
	"schedule",
	"valid_from",
	"valid_until",
	"exception_dates",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий повторяющихся паттернов доступности.
// Расписание и даты-исключения хранятся как JSONB.
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория паттернов
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый паттерн
func (r *Repository) Create(ctx context.Context, p *domain.RecurringPattern) (*domain.RecurringPattern, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	scheduleJSON, exceptionsJSON, err := encodePattern(p)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("recurring_patterns").
		Columns("id", "user_id", "name", "pattern_type", "schedule", "valid_from", "valid_until", "exception_dates", "is_active").
		Values(p.ID, p.UserID, p.Name, p.Type, scheduleJSON, domain.DateOnly(p.ValidFrom), p.ValidUntil, exceptionsJSON, p.IsActive).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return p, nil
}

// GetByID получает паттерн по идентификатору
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.RecurringPattern, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(patternColumns...).
		From("recurring_patterns").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPattern(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPatternNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan pattern: %v", ErrScanRow, err)
	}
	return p, nil
}

// Update перезаписывает изменяемые поля паттерна
func (r *Repository) Update(ctx context.Context, p *domain.RecurringPattern) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	scheduleJSON, exceptionsJSON, err := encodePattern(p)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update("recurring_patterns").
		Set("name", p.Name).
		Set("pattern_type", p.Type).
		Set("schedule", scheduleJSON).
		Set("valid_from", domain.DateOnly(p.ValidFrom)).
		Set("valid_until", p.ValidUntil).
		Set("exception_dates", exceptionsJSON).
		Set("is_active", p.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
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
		return ErrPatternNotFound
	}
	return nil
}

// Delete удаляет паттерн. Отвязка материализованных записей - забота
// вызывающей стороны (calendar.Repository.DetachPattern в одной транзакции).
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("recurring_patterns").
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
		return ErrPatternNotFound
	}
	return nil
}

// ListActive возвращает все активные паттерны.
// Используется горизонт-worker'ом для фоновой материализации.
func (r *Repository) ListActive(ctx context.Context) ([]*domain.RecurringPattern, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(patternColumns...).
		From("recurring_patterns").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	patterns := make([]*domain.RecurringPattern, 0)
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan pattern: %v", ErrScanRow, err)
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return patterns, nil
}

func encodePattern(p *domain.RecurringPattern) ([]byte, []byte, error) {
	scheduleJSON, err := json.Marshal(p.Schedule)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncodeSchedule, err)
	}

	exceptions := p.ExceptionDates
	if exceptions == nil {
		exceptions = []string{}
	}
	exceptionsJSON, err := json.Marshal(exceptions)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncodeSchedule, err)
	}

	return scheduleJSON, exceptionsJSON, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPattern(row rowScanner) (*domain.RecurringPattern, error) {
	var p domain.RecurringPattern
	var scheduleJSON, exceptionsJSON []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Type,
		&scheduleJSON,
		&p.ValidFrom,
		&p.ValidUntil,
		&exceptionsJSON,
		&p.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scheduleJSON, &p.Schedule); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(exceptionsJSON, &p.ExceptionDates); err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}
