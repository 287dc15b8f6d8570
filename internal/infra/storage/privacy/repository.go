package privacy

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

// Repository репозиторий настроек приватности.
// Одна строка на пользователя; списки пользователей и дат хранятся как JSONB.
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек приватности
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки приватности пользователя
func (r *Repository) Get(ctx context.Context, userID int64) (*domain.PrivacySettings, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"user_id",
		"is_visible",
		"visibility_level",
		"allowed_users",
		"hidden_dates",
		"show_partial_availability",
		"lead_time_hours",
		"advance_booking_days",
		"notify_on_booking",
		"notify_on_cancellation",
		"created_at",
		"updated_at",
	).
		From("privacy_settings").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.PrivacySettings
	var allowedJSON, hiddenJSON []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.UserID,
		&s.IsVisible,
		&s.VisibilityLevel,
		&allowedJSON,
		&hiddenJSON,
		&s.ShowPartialAvailability,
		&s.LeadTimeHours,
		&s.AdvanceBookingDays,
		&s.NotifyOnBooking,
		&s.NotifyOnCancellation,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(allowedJSON, &s.AllowedUsers); err != nil {
		return nil, fmt.Errorf("%w: Get - decode allowed_users: %v", ErrScanRow, err)
	}
	if err := json.Unmarshal(hiddenJSON, &s.HiddenDates); err != nil {
		return nil, fmt.Errorf("%w: Get - decode hidden_dates: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}

// Upsert сохраняет настройки приватности пользователя (insert или update)
func (r *Repository) Upsert(ctx context.Context, s *domain.PrivacySettings) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	allowed := s.AllowedUsers
	if allowed == nil {
		allowed = []int64{}
	}
	allowedJSON, err := json.Marshal(allowed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeSettings, err)
	}

	hidden := s.HiddenDates
	if hidden == nil {
		hidden = []string{}
	}
	hiddenJSON, err := json.Marshal(hidden)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeSettings, err)
	}

	query, args, err := psqlbuilder.Insert("privacy_settings").
		Columns("user_id", "is_visible", "visibility_level", "allowed_users", "hidden_dates",
			"show_partial_availability", "lead_time_hours", "advance_booking_days",
			"notify_on_booking", "notify_on_cancellation").
		Values(s.UserID, s.IsVisible, s.VisibilityLevel, allowedJSON, hiddenJSON,
			s.ShowPartialAvailability, s.LeadTimeHours, s.AdvanceBookingDays,
			s.NotifyOnBooking, s.NotifyOnCancellation).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			is_visible = EXCLUDED.is_visible,
			visibility_level = EXCLUDED.visibility_level,
			allowed_users = EXCLUDED.allowed_users,
			hidden_dates = EXCLUDED.hidden_dates,
			show_partial_availability = EXCLUDED.show_partial_availability,
			lead_time_hours = EXCLUDED.lead_time_hours,
			advance_booking_days = EXCLUDED.advance_booking_days,
			notify_on_booking = EXCLUDED.notify_on_booking,
			notify_on_cancellation = EXCLUDED.notify_on_cancellation,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return nil
}
