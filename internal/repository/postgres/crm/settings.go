package crm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/repository/postgres"
)

// PostgresSettingsRepository implements SettingsRepository. Both tables hold
// at most one row per user; reads return ErrNotFound when the row is absent
// and the service layer substitutes defaults.
type PostgresSettingsRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewSettingsRepository creates a settings repository.
func NewSettingsRepository(config *postgres.RepositoryConfig) crmrepo.SettingsRepository {
	return &PostgresSettingsRepository{pool: config.Pool, logger: config.Logger}
}

// GetNotificationSettings retrieves the user's notification settings row.
func (r *PostgresSettingsRepository) GetNotificationSettings(ctx context.Context, userID string) (*crm.NotificationSettings, error) {
	query := `
		SELECT user_id, event_reminders, ai_suggestions, weekly_summary, email_reminders_enabled,
		       email_address, lead_time, email_scope, include_event_details, updated_at
		FROM notification_settings
		WHERE user_id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	var s crm.NotificationSettings
	err := executor.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.EventReminders,
		&s.AISuggestions,
		&s.WeeklySummary,
		&s.EmailRemindersEnabled,
		&s.EmailAddress,
		&s.LeadTime,
		&s.EmailScope,
		&s.IncludeEventDetails,
		&s.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("notification settings for user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get notification settings: %w", err)
	}
	return &s, nil
}

// UpsertNotificationSettings writes the user's notification settings row.
func (r *PostgresSettingsRepository) UpsertNotificationSettings(ctx context.Context, s *crm.NotificationSettings) error {
	query := `
		INSERT INTO notification_settings (user_id, event_reminders, ai_suggestions, weekly_summary,
		                                   email_reminders_enabled, email_address, lead_time, email_scope,
		                                   include_event_details, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (user_id) DO UPDATE SET
			event_reminders = EXCLUDED.event_reminders,
			ai_suggestions = EXCLUDED.ai_suggestions,
			weekly_summary = EXCLUDED.weekly_summary,
			email_reminders_enabled = EXCLUDED.email_reminders_enabled,
			email_address = EXCLUDED.email_address,
			lead_time = EXCLUDED.lead_time,
			email_scope = EXCLUDED.email_scope,
			include_event_details = EXCLUDED.include_event_details,
			updated_at = now()
		RETURNING updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		s.UserID,
		s.EventReminders,
		s.AISuggestions,
		s.WeeklySummary,
		s.EmailRemindersEnabled,
		s.EmailAddress,
		s.LeadTime,
		s.EmailScope,
		s.IncludeEventDetails,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert notification settings: %w", err)
	}
	return nil
}

// GetUserPreferences retrieves the user's UI preferences row.
func (r *PostgresSettingsRepository) GetUserPreferences(ctx context.Context, userID string) (*crm.UserPreferences, error) {
	query := `SELECT user_id, theme, language, updated_at FROM user_preferences WHERE user_id = $1`

	executor := postgres.GetExecutor(ctx, r.pool)
	var p crm.UserPreferences
	err := executor.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.Theme, &p.Language, &p.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user preferences for user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user preferences: %w", err)
	}
	return &p, nil
}

// UpsertUserPreferences writes the user's UI preferences row.
func (r *PostgresSettingsRepository) UpsertUserPreferences(ctx context.Context, p *crm.UserPreferences) error {
	query := `
		INSERT INTO user_preferences (user_id, theme, language, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			language = EXCLUDED.language,
			updated_at = now()
		RETURNING updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, p.UserID, p.Theme, p.Language).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user preferences: %w", err)
	}
	return nil
}
