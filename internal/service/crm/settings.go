package crm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/httputil"
)

// UpdateNotificationSettingsRequest carries PATCH semantics; the row is
// created from defaults on first write.
type UpdateNotificationSettingsRequest struct {
	EventReminders        *bool                   `json:"event_reminders"`
	AISuggestions         *bool                   `json:"ai_suggestions"`
	WeeklySummary         *bool                   `json:"weekly_summary"`
	EmailRemindersEnabled *bool                   `json:"email_reminders_enabled"`
	EmailAddress          httputil.OptionalString `json:"email_address"`
	LeadTime              *string                 `json:"lead_time"`
	EmailScope            *string                 `json:"email_scope"`
	IncludeEventDetails   *bool                   `json:"include_event_details"`
}

// UpdateUserPreferencesRequest carries PATCH semantics for UI preferences.
type UpdateUserPreferencesRequest struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
}

// SettingsService manages per-user settings rows with read-time defaults.
type SettingsService struct {
	settingsRepo crmrepo.SettingsRepository
	logger       *slog.Logger
}

// NewSettingsService creates a settings service.
func NewSettingsService(settingsRepo crmrepo.SettingsRepository, logger *slog.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, logger: logger}
}

// GetNotificationSettings returns the user's settings, falling back to
// defaults when no row exists. The defaults are not persisted by a read.
func (s *SettingsService) GetNotificationSettings(ctx context.Context, userID string) (*crm.NotificationSettings, error) {
	settings, err := s.settingsRepo.GetNotificationSettings(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return crm.DefaultNotificationSettings(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateNotificationSettings applies a partial update over the current
// (possibly default) settings and upserts the row.
func (s *SettingsService) UpdateNotificationSettings(ctx context.Context, userID string, req *UpdateNotificationSettingsRequest) (*crm.NotificationSettings, error) {
	settings, err := s.GetNotificationSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.EventReminders != nil {
		settings.EventReminders = *req.EventReminders
	}
	if req.AISuggestions != nil {
		settings.AISuggestions = *req.AISuggestions
	}
	if req.WeeklySummary != nil {
		settings.WeeklySummary = *req.WeeklySummary
	}
	if req.EmailRemindersEnabled != nil {
		settings.EmailRemindersEnabled = *req.EmailRemindersEnabled
	}
	if req.EmailAddress.Present {
		settings.EmailAddress = req.EmailAddress.Value
	}
	if req.LeadTime != nil {
		settings.LeadTime = *req.LeadTime
	}
	if req.EmailScope != nil {
		settings.EmailScope = *req.EmailScope
	}
	if req.IncludeEventDetails != nil {
		settings.IncludeEventDetails = *req.IncludeEventDetails
	}
	settings.UpdatedAt = time.Now()

	if err := s.settingsRepo.UpsertNotificationSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// GetUserPreferences returns the user's UI preferences or the defaults.
func (s *SettingsService) GetUserPreferences(ctx context.Context, userID string) (*crm.UserPreferences, error) {
	prefs, err := s.settingsRepo.GetUserPreferences(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return crm.DefaultUserPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// UpdateUserPreferences applies a partial update and upserts the row.
func (s *SettingsService) UpdateUserPreferences(ctx context.Context, userID string, req *UpdateUserPreferencesRequest) (*crm.UserPreferences, error) {
	prefs, err := s.GetUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Theme != nil {
		prefs.Theme = *req.Theme
	}
	if req.Language != nil {
		prefs.Language = *req.Language
	}
	prefs.UpdatedAt = time.Now()

	if err := s.settingsRepo.UpsertUserPreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
