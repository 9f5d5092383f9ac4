package crm

import "time"

// NotificationSettings is one row per user; reads fall back to defaults
// when the row does not exist yet.
type NotificationSettings struct {
	UserID                string    `json:"user_id" db:"user_id"`
	EventReminders        bool      `json:"event_reminders" db:"event_reminders"`
	AISuggestions         bool      `json:"ai_suggestions" db:"ai_suggestions"`
	WeeklySummary         bool      `json:"weekly_summary" db:"weekly_summary"`
	EmailRemindersEnabled bool      `json:"email_reminders_enabled" db:"email_reminders_enabled"`
	EmailAddress          *string   `json:"email_address,omitempty" db:"email_address"`
	LeadTime              string    `json:"lead_time" db:"lead_time"`
	EmailScope            string    `json:"email_scope" db:"email_scope"`
	IncludeEventDetails   bool      `json:"include_event_details" db:"include_event_details"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultNotificationSettings returns the defaults for a user without a row.
func DefaultNotificationSettings(userID string) *NotificationSettings {
	return &NotificationSettings{
		UserID:                userID,
		EventReminders:        true,
		AISuggestions:         false,
		WeeklySummary:         true,
		EmailRemindersEnabled: true,
		LeadTime:              "1-day",
		EmailScope:            "all",
	}
}

// UserPreferences holds per-user UI preferences.
type UserPreferences struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Theme     string    `json:"theme" db:"theme"`
	Language  string    `json:"language" db:"language"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultUserPreferences returns the defaults for a user without a row.
func DefaultUserPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:   userID,
		Theme:    "system",
		Language: "en",
	}
}
