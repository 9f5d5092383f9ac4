package crm

import (
	"context"
	"time"

	"heartline/internal/domain/models/crm"
)

// PersonFilter narrows person listings.
type PersonFilter struct {
	Search           string // substring match on display_name, case-insensitive
	RelationshipType string
}

// PersonRepository persists people.
type PersonRepository interface {
	Create(ctx context.Context, p *crm.Person) error
	Get(ctx context.Context, personID string) (*crm.Person, error)
	ListByUser(ctx context.Context, userID string, filter PersonFilter) ([]crm.Person, error)
	Update(ctx context.Context, p *crm.Person) error
	Delete(ctx context.Context, personID string) error
}

// NoteRepository persists notes attached to people.
type NoteRepository interface {
	Create(ctx context.Context, n *crm.Note) error
	Get(ctx context.Context, noteID string) (*crm.Note, error)
	ListByPerson(ctx context.Context, personID string) ([]crm.Note, error)
	Update(ctx context.Context, n *crm.Note) error
	Delete(ctx context.Context, noteID string) error
}

// EventRepository persists events attached to people.
type EventRepository interface {
	Create(ctx context.Context, e *crm.Event) error
	Get(ctx context.Context, eventID string) (*crm.Event, error)
	ListByPerson(ctx context.Context, personID string) ([]crm.Event, error)
	// ListUpcoming returns events for the user's people starting at or after
	// "from", ordered by start_at asc, at most limit rows.
	ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]crm.EventWithPerson, error)
	Update(ctx context.Context, e *crm.Event) error
	Delete(ctx context.Context, eventID string) error
}

// GestureFilter narrows gesture listings.
type GestureFilter struct {
	Status   string
	PersonID string
	Category string
	Effort   string
}

// GestureRepository persists gestures and templates.
type GestureRepository interface {
	Create(ctx context.Context, g *crm.Gesture) error
	Get(ctx context.Context, gestureID string) (*crm.Gesture, error)
	ListByUser(ctx context.Context, userID string, filter GestureFilter) ([]crm.Gesture, error)
	// ListUpcoming returns pending gestures due at or after "from", ordered
	// by due_at asc, at most limit rows.
	ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]crm.Gesture, error)
	Update(ctx context.Context, g *crm.Gesture) error
	Delete(ctx context.Context, gestureID string) error

	CreateTemplate(ctx context.Context, t *crm.GestureTemplate) error
	GetTemplate(ctx context.Context, templateID string) (*crm.GestureTemplate, error)
	ListTemplates(ctx context.Context, userID string) ([]crm.GestureTemplate, error)
	UpdateTemplate(ctx context.Context, t *crm.GestureTemplate) error
	DeleteTemplate(ctx context.Context, templateID string) error
}

// PreferenceRepository persists per-person like/dislike preferences.
type PreferenceRepository interface {
	// Create inserts a preference; returns domain.ErrConflict when the
	// normalized (person_id, kind, value) triple already exists.
	Create(ctx context.Context, p *crm.PersonPreference) error
	// Get returns the preference together with its person's owner user ID.
	Get(ctx context.Context, preferenceID string) (*crm.PersonPreference, string, error)
	ListByPerson(ctx context.Context, personID string, kind string) ([]crm.PersonPreference, error)
	Delete(ctx context.Context, preferenceID string) error
}

// SettingsRepository persists per-user settings rows.
type SettingsRepository interface {
	GetNotificationSettings(ctx context.Context, userID string) (*crm.NotificationSettings, error)
	UpsertNotificationSettings(ctx context.Context, s *crm.NotificationSettings) error
	GetUserPreferences(ctx context.Context, userID string) (*crm.UserPreferences, error)
	UpsertUserPreferences(ctx context.Context, p *crm.UserPreferences) error
}

// DashboardRepository runs the aggregate dashboard queries. personID may be
// empty to aggregate across all of the user's people.
type DashboardRepository interface {
	LastCompletedGestureAt(ctx context.Context, userID, personID string) (*time.Time, error)
	CountGestures(ctx context.Context, userID, personID, status string, completedAfter *time.Time) (int, error)
	RecentCompletedGestures(ctx context.Context, userID, personID string, limit int) ([]crm.Gesture, error)
	SuggestedGestures(ctx context.Context, userID, personID string, limit int) ([]crm.Gesture, error)
	UpcomingEvents(ctx context.Context, userID, personID string, from time.Time, limit int) ([]crm.EventWithPerson, error)
	RecentNotes(ctx context.Context, userID, personID string, limit int) ([]crm.NoteWithPerson, error)
}
