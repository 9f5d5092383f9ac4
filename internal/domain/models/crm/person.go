package crm

import "time"

// Person is one tracked relationship, owned by a single user.
type Person struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	DisplayName      string     `json:"display_name" db:"display_name"`
	RelationshipType *string    `json:"relationship_type,omitempty" db:"relationship_type"`
	Birthday         *time.Time `json:"birthday,omitempty" db:"birthday"`
	Anniversary      *time.Time `json:"anniversary,omitempty" db:"anniversary"`
	Notes            *string    `json:"notes,omitempty" db:"notes"`
	Image            *string    `json:"image,omitempty" db:"image"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Note is a free-form record attached to a person.
type Note struct {
	ID         string         `json:"id" db:"id"`
	PersonID   string         `json:"person_id" db:"person_id"`
	Content    string         `json:"content" db:"content"`
	Source     *string        `json:"source,omitempty" db:"source"`
	OccurredAt *time.Time     `json:"occurred_at,omitempty" db:"occurred_at"`
	Meta       map[string]any `json:"meta_json,omitempty" db:"meta_json"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// Event is a dated occasion attached to a person (birthday dinner,
// anniversary trip, one-off plans).
type Event struct {
	ID        string     `json:"id" db:"id"`
	PersonID  string     `json:"person_id" db:"person_id"`
	Title     string     `json:"title" db:"title"`
	EventType *string    `json:"event_type,omitempty" db:"event_type"`
	StartAt   time.Time  `json:"start_at" db:"start_at"`
	EndAt     *time.Time `json:"end_at,omitempty" db:"end_at"`
	IsAllDay  bool       `json:"is_all_day" db:"is_all_day"`
	Details   *string    `json:"details,omitempty" db:"details"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
