package crm

import "time"

// Gesture status values
const (
	GestureStatusPending   = "pending"
	GestureStatusCompleted = "completed"
	GestureStatusSkipped   = "skipped"
)

// Gesture is a planned act of attention (a reminder-to-do) for a person.
// Completing a repeating gesture spawns the next pending instance with
// due_at advanced by RepeatEveryDays.
type Gesture struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	PersonID        *string    `json:"person_id,omitempty" db:"person_id"`
	TemplateID      *string    `json:"template_id,omitempty" db:"template_id"`
	Title           string     `json:"title" db:"title"`
	Category        string     `json:"category" db:"category"`
	Effort          string     `json:"effort" db:"effort"`
	Status          string     `json:"status" db:"status"`
	DueAt           *time.Time `json:"due_at,omitempty" db:"due_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	RepeatMode      *string    `json:"repeat_mode,omitempty" db:"repeat_mode"`
	RepeatEveryDays *int       `json:"repeat_every_days,omitempty" db:"repeat_every_days"`
	Notes           *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// GestureTemplate is a reusable per-user gesture preset.
type GestureTemplate struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Category    string    `json:"category" db:"category"`
	Effort      string    `json:"effort" db:"effort"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
