package ai

import (
	"time"
)

// Conversation represents a persisted AI chat session owned by one user.
// Every message access re-checks ownership against UserID; conversations
// are never shared across users.
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Mode      string    `json:"ai_mode" db:"ai_mode"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultConversationTitle is used when a conversation is created without one.
const DefaultConversationTitle = "New conversation"
