package ai

import (
	"time"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one persisted turn in a conversation.
//
// Sequence is a strictly increasing integer scoped to the conversation and
// defines replay order: loading messages by ascending sequence reproduces the
// dialogue exactly as it was submitted. The assistant reply to a user turn is
// always assigned the next sequence after that user turn. A unique index on
// (conversation_id, sequence) guards against racing writers.
type Message struct {
	ID             string         `json:"id" db:"id"`
	ConversationID string         `json:"conversation_id" db:"conversation_id"`
	Role           string         `json:"role" db:"role"`
	Content        MessageContent `json:"content" db:"content"`
	Sequence       int            `json:"sequence" db:"sequence"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// ChatTurn is one element of a submitted or replayed dialogue history.
// It is the wire shape shared by the stateless chat endpoint and the
// provider adapter; persisted Messages are converted to ChatTurns for replay.
type ChatTurn struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}
