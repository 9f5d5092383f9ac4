package ai

import (
	"context"

	"heartline/internal/domain/models/ai"
)

// ConversationRepository persists conversations. Implementations return
// domain.ErrNotFound for missing rows; ownership (user_id mismatch) is
// decided by the service layer, which needs to distinguish 403 from 404.
type ConversationRepository interface {
	// Create inserts a conversation and fills in its generated fields.
	Create(ctx context.Context, conv *ai.Conversation) error

	// Get retrieves a conversation by ID regardless of owner.
	Get(ctx context.Context, conversationID string) (*ai.Conversation, error)

	// ListByUser returns a user's conversations ordered by updated_at desc.
	ListByUser(ctx context.Context, userID string) ([]ai.Conversation, error)

	// Touch bumps updated_at so the conversation sorts to the top.
	Touch(ctx context.Context, conversationID string) error
}

// MessageRepository persists conversation messages.
type MessageRepository interface {
	// Insert stores a message and fills in its generated fields.
	// Returns domain.ErrConflict if the (conversation_id, sequence) pair
	// already exists, so callers can re-read the max and retry.
	Insert(ctx context.Context, msg *ai.Message) error

	// ListByConversation returns all messages ordered by ascending sequence.
	ListByConversation(ctx context.Context, conversationID string) ([]ai.Message, error)

	// NextSequence returns max(sequence)+1 for the conversation, 0 if empty.
	NextSequence(ctx context.Context, conversationID string) (int, error)
}
