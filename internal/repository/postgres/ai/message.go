package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartline/internal/domain"
	aimodels "heartline/internal/domain/models/ai"
	airepo "heartline/internal/domain/repositories/ai"
	"heartline/internal/repository/postgres"
)

// PostgresMessageRepository implements MessageRepository. Message content
// is stored as jsonb in its wire shape (string or block array) so history
// replays byte-for-byte.
type PostgresMessageRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewMessageRepository creates a message repository.
func NewMessageRepository(config *postgres.RepositoryConfig) airepo.MessageRepository {
	return &PostgresMessageRepository{pool: config.Pool, logger: config.Logger}
}

// Insert stores a message. The unique index on (conversation_id, sequence)
// maps to ErrConflict so the service can retry with a fresh sequence.
func (r *PostgresMessageRepository) Insert(ctx context.Context, msg *aimodels.Message) error {
	content, err := json.Marshal(msg.Content)
	if err != nil {
		return fmt.Errorf("marshal message content: %w", err)
	}

	query := `
		INSERT INTO messages (conversation_id, role, content, sequence, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		msg.ConversationID,
		msg.Role,
		content,
		msg.Sequence,
		msg.CreatedAt,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("sequence %d already taken in conversation %s", msg.Sequence, msg.ConversationID),
				ResourceType: "message",
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("conversation %s: %w", msg.ConversationID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListByConversation returns all messages in replay order.
func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]aimodels.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, sequence, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY sequence ASC
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (aimodels.Message, error) {
		var msg aimodels.Message
		var content []byte
		if err := row.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &content, &msg.Sequence, &msg.CreatedAt); err != nil {
			return msg, err
		}
		if err := json.Unmarshal(content, &msg.Content); err != nil {
			return msg, fmt.Errorf("unmarshal message content: %w", err)
		}
		return msg, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}
	return messages, nil
}

// NextSequence returns max(sequence)+1 for the conversation, 0 when empty.
func (r *PostgresMessageRepository) NextSequence(ctx context.Context, conversationID string) (int, error) {
	query := `SELECT COALESCE(MAX(sequence) + 1, 0) FROM messages WHERE conversation_id = $1`

	var next int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, conversationID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next, nil
}
