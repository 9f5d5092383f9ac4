// Package ai holds the pgx repositories for conversations and messages.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartline/internal/domain"
	aimodels "heartline/internal/domain/models/ai"
	airepo "heartline/internal/domain/repositories/ai"
	"heartline/internal/repository/postgres"
)

// PostgresConversationRepository implements ConversationRepository.
type PostgresConversationRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewConversationRepository creates a conversation repository.
func NewConversationRepository(config *postgres.RepositoryConfig) airepo.ConversationRepository {
	return &PostgresConversationRepository{pool: config.Pool, logger: config.Logger}
}

// Create inserts a conversation.
func (r *PostgresConversationRepository) Create(ctx context.Context, conv *aimodels.Conversation) error {
	query := `
		INSERT INTO conversations (user_id, title, ai_mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		conv.UserID,
		conv.Title,
		conv.Mode,
		conv.CreatedAt,
		conv.UpdatedAt,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

// Get retrieves a conversation by ID.
func (r *PostgresConversationRepository) Get(ctx context.Context, conversationID string) (*aimodels.Conversation, error) {
	query := `
		SELECT id, user_id, title, ai_mode, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var conv aimodels.Conversation
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, conversationID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.Mode,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return &conv, nil
}

// ListByUser retrieves a user's conversations, most recently active first.
func (r *PostgresConversationRepository) ListByUser(ctx context.Context, userID string) ([]aimodels.Conversation, error) {
	query := `
		SELECT id, user_id, title, ai_mode, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (aimodels.Conversation, error) {
		var conv aimodels.Conversation
		err := row.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.Mode, &conv.CreatedAt, &conv.UpdatedAt)
		return conv, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan conversations: %w", err)
	}
	return conversations, nil
}

// Touch bumps updated_at to now.
func (r *PostgresConversationRepository) Touch(ctx context.Context, conversationID string) error {
	query := `UPDATE conversations SET updated_at = now() WHERE id = $1`

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, conversationID)
	if err != nil {
		return fmt.Errorf("touch conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	return nil
}
