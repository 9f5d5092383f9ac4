package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/repository/postgres"
)

// PostgresNoteRepository implements NoteRepository. The meta column is
// free-form jsonb.
type PostgresNoteRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewNoteRepository creates a note repository.
func NewNoteRepository(config *postgres.RepositoryConfig) crmrepo.NoteRepository {
	return &PostgresNoteRepository{pool: config.Pool, logger: config.Logger}
}

func scanNote(row pgx.CollectableRow) (crm.Note, error) {
	var n crm.Note
	var meta []byte
	if err := row.Scan(&n.ID, &n.PersonID, &n.Content, &n.Source, &n.OccurredAt, &meta, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return n, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &n.Meta); err != nil {
			return n, fmt.Errorf("unmarshal note meta: %w", err)
		}
	}
	return n, nil
}

func marshalMeta(meta map[string]any) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	return json.Marshal(meta)
}

// Create inserts a note.
func (r *PostgresNoteRepository) Create(ctx context.Context, n *crm.Note) error {
	meta, err := marshalMeta(n.Meta)
	if err != nil {
		return fmt.Errorf("marshal note meta: %w", err)
	}

	query := `
		INSERT INTO notes (person_id, content, source, occurred_at, meta_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		n.PersonID,
		n.Content,
		n.Source,
		n.OccurredAt,
		meta,
		n.CreatedAt,
		n.UpdatedAt,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("person %s: %w", n.PersonID, domain.ErrNotFound)
		}
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// Get retrieves a note by ID.
func (r *PostgresNoteRepository) Get(ctx context.Context, noteID string) (*crm.Note, error) {
	query := `
		SELECT id, person_id, content, source, occurred_at, meta_json, created_at, updated_at
		FROM notes WHERE id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, noteID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}

	note, err := pgx.CollectExactlyOneRow(rows, scanNote)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("note %s: %w", noteID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

// ListByPerson retrieves a person's notes, newest first.
func (r *PostgresNoteRepository) ListByPerson(ctx context.Context, personID string) ([]crm.Note, error) {
	query := `
		SELECT id, person_id, content, source, occurred_at, meta_json, created_at, updated_at
		FROM notes WHERE person_id = $1
		ORDER BY created_at DESC
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes, err := pgx.CollectRows(rows, scanNote)
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}
	return notes, nil
}

// Update writes the mutable note columns.
func (r *PostgresNoteRepository) Update(ctx context.Context, n *crm.Note) error {
	meta, err := marshalMeta(n.Meta)
	if err != nil {
		return fmt.Errorf("marshal note meta: %w", err)
	}

	query := `
		UPDATE notes
		SET content = $2, source = $3, occurred_at = $4, meta_json = $5, updated_at = $6
		WHERE id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, n.ID, n.Content, n.Source, n.OccurredAt, meta, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", n.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a note.
func (r *PostgresNoteRepository) Delete(ctx context.Context, noteID string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, `DELETE FROM notes WHERE id = $1`, noteID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", noteID, domain.ErrNotFound)
	}
	return nil
}
