package crm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/repository/postgres"
)

const gestureColumns = "id, user_id, person_id, template_id, title, category, effort, status, due_at, completed_at, repeat_mode, repeat_every_days, notes, created_at, updated_at"

// PostgresGestureRepository implements GestureRepository.
type PostgresGestureRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewGestureRepository creates a gesture repository.
func NewGestureRepository(config *postgres.RepositoryConfig) crmrepo.GestureRepository {
	return &PostgresGestureRepository{pool: config.Pool, logger: config.Logger}
}

func scanGesture(row pgx.CollectableRow) (crm.Gesture, error) {
	var g crm.Gesture
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.PersonID,
		&g.TemplateID,
		&g.Title,
		&g.Category,
		&g.Effort,
		&g.Status,
		&g.DueAt,
		&g.CompletedAt,
		&g.RepeatMode,
		&g.RepeatEveryDays,
		&g.Notes,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

// Create inserts a gesture.
func (r *PostgresGestureRepository) Create(ctx context.Context, g *crm.Gesture) error {
	query := `
		INSERT INTO gestures (user_id, person_id, template_id, title, category, effort, status,
		                      due_at, completed_at, repeat_mode, repeat_every_days, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		g.UserID,
		g.PersonID,
		g.TemplateID,
		g.Title,
		g.Category,
		g.Effort,
		g.Status,
		g.DueAt,
		g.CompletedAt,
		g.RepeatMode,
		g.RepeatEveryDays,
		g.Notes,
		g.CreatedAt,
		g.UpdatedAt,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("referenced person or template: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create gesture: %w", err)
	}
	return nil
}

// Get retrieves a gesture by ID.
func (r *PostgresGestureRepository) Get(ctx context.Context, gestureID string) (*crm.Gesture, error) {
	query := fmt.Sprintf(`SELECT %s FROM gestures WHERE id = $1`, gestureColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, gestureID)
	if err != nil {
		return nil, fmt.Errorf("get gesture: %w", err)
	}

	gesture, err := pgx.CollectExactlyOneRow(rows, scanGesture)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("gesture %s: %w", gestureID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get gesture: %w", err)
	}
	return &gesture, nil
}

// ListByUser retrieves a user's gestures, newest first, with optional
// equality filters.
func (r *PostgresGestureRepository) ListByUser(ctx context.Context, userID string, filter crmrepo.GestureFilter) ([]crm.Gesture, error) {
	query := fmt.Sprintf(`SELECT %s FROM gestures WHERE user_id = $1`, gestureColumns)
	args := []any{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.PersonID != "" {
		args = append(args, filter.PersonID)
		query += fmt.Sprintf(" AND person_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Effort != "" {
		args = append(args, filter.Effort)
		query += fmt.Sprintf(" AND effort = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list gestures: %w", err)
	}

	gestures, err := pgx.CollectRows(rows, scanGesture)
	if err != nil {
		return nil, fmt.Errorf("scan gestures: %w", err)
	}
	return gestures, nil
}

// ListUpcoming retrieves pending gestures due at or after "from".
func (r *PostgresGestureRepository) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]crm.Gesture, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM gestures
		WHERE user_id = $1 AND status = 'pending' AND due_at >= $2
		ORDER BY due_at ASC
		LIMIT $3
	`, gestureColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming gestures: %w", err)
	}

	gestures, err := pgx.CollectRows(rows, scanGesture)
	if err != nil {
		return nil, fmt.Errorf("scan upcoming gestures: %w", err)
	}
	return gestures, nil
}

// Update writes the mutable gesture columns.
func (r *PostgresGestureRepository) Update(ctx context.Context, g *crm.Gesture) error {
	query := `
		UPDATE gestures
		SET person_id = $2, title = $3, category = $4, effort = $5, status = $6,
		    due_at = $7, completed_at = $8, repeat_mode = $9, repeat_every_days = $10,
		    notes = $11, updated_at = $12
		WHERE id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		g.ID,
		g.PersonID,
		g.Title,
		g.Category,
		g.Effort,
		g.Status,
		g.DueAt,
		g.CompletedAt,
		g.RepeatMode,
		g.RepeatEveryDays,
		g.Notes,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update gesture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gesture %s: %w", g.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a gesture.
func (r *PostgresGestureRepository) Delete(ctx context.Context, gestureID string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, `DELETE FROM gestures WHERE id = $1`, gestureID)
	if err != nil {
		return fmt.Errorf("delete gesture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gesture %s: %w", gestureID, domain.ErrNotFound)
	}
	return nil
}

// CreateTemplate inserts a gesture template.
func (r *PostgresGestureRepository) CreateTemplate(ctx context.Context, t *crm.GestureTemplate) error {
	query := `
		INSERT INTO gesture_templates (user_id, title, category, effort, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		t.UserID,
		t.Title,
		t.Category,
		t.Effort,
		t.Description,
		t.CreatedAt,
		t.UpdatedAt,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create gesture template: %w", err)
	}
	return nil
}

func scanTemplate(row pgx.CollectableRow) (crm.GestureTemplate, error) {
	var t crm.GestureTemplate
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Category, &t.Effort, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// GetTemplate retrieves a template by ID.
func (r *PostgresGestureRepository) GetTemplate(ctx context.Context, templateID string) (*crm.GestureTemplate, error) {
	query := `
		SELECT id, user_id, title, category, effort, description, created_at, updated_at
		FROM gesture_templates WHERE id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, templateID)
	if err != nil {
		return nil, fmt.Errorf("get gesture template: %w", err)
	}

	template, err := pgx.CollectExactlyOneRow(rows, scanTemplate)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("gesture template %s: %w", templateID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get gesture template: %w", err)
	}
	return &template, nil
}

// ListTemplates retrieves a user's templates, alphabetically.
func (r *PostgresGestureRepository) ListTemplates(ctx context.Context, userID string) ([]crm.GestureTemplate, error) {
	query := `
		SELECT id, user_id, title, category, effort, description, created_at, updated_at
		FROM gesture_templates
		WHERE user_id = $1
		ORDER BY title ASC
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list gesture templates: %w", err)
	}

	templates, err := pgx.CollectRows(rows, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("scan gesture templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate writes the mutable template columns.
func (r *PostgresGestureRepository) UpdateTemplate(ctx context.Context, t *crm.GestureTemplate) error {
	query := `
		UPDATE gesture_templates
		SET title = $2, category = $3, effort = $4, description = $5, updated_at = $6
		WHERE id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, t.ID, t.Title, t.Category, t.Effort, t.Description, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update gesture template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gesture template %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteTemplate removes a template. Gestures keep their template_id via
// ON DELETE SET NULL.
func (r *PostgresGestureRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, `DELETE FROM gesture_templates WHERE id = $1`, templateID)
	if err != nil {
		return fmt.Errorf("delete gesture template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("gesture template %s: %w", templateID, domain.ErrNotFound)
	}
	return nil
}
