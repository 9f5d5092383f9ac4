package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/repository/postgres"
)

// PostgresDashboardRepository implements DashboardRepository. Every query
// scopes to the user and optionally narrows to a single person.
type PostgresDashboardRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewDashboardRepository creates a dashboard repository.
func NewDashboardRepository(config *postgres.RepositoryConfig) crmrepo.DashboardRepository {
	return &PostgresDashboardRepository{pool: config.Pool, logger: config.Logger}
}

// LastCompletedGestureAt returns the most recent completed_at, or nil when
// no gesture was ever completed.
func (r *PostgresDashboardRepository) LastCompletedGestureAt(ctx context.Context, userID, personID string) (*time.Time, error) {
	query := `SELECT MAX(completed_at) FROM gestures WHERE user_id = $1 AND status = 'completed'`
	args := []any{userID}
	if personID != "" {
		args = append(args, personID)
		query += fmt.Sprintf(" AND person_id = $%d", len(args))
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	var last *time.Time
	if err := executor.QueryRow(ctx, query, args...).Scan(&last); err != nil {
		return nil, fmt.Errorf("last completed gesture: %w", err)
	}
	return last, nil
}

// CountGestures counts gestures by status, optionally restricted to those
// completed after a cutoff.
func (r *PostgresDashboardRepository) CountGestures(ctx context.Context, userID, personID, status string, completedAfter *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM gestures WHERE user_id = $1 AND status = $2`
	args := []any{userID, status}
	if personID != "" {
		args = append(args, personID)
		query += fmt.Sprintf(" AND person_id = $%d", len(args))
	}
	if completedAfter != nil {
		args = append(args, *completedAfter)
		query += fmt.Sprintf(" AND completed_at >= $%d", len(args))
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	var count int
	if err := executor.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count gestures: %w", err)
	}
	return count, nil
}

// RecentCompletedGestures returns the latest completed gestures.
func (r *PostgresDashboardRepository) RecentCompletedGestures(ctx context.Context, userID, personID string, limit int) ([]crm.Gesture, error) {
	query := fmt.Sprintf(`SELECT %s FROM gestures WHERE user_id = $1 AND status = 'completed'`, gestureColumns)
	args := []any{userID}
	if personID != "" {
		args = append(args, personID)
		query += fmt.Sprintf(" AND person_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY completed_at DESC LIMIT $%d", len(args))

	return r.queryGestures(ctx, "recent completed gestures", query, args)
}

// SuggestedGestures returns pending gestures with the nearest due dates.
func (r *PostgresDashboardRepository) SuggestedGestures(ctx context.Context, userID, personID string, limit int) ([]crm.Gesture, error) {
	query := fmt.Sprintf(`SELECT %s FROM gestures WHERE user_id = $1 AND status = 'pending'`, gestureColumns)
	args := []any{userID}
	if personID != "" {
		args = append(args, personID)
		query += fmt.Sprintf(" AND person_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY due_at ASC NULLS LAST LIMIT $%d", len(args))

	return r.queryGestures(ctx, "suggested gestures", query, args)
}

func (r *PostgresDashboardRepository) queryGestures(ctx context.Context, op, query string, args []any) ([]crm.Gesture, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gestures, err := pgx.CollectRows(rows, scanGesture)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", op, err)
	}
	return gestures, nil
}

// UpcomingEvents returns the user's next events joined with their people.
func (r *PostgresDashboardRepository) UpcomingEvents(ctx context.Context, userID, personID string, from time.Time, limit int) ([]crm.EventWithPerson, error) {
	query := `
		SELECT e.id, e.person_id, e.title, e.event_type, e.start_at, e.end_at, e.is_all_day, e.details, e.created_at, e.updated_at,
		       p.id, p.user_id, p.display_name, p.relationship_type, p.birthday, p.anniversary, p.notes, p.image, p.created_at, p.updated_at
		FROM events e
		JOIN people p ON p.id = e.person_id
		WHERE p.user_id = $1 AND e.start_at >= $2
	`
	args := []any{userID, from}
	if personID != "" {
		args = append(args, personID)
		query += fmt.Sprintf(" AND e.person_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY e.start_at ASC LIMIT $%d", len(args))

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard upcoming events: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanEventWithPerson)
	if err != nil {
		return nil, fmt.Errorf("scan dashboard upcoming events: %w", err)
	}
	return items, nil
}

// RecentNotes returns the user's newest notes joined with their people.
func (r *PostgresDashboardRepository) RecentNotes(ctx context.Context, userID, personID string, limit int) ([]crm.NoteWithPerson, error) {
	query := `
		SELECT n.id, n.person_id, n.content, n.source, n.occurred_at, n.meta_json, n.created_at, n.updated_at,
		       p.id, p.user_id, p.display_name, p.relationship_type, p.birthday, p.anniversary, p.notes, p.image, p.created_at, p.updated_at
		FROM notes n
		JOIN people p ON p.id = n.person_id
		WHERE p.user_id = $1
	`
	args := []any{userID}
	if personID != "" {
		args = append(args, personID)
		query += fmt.Sprintf(" AND n.person_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY n.created_at DESC LIMIT $%d", len(args))

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard recent notes: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanNoteWithPerson)
	if err != nil {
		return nil, fmt.Errorf("scan dashboard recent notes: %w", err)
	}
	return items, nil
}

func scanNoteWithPerson(row pgx.CollectableRow) (crm.NoteWithPerson, error) {
	var out crm.NoteWithPerson
	var meta []byte
	err := row.Scan(
		&out.Note.ID,
		&out.Note.PersonID,
		&out.Note.Content,
		&out.Note.Source,
		&out.Note.OccurredAt,
		&meta,
		&out.Note.CreatedAt,
		&out.Note.UpdatedAt,
		&out.Person.ID,
		&out.Person.UserID,
		&out.Person.DisplayName,
		&out.Person.RelationshipType,
		&out.Person.Birthday,
		&out.Person.Anniversary,
		&out.Person.Notes,
		&out.Person.Image,
		&out.Person.CreatedAt,
		&out.Person.UpdatedAt,
	)
	if err != nil {
		return out, err
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &out.Note.Meta); err != nil {
			return out, fmt.Errorf("unmarshal note meta: %w", err)
		}
	}
	return out, nil
}
