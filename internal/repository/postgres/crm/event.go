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

const eventColumns = "id, person_id, title, event_type, start_at, end_at, is_all_day, details, created_at, updated_at"

// PostgresEventRepository implements EventRepository.
type PostgresEventRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewEventRepository creates an event repository.
func NewEventRepository(config *postgres.RepositoryConfig) crmrepo.EventRepository {
	return &PostgresEventRepository{pool: config.Pool, logger: config.Logger}
}

func scanEvent(row pgx.CollectableRow) (crm.Event, error) {
	var e crm.Event
	err := row.Scan(
		&e.ID,
		&e.PersonID,
		&e.Title,
		&e.EventType,
		&e.StartAt,
		&e.EndAt,
		&e.IsAllDay,
		&e.Details,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// Create inserts an event.
func (r *PostgresEventRepository) Create(ctx context.Context, e *crm.Event) error {
	query := `
		INSERT INTO events (person_id, title, event_type, start_at, end_at, is_all_day, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		e.PersonID,
		e.Title,
		e.EventType,
		e.StartAt,
		e.EndAt,
		e.IsAllDay,
		e.Details,
		e.CreatedAt,
		e.UpdatedAt,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("person %s: %w", e.PersonID, domain.ErrNotFound)
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Get retrieves an event by ID.
func (r *PostgresEventRepository) Get(ctx context.Context, eventID string) (*crm.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	event, err := pgx.CollectExactlyOneRow(rows, scanEvent)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

// ListByPerson retrieves a person's events, soonest first.
func (r *PostgresEventRepository) ListByPerson(ctx context.Context, personID string) ([]crm.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE person_id = $1 ORDER BY start_at ASC`, eventColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

// ListUpcoming joins events to their people for the user's future events.
func (r *PostgresEventRepository) ListUpcoming(ctx context.Context, userID string, from time.Time, limit int) ([]crm.EventWithPerson, error) {
	query := `
		SELECT e.id, e.person_id, e.title, e.event_type, e.start_at, e.end_at, e.is_all_day, e.details, e.created_at, e.updated_at,
		       p.id, p.user_id, p.display_name, p.relationship_type, p.birthday, p.anniversary, p.notes, p.image, p.created_at, p.updated_at
		FROM events e
		JOIN people p ON p.id = e.person_id
		WHERE p.user_id = $1 AND e.start_at >= $2
		ORDER BY e.start_at ASC
		LIMIT $3
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}

	items, err := pgx.CollectRows(rows, scanEventWithPerson)
	if err != nil {
		return nil, fmt.Errorf("scan upcoming events: %w", err)
	}
	return items, nil
}

func scanEventWithPerson(row pgx.CollectableRow) (crm.EventWithPerson, error) {
	var out crm.EventWithPerson
	err := row.Scan(
		&out.Event.ID,
		&out.Event.PersonID,
		&out.Event.Title,
		&out.Event.EventType,
		&out.Event.StartAt,
		&out.Event.EndAt,
		&out.Event.IsAllDay,
		&out.Event.Details,
		&out.Event.CreatedAt,
		&out.Event.UpdatedAt,
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
	return out, err
}

// Update writes the mutable event columns.
func (r *PostgresEventRepository) Update(ctx context.Context, e *crm.Event) error {
	query := `
		UPDATE events
		SET title = $2, event_type = $3, start_at = $4, end_at = $5, is_all_day = $6, details = $7, updated_at = $8
		WHERE id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, e.ID, e.Title, e.EventType, e.StartAt, e.EndAt, e.IsAllDay, e.Details, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", e.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an event.
func (r *PostgresEventRepository) Delete(ctx context.Context, eventID string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}
	return nil
}
