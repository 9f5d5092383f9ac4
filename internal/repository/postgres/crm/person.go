// Package crm holds the pgx repositories for the CRM resources.
package crm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/repository/postgres"
)

// personColumns is the select list shared by every person query.
const personColumns = "id, user_id, display_name, relationship_type, birthday, anniversary, notes, image, created_at, updated_at"

// PostgresPersonRepository implements PersonRepository.
type PostgresPersonRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPersonRepository creates a person repository.
func NewPersonRepository(config *postgres.RepositoryConfig) crmrepo.PersonRepository {
	return &PostgresPersonRepository{pool: config.Pool, logger: config.Logger}
}

func scanPerson(row pgx.CollectableRow) (crm.Person, error) {
	var p crm.Person
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.DisplayName,
		&p.RelationshipType,
		&p.Birthday,
		&p.Anniversary,
		&p.Notes,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// Create inserts a person.
func (r *PostgresPersonRepository) Create(ctx context.Context, p *crm.Person) error {
	query := `
		INSERT INTO people (user_id, display_name, relationship_type, birthday, anniversary, notes, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		p.UserID,
		p.DisplayName,
		p.RelationshipType,
		p.Birthday,
		p.Anniversary,
		p.Notes,
		p.Image,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// Get retrieves a person by ID.
func (r *PostgresPersonRepository) Get(ctx context.Context, personID string) (*crm.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM people WHERE id = $1`, personColumns)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}

	person, err := pgx.CollectExactlyOneRow(rows, scanPerson)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("person %s: %w", personID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &person, nil
}

// ListByUser retrieves a user's people, filtered and name-ordered.
func (r *PostgresPersonRepository) ListByUser(ctx context.Context, userID string, filter crmrepo.PersonFilter) ([]crm.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM people WHERE user_id = $1`, personColumns)
	args := []any{userID}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND display_name ILIKE $%d", len(args))
	}
	if filter.RelationshipType != "" {
		args = append(args, filter.RelationshipType)
		query += fmt.Sprintf(" AND relationship_type = $%d", len(args))
	}
	query += " ORDER BY display_name ASC"

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}

	people, err := pgx.CollectRows(rows, scanPerson)
	if err != nil {
		return nil, fmt.Errorf("scan people: %w", err)
	}
	return people, nil
}

// Update writes every mutable column; the service owns merge semantics.
func (r *PostgresPersonRepository) Update(ctx context.Context, p *crm.Person) error {
	query := `
		UPDATE people
		SET display_name = $2, relationship_type = $3, birthday = $4, anniversary = $5,
		    notes = $6, image = $7, updated_at = $8
		WHERE id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		p.ID,
		p.DisplayName,
		p.RelationshipType,
		p.Birthday,
		p.Anniversary,
		p.Notes,
		p.Image,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("person %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a person; attached rows go with it via ON DELETE CASCADE.
func (r *PostgresPersonRepository) Delete(ctx context.Context, personID string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, `DELETE FROM people WHERE id = $1`, personID)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("person %s: %w", personID, domain.ErrNotFound)
	}
	return nil
}
