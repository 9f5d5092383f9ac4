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

// PostgresPreferenceRepository implements PreferenceRepository.
type PostgresPreferenceRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPreferenceRepository creates a preference repository.
func NewPreferenceRepository(config *postgres.RepositoryConfig) crmrepo.PreferenceRepository {
	return &PostgresPreferenceRepository{pool: config.Pool, logger: config.Logger}
}

func scanPreference(row pgx.CollectableRow) (crm.PersonPreference, error) {
	var p crm.PersonPreference
	err := row.Scan(&p.ID, &p.PersonID, &p.Kind, &p.Value, &p.SourceNoteID, &p.CreatedAt)
	return p, err
}

// Create inserts a preference. The unique index on (person_id, kind, value)
// rejects duplicates of the normalized value.
func (r *PostgresPreferenceRepository) Create(ctx context.Context, p *crm.PersonPreference) error {
	query := `
		INSERT INTO person_preferences (person_id, kind, value, source_note_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, p.PersonID, p.Kind, p.Value, p.SourceNoteID, p.CreatedAt).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message: fmt.Sprintf("preference %q already recorded for this person", p.Value),
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("person %s: %w", p.PersonID, domain.ErrNotFound)
		}
		return fmt.Errorf("create preference: %w", err)
	}
	return nil
}

// Get returns the preference and the owning user of its person.
func (r *PostgresPreferenceRepository) Get(ctx context.Context, preferenceID string) (*crm.PersonPreference, string, error) {
	query := `
		SELECT pp.id, pp.person_id, pp.kind, pp.value, pp.source_note_id, pp.created_at, p.user_id
		FROM person_preferences pp
		JOIN people p ON p.id = pp.person_id
		WHERE pp.id = $1
	`

	executor := postgres.GetExecutor(ctx, r.pool)
	var pref crm.PersonPreference
	var ownerID string
	err := executor.QueryRow(ctx, query, preferenceID).
		Scan(&pref.ID, &pref.PersonID, &pref.Kind, &pref.Value, &pref.SourceNoteID, &pref.CreatedAt, &ownerID)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, "", fmt.Errorf("preference %s: %w", preferenceID, domain.ErrNotFound)
		}
		return nil, "", fmt.Errorf("get preference: %w", err)
	}
	return &pref, ownerID, nil
}

// ListByPerson retrieves a person's preferences, optionally filtered by kind.
func (r *PostgresPreferenceRepository) ListByPerson(ctx context.Context, personID string, kind string) ([]crm.PersonPreference, error) {
	query := `
		SELECT id, person_id, kind, value, source_note_id, created_at
		FROM person_preferences
		WHERE person_id = $1
	`
	args := []any{personID}

	if kind != "" {
		args = append(args, kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY value ASC"

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}

	prefs, err := pgx.CollectRows(rows, scanPreference)
	if err != nil {
		return nil, fmt.Errorf("scan preferences: %w", err)
	}
	return prefs, nil
}

// Delete removes a preference.
func (r *PostgresPreferenceRepository) Delete(ctx context.Context, preferenceID string) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, `DELETE FROM person_preferences WHERE id = $1`, preferenceID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("preference %s: %w", preferenceID, domain.ErrNotFound)
	}
	return nil
}
