// Package crm implements the relationship-CRM services: people and their
// notes, events, gestures, preferences, settings, and the dashboard
// aggregates. Every operation is ownership-checked against the calling
// user before touching attached resources.
package crm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/httputil"
)

// CreatePersonRequest is the payload for adding a person.
type CreatePersonRequest struct {
	DisplayName      string     `json:"display_name"`
	RelationshipType *string    `json:"relationship_type,omitempty"`
	Birthday         *time.Time `json:"birthday,omitempty"`
	Anniversary      *time.Time `json:"anniversary,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	Image            *string    `json:"image,omitempty"`
}

// UpdatePersonRequest carries PATCH semantics: absent fields are untouched,
// null fields are cleared.
type UpdatePersonRequest struct {
	DisplayName      httputil.OptionalString `json:"display_name"`
	RelationshipType httputil.OptionalString `json:"relationship_type"`
	Birthday         httputil.OptionalTime   `json:"birthday"`
	Anniversary      httputil.OptionalTime   `json:"anniversary"`
	Notes            httputil.OptionalString `json:"notes"`
	Image            httputil.OptionalString `json:"image"`
}

// PersonService manages the people a user tracks.
type PersonService struct {
	personRepo crmrepo.PersonRepository
	logger     *slog.Logger
}

// NewPersonService creates a person service.
func NewPersonService(personRepo crmrepo.PersonRepository, logger *slog.Logger) *PersonService {
	return &PersonService{personRepo: personRepo, logger: logger}
}

// Create adds a person for the user.
func (s *PersonService) Create(ctx context.Context, userID string, req *CreatePersonRequest) (*crm.Person, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.DisplayName, validation.Required, validation.Length(1, 200)),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	person := &crm.Person{
		UserID:           userID,
		DisplayName:      strings.TrimSpace(req.DisplayName),
		RelationshipType: req.RelationshipType,
		Birthday:         req.Birthday,
		Anniversary:      req.Anniversary,
		Notes:            req.Notes,
		Image:            req.Image,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, err
	}

	s.logger.Info("person created", "id", person.ID, "user_id", userID)
	return person, nil
}

// Get returns one person, ownership-checked.
func (s *PersonService) Get(ctx context.Context, userID, personID string) (*crm.Person, error) {
	return s.authorize(ctx, userID, personID)
}

// List returns the user's people, optionally filtered.
func (s *PersonService) List(ctx context.Context, userID string, filter crmrepo.PersonFilter) ([]crm.Person, error) {
	return s.personRepo.ListByUser(ctx, userID, filter)
}

// Update applies a partial update to a person.
func (s *PersonService) Update(ctx context.Context, userID, personID string, req *UpdatePersonRequest) (*crm.Person, error) {
	person, err := s.authorize(ctx, userID, personID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName.Present {
		if req.DisplayName.Value == nil || strings.TrimSpace(*req.DisplayName.Value) == "" {
			return nil, &domain.ValidationError{Message: "display_name must not be empty"}
		}
		person.DisplayName = strings.TrimSpace(*req.DisplayName.Value)
	}
	if req.RelationshipType.Present {
		person.RelationshipType = req.RelationshipType.Value
	}
	if req.Birthday.Present {
		person.Birthday = req.Birthday.Value
	}
	if req.Anniversary.Present {
		person.Anniversary = req.Anniversary.Value
	}
	if req.Notes.Present {
		person.Notes = req.Notes.Value
	}
	if req.Image.Present {
		person.Image = req.Image.Value
	}
	person.UpdatedAt = time.Now()

	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// Delete removes a person and, through the schema's cascades, everything
// attached to them.
func (s *PersonService) Delete(ctx context.Context, userID, personID string) error {
	if _, err := s.authorize(ctx, userID, personID); err != nil {
		return err
	}
	if err := s.personRepo.Delete(ctx, personID); err != nil {
		return err
	}
	s.logger.Info("person deleted", "id", personID, "user_id", userID)
	return nil
}

// authorize loads a person and checks ownership: 404 unknown, 403 not-owner.
func (s *PersonService) authorize(ctx context.Context, userID, personID string) (*crm.Person, error) {
	person, err := s.personRepo.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	if person.UserID != userID {
		return nil, &domain.ForbiddenError{Message: "person belongs to another user"}
	}
	return person, nil
}
