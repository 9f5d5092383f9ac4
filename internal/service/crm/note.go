package crm

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/httputil"
)

// CreateNoteRequest is the payload for attaching a note to a person.
type CreateNoteRequest struct {
	Content    string         `json:"content"`
	Source     *string        `json:"source,omitempty"`
	OccurredAt *time.Time     `json:"occurred_at,omitempty"`
	Meta       map[string]any `json:"meta_json,omitempty"`
}

// UpdateNoteRequest carries PATCH semantics for a note.
type UpdateNoteRequest struct {
	Content    httputil.OptionalString `json:"content"`
	Source     httputil.OptionalString `json:"source"`
	OccurredAt httputil.OptionalTime   `json:"occurred_at"`
}

// NoteService manages notes attached to people.
type NoteService struct {
	noteRepo   crmrepo.NoteRepository
	personRepo crmrepo.PersonRepository
	logger     *slog.Logger
}

// NewNoteService creates a note service.
func NewNoteService(noteRepo crmrepo.NoteRepository, personRepo crmrepo.PersonRepository, logger *slog.Logger) *NoteService {
	return &NoteService{noteRepo: noteRepo, personRepo: personRepo, logger: logger}
}

// Create attaches a note to a person the user owns.
func (s *NoteService) Create(ctx context.Context, userID, personID string, req *CreateNoteRequest) (*crm.Note, error) {
	if err := s.authorizePerson(ctx, userID, personID); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	note := &crm.Note{
		PersonID:   personID,
		Content:    req.Content,
		Source:     req.Source,
		OccurredAt: req.OccurredAt,
		Meta:       req.Meta,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// List returns a person's notes, newest first.
func (s *NoteService) List(ctx context.Context, userID, personID string) ([]crm.Note, error) {
	if err := s.authorizePerson(ctx, userID, personID); err != nil {
		return nil, err
	}
	return s.noteRepo.ListByPerson(ctx, personID)
}

// Update applies a partial update to a note.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req *UpdateNoteRequest) (*crm.Note, error) {
	note, err := s.authorizeNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Content.Present {
		if req.Content.Value == nil || *req.Content.Value == "" {
			return nil, &domain.ValidationError{Message: "content must not be empty"}
		}
		note.Content = *req.Content.Value
	}
	if req.Source.Present {
		note.Source = req.Source.Value
	}
	if req.OccurredAt.Present {
		note.OccurredAt = req.OccurredAt.Value
	}
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.authorizeNote(ctx, userID, noteID); err != nil {
		return err
	}
	return s.noteRepo.Delete(ctx, noteID)
}

// authorizePerson checks the person exists and belongs to the user.
func (s *NoteService) authorizePerson(ctx context.Context, userID, personID string) error {
	person, err := s.personRepo.Get(ctx, personID)
	if err != nil {
		return err
	}
	if person.UserID != userID {
		return &domain.ForbiddenError{Message: "person belongs to another user"}
	}
	return nil
}

// authorizeNote resolves a note through its person's owner.
func (s *NoteService) authorizeNote(ctx context.Context, userID, noteID string) (*crm.Note, error) {
	note, err := s.noteRepo.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizePerson(ctx, userID, note.PersonID); err != nil {
		return nil, err
	}
	return note, nil
}
