package crm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
)

// CreatePreferenceRequest records one liked or disliked thing for a person.
type CreatePreferenceRequest struct {
	Kind         string  `json:"kind"`
	Value        string  `json:"value"`
	SourceNoteID *string `json:"source_note_id,omitempty"`
}

// PreferenceService manages per-person like/dislike preferences.
type PreferenceService struct {
	prefRepo   crmrepo.PreferenceRepository
	personRepo crmrepo.PersonRepository
	logger     *slog.Logger
}

// NewPreferenceService creates a preference service.
func NewPreferenceService(prefRepo crmrepo.PreferenceRepository, personRepo crmrepo.PersonRepository, logger *slog.Logger) *PreferenceService {
	return &PreferenceService{prefRepo: prefRepo, personRepo: personRepo, logger: logger}
}

// Create records a preference. Values are normalized to trimmed lowercase
// before the uniqueness check, so "Sushi" and "sushi" are the same
// preference and the second insert returns a conflict.
func (s *PreferenceService) Create(ctx context.Context, userID, personID string, req *CreatePreferenceRequest) (*crm.PersonPreference, error) {
	if err := s.authorizePerson(ctx, userID, personID); err != nil {
		return nil, err
	}

	if req.Kind != crm.PreferenceKindLike && req.Kind != crm.PreferenceKindDislike {
		return nil, &domain.ValidationError{Message: "kind must be 'like' or 'dislike'"}
	}
	value := strings.ToLower(strings.TrimSpace(req.Value))
	if value == "" {
		return nil, &domain.ValidationError{Message: "value must not be empty"}
	}

	pref := &crm.PersonPreference{
		PersonID:     personID,
		Kind:         req.Kind,
		Value:        value,
		SourceNoteID: req.SourceNoteID,
		CreatedAt:    time.Now(),
	}
	if err := s.prefRepo.Create(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}

// List returns a person's preferences, optionally limited to one kind.
func (s *PreferenceService) List(ctx context.Context, userID, personID, kind string) ([]crm.PersonPreference, error) {
	if err := s.authorizePerson(ctx, userID, personID); err != nil {
		return nil, err
	}
	if kind != "" && kind != crm.PreferenceKindLike && kind != crm.PreferenceKindDislike {
		return nil, &domain.ValidationError{Message: "kind must be 'like' or 'dislike'"}
	}
	return s.prefRepo.ListByPerson(ctx, personID, kind)
}

// Delete removes a preference, checking ownership through its person.
func (s *PreferenceService) Delete(ctx context.Context, userID, preferenceID string) error {
	_, ownerID, err := s.prefRepo.Get(ctx, preferenceID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return &domain.ForbiddenError{Message: "preference belongs to another user"}
	}
	return s.prefRepo.Delete(ctx, preferenceID)
}

func (s *PreferenceService) authorizePerson(ctx context.Context, userID, personID string) error {
	person, err := s.personRepo.Get(ctx, personID)
	if err != nil {
		return err
	}
	if person.UserID != userID {
		return &domain.ForbiddenError{Message: "person belongs to another user"}
	}
	return nil
}
