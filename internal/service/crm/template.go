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

// CreateTemplateRequest is the payload for saving a gesture preset.
type CreateTemplateRequest struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Effort      string  `json:"effort"`
	Description *string `json:"description,omitempty"`
}

// UpdateTemplateRequest carries PATCH semantics for a template.
type UpdateTemplateRequest struct {
	Title       httputil.OptionalString `json:"title"`
	Category    httputil.OptionalString `json:"category"`
	Effort      httputil.OptionalString `json:"effort"`
	Description httputil.OptionalString `json:"description"`
}

// TemplateService manages per-user gesture templates.
type TemplateService struct {
	gestureRepo crmrepo.GestureRepository
	logger      *slog.Logger
}

// NewTemplateService creates a template service.
func NewTemplateService(gestureRepo crmrepo.GestureRepository, logger *slog.Logger) *TemplateService {
	return &TemplateService{gestureRepo: gestureRepo, logger: logger}
}

// Create saves a gesture template.
func (s *TemplateService) Create(ctx context.Context, userID string, req *CreateTemplateRequest) (*crm.GestureTemplate, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Effort, validation.Required, validation.Length(1, 50)),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	template := &crm.GestureTemplate{
		UserID:      userID,
		Title:       req.Title,
		Category:    req.Category,
		Effort:      req.Effort,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.gestureRepo.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// List returns the user's templates.
func (s *TemplateService) List(ctx context.Context, userID string) ([]crm.GestureTemplate, error) {
	return s.gestureRepo.ListTemplates(ctx, userID)
}

// Update applies a partial update to a template.
func (s *TemplateService) Update(ctx context.Context, userID, templateID string, req *UpdateTemplateRequest) (*crm.GestureTemplate, error) {
	template, err := s.authorize(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	if req.Title.Present {
		if req.Title.Value == nil || *req.Title.Value == "" {
			return nil, &domain.ValidationError{Message: "title must not be empty"}
		}
		template.Title = *req.Title.Value
	}
	if req.Category.Present && req.Category.Value != nil {
		template.Category = *req.Category.Value
	}
	if req.Effort.Present && req.Effort.Value != nil {
		template.Effort = *req.Effort.Value
	}
	if req.Description.Present {
		template.Description = req.Description.Value
	}
	template.UpdatedAt = time.Now()

	if err := s.gestureRepo.UpdateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// Delete removes a template. Gestures created from it keep their snapshot
// of its fields.
func (s *TemplateService) Delete(ctx context.Context, userID, templateID string) error {
	if _, err := s.authorize(ctx, userID, templateID); err != nil {
		return err
	}
	return s.gestureRepo.DeleteTemplate(ctx, templateID)
}

func (s *TemplateService) authorize(ctx context.Context, userID, templateID string) (*crm.GestureTemplate, error) {
	template, err := s.gestureRepo.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.UserID != userID {
		return nil, &domain.ForbiddenError{Message: "template belongs to another user"}
	}
	return template, nil
}
