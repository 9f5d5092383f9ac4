package crm

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	"heartline/internal/domain/repositories"
	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/httputil"
)

// upcomingGesturesLimit bounds the upcoming-gestures listing.
const upcomingGesturesLimit = 10

// CreateGestureRequest is the payload for planning a gesture.
type CreateGestureRequest struct {
	Title           string     `json:"title"`
	Category        string     `json:"category"`
	Effort          string     `json:"effort"`
	PersonID        *string    `json:"person_id,omitempty"`
	TemplateID      *string    `json:"template_id,omitempty"`
	Status          string     `json:"status,omitempty"`
	DueAt           *time.Time `json:"due_at,omitempty"`
	RepeatMode      *string    `json:"repeat_mode,omitempty"`
	RepeatEveryDays *int       `json:"repeat_every_days,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// UpdateGestureRequest carries PATCH semantics for a gesture.
type UpdateGestureRequest struct {
	Title           httputil.OptionalString `json:"title"`
	Category        httputil.OptionalString `json:"category"`
	Effort          httputil.OptionalString `json:"effort"`
	Status          httputil.OptionalString `json:"status"`
	PersonID        httputil.OptionalString `json:"person_id"`
	DueAt           httputil.OptionalTime   `json:"due_at"`
	RepeatMode      httputil.OptionalString `json:"repeat_mode"`
	RepeatEveryDays httputil.OptionalInt    `json:"repeat_every_days"`
	Notes           httputil.OptionalString `json:"notes"`
}

// FromTemplateRequest creates a gesture from a template, with optional
// field overrides.
type FromTemplateRequest struct {
	TemplateID string     `json:"template_id"`
	PersonID   *string    `json:"person_id,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	Overrides  struct {
		Title    *string `json:"title,omitempty"`
		Category *string `json:"category,omitempty"`
		Effort   *string `json:"effort,omitempty"`
		Notes    *string `json:"notes,omitempty"`
	} `json:"overrides,omitempty"`
}

// GestureService manages gestures and gesture templates.
type GestureService struct {
	gestureRepo crmrepo.GestureRepository
	txMgr       repositories.TransactionManager
	logger      *slog.Logger
}

// NewGestureService creates a gesture service.
func NewGestureService(gestureRepo crmrepo.GestureRepository, txMgr repositories.TransactionManager, logger *slog.Logger) *GestureService {
	return &GestureService{gestureRepo: gestureRepo, txMgr: txMgr, logger: logger}
}

// Create plans a gesture for the user.
func (s *GestureService) Create(ctx context.Context, userID string, req *CreateGestureRequest) (*crm.Gesture, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Effort, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.RepeatEveryDays, validation.Min(1)),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	status := req.Status
	if status == "" {
		status = crm.GestureStatusPending
	}

	gesture := &crm.Gesture{
		UserID:          userID,
		PersonID:        req.PersonID,
		TemplateID:      req.TemplateID,
		Title:           req.Title,
		Category:        req.Category,
		Effort:          req.Effort,
		Status:          status,
		DueAt:           req.DueAt,
		RepeatMode:      req.RepeatMode,
		RepeatEveryDays: req.RepeatEveryDays,
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.gestureRepo.Create(ctx, gesture); err != nil {
		return nil, err
	}
	return gesture, nil
}

// CreateFromTemplate instantiates a gesture from one of the user's
// templates, applying any overrides.
func (s *GestureService) CreateFromTemplate(ctx context.Context, userID string, req *FromTemplateRequest) (*crm.Gesture, error) {
	if req.TemplateID == "" {
		return nil, &domain.ValidationError{Message: "template_id is required"}
	}

	template, err := s.authorizeTemplate(ctx, userID, req.TemplateID)
	if err != nil {
		return nil, err
	}

	create := &CreateGestureRequest{
		Title:      template.Title,
		Category:   template.Category,
		Effort:     template.Effort,
		PersonID:   req.PersonID,
		TemplateID: &template.ID,
		DueAt:      req.DueAt,
		Notes:      template.Description,
	}
	if req.Overrides.Title != nil {
		create.Title = *req.Overrides.Title
	}
	if req.Overrides.Category != nil {
		create.Category = *req.Overrides.Category
	}
	if req.Overrides.Effort != nil {
		create.Effort = *req.Overrides.Effort
	}
	if req.Overrides.Notes != nil {
		create.Notes = req.Overrides.Notes
	}

	return s.Create(ctx, userID, create)
}

// Get returns one gesture, ownership-checked.
func (s *GestureService) Get(ctx context.Context, userID, gestureID string) (*crm.Gesture, error) {
	return s.authorize(ctx, userID, gestureID)
}

// List returns the user's gestures, newest first, optionally filtered.
func (s *GestureService) List(ctx context.Context, userID string, filter crmrepo.GestureFilter) ([]crm.Gesture, error) {
	return s.gestureRepo.ListByUser(ctx, userID, filter)
}

// ListUpcoming returns pending gestures due from now on, soonest first.
func (s *GestureService) ListUpcoming(ctx context.Context, userID string) ([]crm.Gesture, error) {
	return s.gestureRepo.ListUpcoming(ctx, userID, time.Now(), upcomingGesturesLimit)
}

// Update applies a partial update to a gesture.
func (s *GestureService) Update(ctx context.Context, userID, gestureID string, req *UpdateGestureRequest) (*crm.Gesture, error) {
	gesture, err := s.authorize(ctx, userID, gestureID)
	if err != nil {
		return nil, err
	}

	if req.Title.Present {
		if req.Title.Value == nil || *req.Title.Value == "" {
			return nil, &domain.ValidationError{Message: "title must not be empty"}
		}
		gesture.Title = *req.Title.Value
	}
	if req.Category.Present && req.Category.Value != nil {
		gesture.Category = *req.Category.Value
	}
	if req.Effort.Present && req.Effort.Value != nil {
		gesture.Effort = *req.Effort.Value
	}
	if req.Status.Present && req.Status.Value != nil {
		gesture.Status = *req.Status.Value
	}
	if req.PersonID.Present {
		gesture.PersonID = req.PersonID.Value
	}
	if req.DueAt.Present {
		gesture.DueAt = req.DueAt.Value
	}
	if req.RepeatMode.Present {
		gesture.RepeatMode = req.RepeatMode.Value
	}
	if req.RepeatEveryDays.Present {
		if req.RepeatEveryDays.Value != nil && *req.RepeatEveryDays.Value < 1 {
			return nil, &domain.ValidationError{Message: "repeat_every_days must be positive"}
		}
		gesture.RepeatEveryDays = req.RepeatEveryDays.Value
	}
	if req.Notes.Present {
		gesture.Notes = req.Notes.Value
	}
	gesture.UpdatedAt = time.Now()

	if err := s.gestureRepo.Update(ctx, gesture); err != nil {
		return nil, err
	}
	return gesture, nil
}

// Complete marks a gesture completed. A repeating gesture with a due date
// spawns its next pending instance in the same transaction, due
// repeat_every_days after the previous due date.
func (s *GestureService) Complete(ctx context.Context, userID, gestureID string) (*crm.Gesture, error) {
	gesture, err := s.authorize(ctx, userID, gestureID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	gesture.Status = crm.GestureStatusCompleted
	gesture.CompletedAt = &now
	gesture.UpdatedAt = now

	err = s.txMgr.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.gestureRepo.Update(ctx, gesture); err != nil {
			return err
		}
		next := nextRepeatInstance(gesture, now)
		if next == nil {
			return nil
		}
		if err := s.gestureRepo.Create(ctx, next); err != nil {
			return err
		}
		s.logger.Info("repeating gesture respawned",
			"completed_id", gesture.ID,
			"next_due_at", next.DueAt,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gesture, nil
}

// Skip marks a gesture skipped without spawning a repeat.
func (s *GestureService) Skip(ctx context.Context, userID, gestureID string) (*crm.Gesture, error) {
	gesture, err := s.authorize(ctx, userID, gestureID)
	if err != nil {
		return nil, err
	}
	gesture.Status = crm.GestureStatusSkipped
	gesture.UpdatedAt = time.Now()
	if err := s.gestureRepo.Update(ctx, gesture); err != nil {
		return nil, err
	}
	return gesture, nil
}

// Delete removes a gesture.
func (s *GestureService) Delete(ctx context.Context, userID, gestureID string) error {
	if _, err := s.authorize(ctx, userID, gestureID); err != nil {
		return err
	}
	return s.gestureRepo.Delete(ctx, gestureID)
}

// nextRepeatInstance builds the follow-up pending gesture for a completed
// repeating one, or nil when the gesture does not repeat. All three of
// repeat_mode, repeat_every_days and due_at must be present.
func nextRepeatInstance(completed *crm.Gesture, now time.Time) *crm.Gesture {
	if completed.RepeatMode == nil || completed.RepeatEveryDays == nil || completed.DueAt == nil {
		return nil
	}

	nextDue := completed.DueAt.AddDate(0, 0, *completed.RepeatEveryDays)
	return &crm.Gesture{
		UserID:          completed.UserID,
		PersonID:        completed.PersonID,
		TemplateID:      completed.TemplateID,
		Title:           completed.Title,
		Category:        completed.Category,
		Effort:          completed.Effort,
		Status:          crm.GestureStatusPending,
		DueAt:           &nextDue,
		RepeatMode:      completed.RepeatMode,
		RepeatEveryDays: completed.RepeatEveryDays,
		Notes:           completed.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *GestureService) authorize(ctx context.Context, userID, gestureID string) (*crm.Gesture, error) {
	gesture, err := s.gestureRepo.Get(ctx, gestureID)
	if err != nil {
		return nil, err
	}
	if gesture.UserID != userID {
		return nil, &domain.ForbiddenError{Message: "gesture belongs to another user"}
	}
	return gesture, nil
}

func (s *GestureService) authorizeTemplate(ctx context.Context, userID, templateID string) (*crm.GestureTemplate, error) {
	template, err := s.gestureRepo.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template.UserID != userID {
		return nil, &domain.ForbiddenError{Message: "template belongs to another user"}
	}
	return template, nil
}
