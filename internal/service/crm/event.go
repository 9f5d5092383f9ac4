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

// upcomingEventsLimit bounds the upcoming-events listing.
const upcomingEventsLimit = 50

// CreateEventRequest is the payload for attaching an event to a person.
type CreateEventRequest struct {
	Title     string     `json:"title"`
	EventType *string    `json:"event_type,omitempty"`
	StartAt   time.Time  `json:"start_at"`
	EndAt     *time.Time `json:"end_at,omitempty"`
	IsAllDay  bool       `json:"is_all_day,omitempty"`
	Details   *string    `json:"details,omitempty"`
}

// UpdateEventRequest carries PATCH semantics for an event.
type UpdateEventRequest struct {
	Title     httputil.OptionalString `json:"title"`
	EventType httputil.OptionalString `json:"event_type"`
	StartAt   httputil.OptionalTime   `json:"start_at"`
	EndAt     httputil.OptionalTime   `json:"end_at"`
	IsAllDay  *bool                   `json:"is_all_day"`
	Details   httputil.OptionalString `json:"details"`
}

// EventService manages dated occasions attached to people.
type EventService struct {
	eventRepo  crmrepo.EventRepository
	personRepo crmrepo.PersonRepository
	logger     *slog.Logger
}

// NewEventService creates an event service.
func NewEventService(eventRepo crmrepo.EventRepository, personRepo crmrepo.PersonRepository, logger *slog.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, personRepo: personRepo, logger: logger}
}

// Create attaches an event to a person the user owns.
func (s *EventService) Create(ctx context.Context, userID, personID string, req *CreateEventRequest) (*crm.Event, error) {
	if err := s.authorizePerson(ctx, userID, personID); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.StartAt, validation.Required),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if req.EndAt != nil && req.EndAt.Before(req.StartAt) {
		return nil, &domain.ValidationError{Message: "end_at must not be before start_at"}
	}

	event := &crm.Event{
		PersonID:  personID,
		Title:     req.Title,
		EventType: req.EventType,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		IsAllDay:  req.IsAllDay,
		Details:   req.Details,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// List returns a person's events.
func (s *EventService) List(ctx context.Context, userID, personID string) ([]crm.Event, error) {
	if err := s.authorizePerson(ctx, userID, personID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByPerson(ctx, personID)
}

// ListUpcoming returns the user's future events across all people, soonest
// first.
func (s *EventService) ListUpcoming(ctx context.Context, userID string) ([]crm.EventWithPerson, error) {
	return s.eventRepo.ListUpcoming(ctx, userID, time.Now(), upcomingEventsLimit)
}

// Update applies a partial update to an event.
func (s *EventService) Update(ctx context.Context, userID, eventID string, req *UpdateEventRequest) (*crm.Event, error) {
	event, err := s.authorizeEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title.Present {
		if req.Title.Value == nil || *req.Title.Value == "" {
			return nil, &domain.ValidationError{Message: "title must not be empty"}
		}
		event.Title = *req.Title.Value
	}
	if req.EventType.Present {
		event.EventType = req.EventType.Value
	}
	if req.StartAt.Present {
		if req.StartAt.Value == nil {
			return nil, &domain.ValidationError{Message: "start_at must not be null"}
		}
		event.StartAt = *req.StartAt.Value
	}
	if req.EndAt.Present {
		event.EndAt = req.EndAt.Value
	}
	if req.IsAllDay != nil {
		event.IsAllDay = *req.IsAllDay
	}
	if req.Details.Present {
		event.Details = req.Details.Value
	}
	if event.EndAt != nil && event.EndAt.Before(event.StartAt) {
		return nil, &domain.ValidationError{Message: "end_at must not be before start_at"}
	}
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	if _, err := s.authorizeEvent(ctx, userID, eventID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}

func (s *EventService) authorizePerson(ctx context.Context, userID, personID string) error {
	person, err := s.personRepo.Get(ctx, personID)
	if err != nil {
		return err
	}
	if person.UserID != userID {
		return &domain.ForbiddenError{Message: "person belongs to another user"}
	}
	return nil
}

func (s *EventService) authorizeEvent(ctx context.Context, userID, eventID string) (*crm.Event, error) {
	event, err := s.eventRepo.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizePerson(ctx, userID, event.PersonID); err != nil {
		return nil, err
	}
	return event, nil
}
