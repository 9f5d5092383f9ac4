package crm

import (
	"context"
	"log/slog"
	"time"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
)

// Dashboard listing caps.
const (
	dashboardRecentGestures  = 5
	dashboardUpcomingEvents  = 5
	dashboardRecentNotes     = 5
	dashboardSuggestedCount  = 3
	dashboardCompletedWindow = 7 * 24 * time.Hour
)

// DashboardService assembles the home-screen aggregates.
type DashboardService struct {
	dashRepo   crmrepo.DashboardRepository
	personRepo crmrepo.PersonRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(dashRepo crmrepo.DashboardRepository, personRepo crmrepo.PersonRepository, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		dashRepo:   dashRepo,
		personRepo: personRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Get builds the dashboard for the user, optionally scoped to one person.
func (s *DashboardService) Get(ctx context.Context, userID, personID string) (*crm.Dashboard, error) {
	if personID != "" {
		person, err := s.personRepo.Get(ctx, personID)
		if err != nil {
			return nil, err
		}
		if person.UserID != userID {
			return nil, &domain.ForbiddenError{Message: "person belongs to another user"}
		}
	}

	now := s.now()
	weekAgo := now.Add(-dashboardCompletedWindow)

	lastCompleted, err := s.dashRepo.LastCompletedGestureAt(ctx, userID, personID)
	if err != nil {
		return nil, err
	}
	daysSince := -1
	if lastCompleted != nil {
		daysSince = int(now.Sub(*lastCompleted).Hours() / 24)
	}

	pendingCount, err := s.dashRepo.CountGestures(ctx, userID, personID, crm.GestureStatusPending, nil)
	if err != nil {
		return nil, err
	}
	completedThisWeek, err := s.dashRepo.CountGestures(ctx, userID, personID, crm.GestureStatusCompleted, &weekAgo)
	if err != nil {
		return nil, err
	}

	recentGestures, err := s.dashRepo.RecentCompletedGestures(ctx, userID, personID, dashboardRecentGestures)
	if err != nil {
		return nil, err
	}
	upcomingEvents, err := s.dashRepo.UpcomingEvents(ctx, userID, personID, now, dashboardUpcomingEvents)
	if err != nil {
		return nil, err
	}
	recentNotes, err := s.dashRepo.RecentNotes(ctx, userID, personID, dashboardRecentNotes)
	if err != nil {
		return nil, err
	}
	suggested, err := s.dashRepo.SuggestedGestures(ctx, userID, personID, dashboardSuggestedCount)
	if err != nil {
		return nil, err
	}

	return &crm.Dashboard{
		DaysSinceLastGesture: daysSince,
		UpcomingTaskCount:    pendingCount,
		CompletedThisWeek:    completedThisWeek,
		RecentGestures:       recentGestures,
		UpcomingEvents:       upcomingEvents,
		RecentNotes:          recentNotes,
		SuggestedGestures:    suggested,
	}, nil
}
