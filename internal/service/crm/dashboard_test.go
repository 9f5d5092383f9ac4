package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
)

type fakeDashRepo struct {
	lastCompleted  *time.Time
	pending        int
	completedCount int
	completedAfter *time.Time
}

func (r *fakeDashRepo) LastCompletedGestureAt(ctx context.Context, userID, personID string) (*time.Time, error) {
	return r.lastCompleted, nil
}

func (r *fakeDashRepo) CountGestures(ctx context.Context, userID, personID, status string, completedAfter *time.Time) (int, error) {
	if status == crm.GestureStatusPending {
		return r.pending, nil
	}
	r.completedAfter = completedAfter
	return r.completedCount, nil
}

func (r *fakeDashRepo) RecentCompletedGestures(ctx context.Context, userID, personID string, limit int) ([]crm.Gesture, error) {
	return []crm.Gesture{{ID: "g1", Status: crm.GestureStatusCompleted}}, nil
}

func (r *fakeDashRepo) SuggestedGestures(ctx context.Context, userID, personID string, limit int) ([]crm.Gesture, error) {
	return []crm.Gesture{{ID: "g2", Status: crm.GestureStatusPending}}, nil
}

func (r *fakeDashRepo) UpcomingEvents(ctx context.Context, userID, personID string, from time.Time, limit int) ([]crm.EventWithPerson, error) {
	return nil, nil
}

func (r *fakeDashRepo) RecentNotes(ctx context.Context, userID, personID string, limit int) ([]crm.NoteWithPerson, error) {
	return nil, nil
}

func (r *fakePersonRepo) add(userID, name string) string {
	p := &crm.Person{UserID: userID, DisplayName: name}
	_ = r.Create(context.Background(), p)
	return p.ID
}

func newDashboardService(repo *fakeDashRepo, people *fakePersonRepo, now time.Time) *DashboardService {
	s := NewDashboardService(repo, people, discardLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestDashboardDaysSince(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		lastCompleted *time.Time
		want          int
	}{
		{name: "never completed", lastCompleted: nil, want: -1},
		{name: "completed today", lastCompleted: timePtr(now.Add(-2 * time.Hour)), want: 0},
		{name: "completed three days ago", lastCompleted: timePtr(now.AddDate(0, 0, -3)), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newDashboardService(&fakeDashRepo{lastCompleted: tt.lastCompleted}, newFakePersonRepo(), now)

			dash, err := svc.Get(context.Background(), "user-1", "")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if dash.DaysSinceLastGesture != tt.want {
				t.Errorf("DaysSinceLastGesture = %d, want %d", dash.DaysSinceLastGesture, tt.want)
			}
		})
	}
}

func TestDashboardCompletedWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeDashRepo{pending: 4, completedCount: 2}
	svc := newDashboardService(repo, newFakePersonRepo(), now)

	dash, err := svc.Get(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if dash.UpcomingTaskCount != 4 {
		t.Errorf("UpcomingTaskCount = %d, want 4", dash.UpcomingTaskCount)
	}
	if dash.CompletedThisWeek != 2 {
		t.Errorf("CompletedThisWeek = %d, want 2", dash.CompletedThisWeek)
	}
	if repo.completedAfter == nil {
		t.Fatal("completed count was not restricted to a window")
	}
	if want := now.AddDate(0, 0, -7); !repo.completedAfter.Equal(want) {
		t.Errorf("completed window cutoff = %v, want %v", repo.completedAfter, want)
	}
}

func TestDashboardPersonScopeOwnership(t *testing.T) {
	now := time.Now()
	people := newFakePersonRepo()
	theirs := people.add("other-user", "Their Person")

	svc := newDashboardService(&fakeDashRepo{}, people, now)

	_, err := svc.Get(context.Background(), "user-1", theirs)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Get with foreign person = %v, want ErrForbidden", err)
	}

	_, err = svc.Get(context.Background(), "user-1", "missing-person")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get with unknown person = %v, want ErrNotFound", err)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
