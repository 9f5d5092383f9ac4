package crm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	"heartline/internal/domain/repositories"
	crmrepo "heartline/internal/domain/repositories/crm"
)

// fakeGestureRepo is an in-memory GestureRepository.
type fakeGestureRepo struct {
	gestures  map[string]*crm.Gesture
	templates map[string]*crm.GestureTemplate
	nextID    int
}

func newFakeGestureRepo() *fakeGestureRepo {
	return &fakeGestureRepo{
		gestures:  make(map[string]*crm.Gesture),
		templates: make(map[string]*crm.GestureTemplate),
	}
}

func (r *fakeGestureRepo) Create(_ context.Context, g *crm.Gesture) error {
	r.nextID++
	g.ID = string(rune('a' + r.nextID - 1))
	stored := *g
	r.gestures[g.ID] = &stored
	return nil
}

func (r *fakeGestureRepo) Get(_ context.Context, id string) (*crm.Gesture, error) {
	g, ok := r.gestures[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "gesture not found"}
	}
	out := *g
	return &out, nil
}

func (r *fakeGestureRepo) ListByUser(_ context.Context, userID string, filter crmrepo.GestureFilter) ([]crm.Gesture, error) {
	var out []crm.Gesture
	for _, g := range r.gestures {
		if g.UserID != userID {
			continue
		}
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (r *fakeGestureRepo) ListUpcoming(_ context.Context, userID string, from time.Time, limit int) ([]crm.Gesture, error) {
	var out []crm.Gesture
	for _, g := range r.gestures {
		if g.UserID == userID && g.Status == crm.GestureStatusPending && g.DueAt != nil && !g.DueAt.Before(from) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGestureRepo) Update(_ context.Context, g *crm.Gesture) error {
	if _, ok := r.gestures[g.ID]; !ok {
		return &domain.NotFoundError{Message: "gesture not found"}
	}
	stored := *g
	r.gestures[g.ID] = &stored
	return nil
}

func (r *fakeGestureRepo) Delete(_ context.Context, id string) error {
	delete(r.gestures, id)
	return nil
}

func (r *fakeGestureRepo) CreateTemplate(_ context.Context, t *crm.GestureTemplate) error {
	r.nextID++
	t.ID = string(rune('A' + r.nextID - 1))
	stored := *t
	r.templates[t.ID] = &stored
	return nil
}

func (r *fakeGestureRepo) GetTemplate(_ context.Context, id string) (*crm.GestureTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "template not found"}
	}
	out := *t
	return &out, nil
}

func (r *fakeGestureRepo) ListTemplates(_ context.Context, userID string) ([]crm.GestureTemplate, error) {
	var out []crm.GestureTemplate
	for _, t := range r.templates {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeGestureRepo) UpdateTemplate(_ context.Context, t *crm.GestureTemplate) error {
	stored := *t
	r.templates[t.ID] = &stored
	return nil
}

func (r *fakeGestureRepo) DeleteTemplate(_ context.Context, id string) error {
	delete(r.templates, id)
	return nil
}

type passTxMgr struct{}

func (passTxMgr) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCompleteSpawnsRepeatInstance(t *testing.T) {
	repo := newFakeGestureRepo()
	svc := NewGestureService(repo, passTxMgr{}, discardLogger())
	ctx := context.Background()

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	gesture, err := svc.Create(ctx, "user-1", &CreateGestureRequest{
		Title:           "Send flowers",
		Category:        "Romantic",
		Effort:          "Medium",
		DueAt:           &due,
		RepeatMode:      strPtr("interval"),
		RepeatEveryDays: intPtr(14),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	completed, err := svc.Complete(ctx, "user-1", gesture.ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if completed.Status != crm.GestureStatusCompleted {
		t.Errorf("status = %q, want completed", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("completed_at not set")
	}

	if len(repo.gestures) != 2 {
		t.Fatalf("stored gestures = %d, want 2 (completed + respawned)", len(repo.gestures))
	}
	var next *crm.Gesture
	for _, g := range repo.gestures {
		if g.ID != gesture.ID {
			next = g
		}
	}
	if next.Status != crm.GestureStatusPending {
		t.Errorf("respawned status = %q, want pending", next.Status)
	}
	wantDue := due.AddDate(0, 0, 14)
	if next.DueAt == nil || !next.DueAt.Equal(wantDue) {
		t.Errorf("respawned due_at = %v, want %v", next.DueAt, wantDue)
	}
	if next.Title != "Send flowers" || next.Category != "Romantic" {
		t.Errorf("respawned gesture did not copy fields: %+v", next)
	}
}

func TestCompleteNonRepeatingDoesNotSpawn(t *testing.T) {
	repo := newFakeGestureRepo()
	svc := NewGestureService(repo, passTxMgr{}, discardLogger())
	ctx := context.Background()

	gesture, err := svc.Create(ctx, "user-1", &CreateGestureRequest{
		Title:    "Write a note",
		Category: "Caring",
		Effort:   "Low",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Complete(ctx, "user-1", gesture.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(repo.gestures) != 1 {
		t.Errorf("stored gestures = %d, want 1", len(repo.gestures))
	}
}

func TestSkipDoesNotSpawn(t *testing.T) {
	repo := newFakeGestureRepo()
	svc := NewGestureService(repo, passTxMgr{}, discardLogger())
	ctx := context.Background()

	due := time.Now().Add(24 * time.Hour)
	gesture, _ := svc.Create(ctx, "user-1", &CreateGestureRequest{
		Title:           "Plan a trip",
		Category:        "Special",
		Effort:          "High",
		DueAt:           &due,
		RepeatMode:      strPtr("interval"),
		RepeatEveryDays: intPtr(30),
	})

	skipped, err := svc.Skip(ctx, "user-1", gesture.ID)
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if skipped.Status != crm.GestureStatusSkipped {
		t.Errorf("status = %q, want skipped", skipped.Status)
	}
	if len(repo.gestures) != 1 {
		t.Errorf("skip spawned a repeat instance")
	}
}

func TestGestureOwnership(t *testing.T) {
	repo := newFakeGestureRepo()
	svc := NewGestureService(repo, passTxMgr{}, discardLogger())
	ctx := context.Background()

	gesture, _ := svc.Create(ctx, "owner", &CreateGestureRequest{
		Title:    "Call",
		Category: "Daily",
		Effort:   "Low",
	})

	if _, err := svc.Complete(ctx, "intruder", gesture.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign user error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(ctx, "owner", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing gesture error = %v, want ErrNotFound", err)
	}
}

func TestCreateFromTemplate(t *testing.T) {
	repo := newFakeGestureRepo()
	gestures := NewGestureService(repo, passTxMgr{}, discardLogger())
	templates := NewTemplateService(repo, discardLogger())
	ctx := context.Background()

	tmpl, err := templates.Create(ctx, "user-1", &CreateTemplateRequest{
		Title:       "Cook their favorite meal",
		Category:    "Caring",
		Effort:      "Medium",
		Description: strPtr("Check the pantry first"),
	})
	if err != nil {
		t.Fatalf("template Create() error = %v", err)
	}

	t.Run("defaults from template", func(t *testing.T) {
		gesture, err := gestures.CreateFromTemplate(ctx, "user-1", &FromTemplateRequest{
			TemplateID: tmpl.ID,
		})
		if err != nil {
			t.Fatalf("CreateFromTemplate() error = %v", err)
		}
		if gesture.Title != tmpl.Title || gesture.Category != tmpl.Category || gesture.Effort != tmpl.Effort {
			t.Errorf("gesture did not inherit template fields: %+v", gesture)
		}
		if gesture.TemplateID == nil || *gesture.TemplateID != tmpl.ID {
			t.Errorf("template_id = %v, want %q", gesture.TemplateID, tmpl.ID)
		}
		if gesture.Notes == nil || *gesture.Notes != "Check the pantry first" {
			t.Errorf("notes = %v, want template description", gesture.Notes)
		}
	})

	t.Run("overrides win", func(t *testing.T) {
		req := &FromTemplateRequest{TemplateID: tmpl.ID}
		req.Overrides.Title = strPtr("Cook brunch instead")
		gesture, err := gestures.CreateFromTemplate(ctx, "user-1", req)
		if err != nil {
			t.Fatalf("CreateFromTemplate() error = %v", err)
		}
		if gesture.Title != "Cook brunch instead" {
			t.Errorf("title = %q, want override", gesture.Title)
		}
		if gesture.Category != tmpl.Category {
			t.Errorf("category = %q, want template value", gesture.Category)
		}
	})

	t.Run("foreign template forbidden", func(t *testing.T) {
		_, err := gestures.CreateFromTemplate(ctx, "intruder", &FromTemplateRequest{TemplateID: tmpl.ID})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})
}

func TestNextRepeatInstanceRequiresAllFields(t *testing.T) {
	now := time.Now()
	due := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		gesture crm.Gesture
		want    bool
	}{
		{
			name: "all fields present",
			gesture: crm.Gesture{
				RepeatMode:      strPtr("interval"),
				RepeatEveryDays: intPtr(7),
				DueAt:           &due,
			},
			want: true,
		},
		{
			name:    "no repeat fields",
			gesture: crm.Gesture{DueAt: &due},
		},
		{
			name: "missing due date",
			gesture: crm.Gesture{
				RepeatMode:      strPtr("interval"),
				RepeatEveryDays: intPtr(7),
			},
		},
		{
			name: "missing interval",
			gesture: crm.Gesture{
				RepeatMode: strPtr("interval"),
				DueAt:      &due,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRepeatInstance(&tt.gesture, now)
			if (got != nil) != tt.want {
				t.Errorf("nextRepeatInstance() = %v, want spawn=%v", got, tt.want)
			}
		})
	}
}
