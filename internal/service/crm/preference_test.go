package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"heartline/internal/domain"
	"heartline/internal/domain/models/crm"
	crmrepo "heartline/internal/domain/repositories/crm"
)

// fakePersonRepo is an in-memory PersonRepository.
type fakePersonRepo struct {
	people map[string]*crm.Person
	nextID int
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{people: make(map[string]*crm.Person)}
}

func (r *fakePersonRepo) Create(_ context.Context, p *crm.Person) error {
	r.nextID++
	p.ID = string(rune('p' + r.nextID - 1))
	stored := *p
	r.people[p.ID] = &stored
	return nil
}

func (r *fakePersonRepo) Get(_ context.Context, id string) (*crm.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "person not found"}
	}
	out := *p
	return &out, nil
}

func (r *fakePersonRepo) ListByUser(_ context.Context, userID string, _ crmrepo.PersonFilter) ([]crm.Person, error) {
	var out []crm.Person
	for _, p := range r.people {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePersonRepo) Update(_ context.Context, p *crm.Person) error {
	stored := *p
	r.people[p.ID] = &stored
	return nil
}

func (r *fakePersonRepo) Delete(_ context.Context, id string) error {
	delete(r.people, id)
	return nil
}

// fakePrefRepo is an in-memory PreferenceRepository keyed by the normalized
// (person, kind, value) triple.
type fakePrefRepo struct {
	prefs  map[string]*crm.PersonPreference
	owners map[string]string // personID -> userID
	nextID int
}

func newFakePrefRepo(owners map[string]string) *fakePrefRepo {
	return &fakePrefRepo{prefs: make(map[string]*crm.PersonPreference), owners: owners}
}

func (r *fakePrefRepo) Create(_ context.Context, p *crm.PersonPreference) error {
	for _, existing := range r.prefs {
		if existing.PersonID == p.PersonID && existing.Kind == p.Kind && existing.Value == p.Value {
			return &domain.ConflictError{Message: "preference already exists", ResourceType: "preference", ResourceID: existing.ID}
		}
	}
	r.nextID++
	p.ID = string(rune('0' + r.nextID))
	stored := *p
	r.prefs[p.ID] = &stored
	return nil
}

func (r *fakePrefRepo) Get(_ context.Context, id string) (*crm.PersonPreference, string, error) {
	p, ok := r.prefs[id]
	if !ok {
		return nil, "", &domain.NotFoundError{Message: "preference not found"}
	}
	out := *p
	return &out, r.owners[p.PersonID], nil
}

func (r *fakePrefRepo) ListByPerson(_ context.Context, personID, kind string) ([]crm.PersonPreference, error) {
	var out []crm.PersonPreference
	for _, p := range r.prefs {
		if p.PersonID == personID && (kind == "" || p.Kind == kind) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePrefRepo) Delete(_ context.Context, id string) error {
	delete(r.prefs, id)
	return nil
}

func newPreferenceFixture() (*PreferenceService, *fakePrefRepo) {
	personRepo := newFakePersonRepo()
	personRepo.people["p1"] = &crm.Person{ID: "p1", UserID: "user-1", DisplayName: "Maya", CreatedAt: time.Now()}
	prefRepo := newFakePrefRepo(map[string]string{"p1": "user-1"})
	return NewPreferenceService(prefRepo, personRepo, discardLogger()), prefRepo
}

func TestPreferenceNormalization(t *testing.T) {
	svc, _ := newPreferenceFixture()
	ctx := context.Background()

	pref, err := svc.Create(ctx, "user-1", "p1", &CreatePreferenceRequest{
		Kind:  crm.PreferenceKindLike,
		Value: "  SuShi  ",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if pref.Value != "sushi" {
		t.Errorf("Value = %q, want normalized %q", pref.Value, "sushi")
	}

	// A differently-cased duplicate collides after normalization.
	_, err = svc.Create(ctx, "user-1", "p1", &CreatePreferenceRequest{
		Kind:  crm.PreferenceKindLike,
		Value: "SUSHI",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate error = %v, want ErrConflict", err)
	}

	// Same value as a dislike is a distinct preference.
	if _, err := svc.Create(ctx, "user-1", "p1", &CreatePreferenceRequest{
		Kind:  crm.PreferenceKindDislike,
		Value: "sushi",
	}); err != nil {
		t.Errorf("same value under other kind error = %v", err)
	}
}

func TestPreferenceValidation(t *testing.T) {
	svc, _ := newPreferenceFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreatePreferenceRequest
	}{
		{name: "bad kind", req: CreatePreferenceRequest{Kind: "loves", Value: "hiking"}},
		{name: "empty value", req: CreatePreferenceRequest{Kind: crm.PreferenceKindLike, Value: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", "p1", &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestPreferenceDeleteOwnership(t *testing.T) {
	svc, _ := newPreferenceFixture()
	ctx := context.Background()

	pref, err := svc.Create(ctx, "user-1", "p1", &CreatePreferenceRequest{
		Kind:  crm.PreferenceKindLike,
		Value: "jazz",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "intruder", pref.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign delete error = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(ctx, "user-1", pref.ID); err != nil {
		t.Errorf("owner delete error = %v", err)
	}
	if err := svc.Delete(ctx, "user-1", pref.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
