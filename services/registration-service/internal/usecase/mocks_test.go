package usecase

import (
	"context"
	"sync"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/model"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/repository"
	"github.com/vasapolrittideah/member-registry/shared/provider"
)

// --- mock identity provider ---

type mockIdentityProvider struct {
	createIdentityFn func(ctx context.Context, email, name string) (*provider.Identity, error)
	setCredentialFn  func(ctx context.Context, email, password string) error
	assignToGroupsFn func(ctx context.Context, email string, groups []string) error
	listIdentitiesFn func(ctx context.Context, fn func(*provider.Identity) error) error
	deleteIdentityFn func(ctx context.Context, username string) error

	calls []string
}

func (m *mockIdentityProvider) CreateIdentity(ctx context.Context, email, name string) (*provider.Identity, error) {
	m.calls = append(m.calls, "CreateIdentity")
	if m.createIdentityFn != nil {
		return m.createIdentityFn(ctx, email, name)
	}
	return identityWithSub("sub-1"), nil
}

func (m *mockIdentityProvider) SetCredential(ctx context.Context, email, password string) error {
	m.calls = append(m.calls, "SetCredential")
	if m.setCredentialFn != nil {
		return m.setCredentialFn(ctx, email, password)
	}
	return nil
}

func (m *mockIdentityProvider) AssignToGroups(ctx context.Context, email string, groups []string) error {
	m.calls = append(m.calls, "AssignToGroups")
	if m.assignToGroupsFn != nil {
		return m.assignToGroupsFn(ctx, email, groups)
	}
	return nil
}

func (m *mockIdentityProvider) ListIdentities(ctx context.Context, fn func(*provider.Identity) error) error {
	if m.listIdentitiesFn != nil {
		return m.listIdentitiesFn(ctx, fn)
	}
	return nil
}

func (m *mockIdentityProvider) DeleteIdentity(ctx context.Context, username string) error {
	m.calls = append(m.calls, "DeleteIdentity")
	if m.deleteIdentityFn != nil {
		return m.deleteIdentityFn(ctx, username)
	}
	return nil
}

func identityWithSub(sub string) *provider.Identity {
	return &provider.Identity{
		Username: "jane@x.com",
		Attributes: []provider.Attribute{
			{Name: "email", Value: "jane@x.com"},
			{Name: provider.AttributeSubject, Value: sub},
		},
	}
}

// --- in-memory profile repository ---

type mockProfileRepository struct {
	mu         sync.Mutex
	profiles   map[string]*model.Profile
	insertErr  error
	lookupErr  error
	inserts    int
	lookups    int
	beforeSave func()
}

func newMockProfileRepository(existing ...*model.Profile) *mockProfileRepository {
	repo := &mockProfileRepository{profiles: map[string]*model.Profile{}}
	for _, p := range existing {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (m *mockProfileRepository) InsertProfile(_ context.Context, profile *model.Profile) error {
	if m.beforeSave != nil {
		m.beforeSave()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.profiles[profile.ID]; ok {
		return repository.ErrProfileAlreadyExists
	}
	m.profiles[profile.ID] = profile
	return nil
}

func (m *mockProfileRepository) GetProfileByID(_ context.Context, id string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockProfileRepository) GetProfileByActivationCode(_ context.Context, code string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	for _, p := range m.profiles {
		if p.ActivationCode == code {
			return p, nil
		}
	}
	return nil, repository.ErrProfileNotFound
}

func (m *mockProfileRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

// --- metrics recorder ---

type recordingMetrics struct {
	mu         sync.Mutex
	outcomes   []string
	collisions []string
	scanned    int
	orphans    int
	deleted    int
}

func (r *recordingMetrics) RecordRegistration(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingMetrics) RecordCollision(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collisions = append(r.collisions, kind)
}

func (r *recordingMetrics) RecordReconciliation(scanned, orphans, deleted int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scanned += scanned
	r.orphans += orphans
	r.deleted += deleted
}

// --- notifier ---

type mockNotifier struct {
	profileCreatedFn func(ctx context.Context, profile *model.Profile) error
	notified         []*model.Profile
}

func (m *mockNotifier) ProfileCreated(ctx context.Context, profile *model.Profile) error {
	m.notified = append(m.notified, profile)
	if m.profileCreatedFn != nil {
		return m.profileCreatedFn(ctx, profile)
	}
	return nil
}
