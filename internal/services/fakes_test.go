package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"IG_DIRECTORY_BACK-END/internal/models"
	"IG_DIRECTORY_BACK-END/internal/repository"
)

type fakeProfileStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]models.Profile
	calls    []string
	listErr  error
	findErr  error
	insErr   error
	countErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{rows: map[uuid.UUID]models.Profile{}}
}

func (f *fakeProfileStore) List(ctx context.Context, filter repository.ProfileFilter) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := []models.Profile{}
	search := strings.ToLower(filter.Search)
	for _, p := range f.rows {
		if p.Status != filter.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Handle), search) && !strings.Contains(strings.ToLower(p.Bio), search) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.OrderBy == repository.OrderByApprovedAt {
			return out[i].ApprovedAt.After(*out[j].ApprovedAt)
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []models.Profile{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeProfileStore) Count(ctx context.Context, status models.ProfileStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, p := range f.rows {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeProfileStore) FindByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "find")
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, p := range f.rows {
		if p.Handle == handle {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileStore) Insert(ctx context.Context, p models.Profile) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "insert")
	if f.insErr != nil {
		return nil, f.insErr
	}
	for _, existing := range f.rows {
		if existing.Handle == p.Handle {
			return nil, repository.ErrDuplicate
		}
	}
	p.ID = uuid.New()
	f.rows[p.ID] = p
	return &p, nil
}

func (f *fakeProfileStore) Approve(ctx context.Context, id uuid.UUID, at time.Time) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Status = models.StatusApproved
	p.ApprovedAt = &at
	f.rows[id] = p
	return &p, nil
}

func (f *fakeProfileStore) Delete(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.rows, id)
	return &p, nil
}

type stubLookup struct {
	data  ProfileData
	err   error
	calls int
}

func (s *stubLookup) FetchProfile(ctx context.Context, handle string) (ProfileData, error) {
	s.calls++
	return s.data, s.err
}

type recordingNotifier struct {
	events []ModerationEvent
	err    error
}

func (r *recordingNotifier) Notify(ctx context.Context, ev ModerationEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

type recordingMetrics struct {
	submissions []string
	actions     []ModerationAction
}

func (r *recordingMetrics) SubmissionObserved(outcome string) {
	r.submissions = append(r.submissions, outcome)
}

func (r *recordingMetrics) ModerationObserved(action ModerationAction) {
	r.actions = append(r.actions, action)
}

type fakeAdminStore struct {
	byUsername map[string]models.AdminUser
	err        error
}

func (f *fakeAdminStore) FindActiveByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byUsername[username]
	if !ok || !a.IsActive {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAdminStore) FindActiveByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, a := range f.byUsername {
		if a.IsActive && strings.EqualFold(a.Email, email) {
			cp := a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memoryRevocations struct {
	revoked map[string]time.Duration
	err     error
}

func (m *memoryRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.revoked[jti]
	return ok, nil
}
