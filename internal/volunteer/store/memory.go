package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"aakseva/internal/volunteer/models"
	"aakseva/pkg/platform/sentinel"
)

// InMemory keeps volunteer records in a map guarded by an RWMutex. It
// intentionally favors clarity over performance.
type InMemory struct {
	mu         sync.RWMutex
	volunteers map[uuid.UUID]*models.Volunteer
}

func NewInMemory() *InMemory {
	return &InMemory{volunteers: make(map[uuid.UUID]*models.Volunteer)}
}

func (s *InMemory) Create(_ context.Context, v *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxSeq int64
	for _, existing := range s.volunteers {
		if existing.AAKNo == v.AAKNo {
			return sentinel.ErrAlreadyUsed
		}
		if existing.UniqueID > maxSeq {
			maxSeq = existing.UniqueID
		}
	}
	v.UniqueID = maxSeq + 1

	stored := *v
	s.volunteers[v.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.volunteers[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListNewestFirst(_ context.Context) ([]*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].UniqueID > out[j].UniqueID
	})
	return out, nil
}

func (s *InMemory) ListByRoleRank(_ context.Context) ([]*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snapshot()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role.Rank() != out[j].Role.Rank() {
			return out[i].Role.Rank() < out[j].Role.Rank()
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].UniqueID > out[j].UniqueID
	})
	return out, nil
}

func (s *InMemory) FindByRole(_ context.Context, role models.Role) (*models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.volunteers {
		if v.Role == role {
			copied := *v
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// LockRole is a no-op here: MemoryTx already serializes whole role-mutation
// sequences behind one mutex.
func (s *InMemory) LockRole(_ context.Context, _ models.Role) error {
	return nil
}

func (s *InMemory) Update(_ context.Context, v *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteers[v.ID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := *v
	s.volunteers[v.ID] = &stored
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteers[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.volunteers, id)
	return nil
}

func (s *InMemory) CountAll(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.volunteers), nil
}

func (s *InMemory) CountByRole(_ context.Context, role models.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, v := range s.volunteers {
		if v.Role == role {
			count++
		}
	}
	return count, nil
}

// snapshot copies all records; callers hold at least the read lock.
func (s *InMemory) snapshot() []*models.Volunteer {
	out := make([]*models.Volunteer, 0, len(s.volunteers))
	for _, v := range s.volunteers {
		copied := *v
		out = append(out, &copied)
	}
	return out
}

// MemoryTx serializes role-mutation sequences against a single mutex so the
// demote-then-promote pair cannot interleave with a concurrent assignment.
type MemoryTx struct {
	mu sync.Mutex
}

func NewMemoryTx() *MemoryTx {
	return &MemoryTx{}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}
