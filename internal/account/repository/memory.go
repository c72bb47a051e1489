package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"coffee-shop/backend/internal/account/domain"
)

// MemoryRepository is an in-memory Repository used in tests and local runs
// without a database. It enforces the same email-uniqueness contract as the
// Postgres implementation.
type MemoryRepository struct {
	mu       sync.Mutex
	byID     map[string]*domain.Account
	emailIdx map[string]string // email -> id
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     make(map[string]*domain.Account),
		emailIdx: make(map[string]string),
	}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.emailIdx[email]
	if !ok {
		return nil, nil
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context, offset, limit int) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

func (r *MemoryRepository) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.emailIdx[a.Email]; taken {
		return ErrDuplicateEmail
	}
	cp := *a
	r.byID[a.ID] = &cp
	r.emailIdx[a.Email] = a.ID
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[a.ID]
	if !ok {
		return ErrNotFound
	}
	if old.Email != a.Email {
		delete(r.emailIdx, old.Email)
		r.emailIdx[a.Email] = a.ID
	}
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.emailIdx, a.Email)
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, a := range r.byID {
		if !a.IsVerified && a.CreatedAt.Before(cutoff) {
			delete(r.emailIdx, a.Email)
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
