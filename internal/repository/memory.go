package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"subscription-tracker/internal/model"

	"github.com/google/uuid"
)

// MemoryRepository keeps subscriptions in insertion order in process memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	subs []model.Subscription
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepository) Create(_ context.Context, sub *model.Subscription) (*model.Subscription, error) {
	if strings.TrimSpace(sub.Name) == "" || sub.StartDate.IsZero() {
		return nil, ErrInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := clone(*sub)
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
	}
	for _, existing := range r.subs {
		if existing.ID == saved.ID {
			return nil, ErrInvalid
		}
	}
	now := r.now()
	saved.CreatedAt = now
	saved.UpdatedAt = now

	r.subs = append(r.subs, saved)
	out := clone(saved)
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]model.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := make([]model.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		subs = append(subs, clone(sub))
	}
	return subs, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	out := clone(r.subs[i])
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, id uuid.UUID, patch model.SubscriptionPatch) (*model.Subscription, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrInvalid
	}
	if patch.StartDate != nil && patch.StartDate.IsZero() {
		return nil, ErrInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	sub := clone(r.subs[i])
	patch.Apply(&sub)
	sub.EndDate = cloneTime(sub.EndDate)
	sub.UpdatedAt = r.now()
	r.subs[i] = sub

	out := clone(sub)
	return &out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	removed := r.subs[i]
	r.subs = append(r.subs[:i], r.subs[i+1:]...)
	return &removed, nil
}

func (r *MemoryRepository) indexOf(id uuid.UUID) int {
	for i, sub := range r.subs {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

func clone(sub model.Subscription) model.Subscription {
	sub.EndDate = cloneTime(sub.EndDate)
	return sub
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
