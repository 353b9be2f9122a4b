package repository

import (
	"context"
	"errors"

	"subscription-tracker/internal/model"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("subscription not found")
	ErrInvalid  = errors.New("invalid subscription")
)

// Store is a keyed collection of subscriptions.
type Store interface {
	Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error)
	List(ctx context.Context) ([]model.Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error)
	Update(ctx context.Context, id uuid.UUID, patch model.SubscriptionPatch) (*model.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Subscription, error)
}

var (
	_ Store = (*SubscriptionRepository)(nil)
	_ Store = (*MemoryRepository)(nil)
)
