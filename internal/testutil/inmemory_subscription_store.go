package testutil

import (
	"context"

	"github.com/subtally/subtally/internal/domain/subscription"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemorySubscriptionStore) List(ctx context.Context) ([]*subscription.Subscription, error) {
	return s.InMemoryStore.List(ctx, nil, nil)
}

func (s *InMemorySubscriptionStore) ListActive(ctx context.Context) ([]*subscription.Subscription, error) {
	return s.InMemoryStore.List(ctx, func(_ context.Context, sub *subscription.Subscription) bool {
		return sub != nil && sub.Active
	}, nil)
}

// Add validates and stores a subscription fixture.
func (s *InMemorySubscriptionStore) Add(ctx context.Context, sub *subscription.Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	return s.InMemoryStore.Create(ctx, sub.ID, sub)
}
