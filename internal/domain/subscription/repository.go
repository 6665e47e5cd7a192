package subscription

import "context"

// Repository is the read-only subscription source supplied by the storage
// layer. The engine only ever lists and looks up projections.
type Repository interface {
	Get(ctx context.Context, id string) (*Subscription, error)
	List(ctx context.Context) ([]*Subscription, error)
	ListActive(ctx context.Context) ([]*Subscription, error)
}
