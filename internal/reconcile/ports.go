package reconcile

import (
	"context"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/store"
)

// Store is the source of truth for one entity kind.
type Store[T entity.Profile] interface {
	FindOne(ctx context.Context, asin, region string) (entity.Document[T], bool, error)
	CreateOrUpdate(ctx context.Context, asin, region string, data T, allowUpdate bool) (store.Result[T], error)
	Delete(ctx context.Context, asin, region string) (bool, error)
}

// Cache is a derived, best-effort copy of the store. It never returns errors.
type Cache[T entity.Profile] interface {
	Get(ctx context.Context, asin, region string) (T, bool)
	Set(ctx context.Context, data T)
	Delete(ctx context.Context, asin string)
}

// Fetcher retrieves and parses a live entity from the upstream catalog.
type Fetcher[T entity.Profile] interface {
	Fetch(ctx context.Context, asin, region string) (T, error)
}

// FetchFunc adapts a plain function to a Fetcher.
type FetchFunc[T entity.Profile] func(ctx context.Context, asin, region string) (T, error)

func (f FetchFunc[T]) Fetch(ctx context.Context, asin, region string) (T, error) {
	return f(ctx, asin, region)
}
