package store

import (
	"context"
	"time"

	"github.com/csandman/audnexus/internal/entity"
)

// Filter selects a record by catalog id and region. Records persisted
// without a region match every region.
type Filter struct {
	Asin   string
	Region string
}

// Collection is the contract a persistence driver provides for one entity kind.
type Collection[T entity.Profile] interface {
	// Insert stores data as a new record. The driver assigns the identity
	// token and stamps both timestamps from the token's creation time.
	Insert(ctx context.Context, data T) error
	// FindOne returns the raw record including store metadata.
	FindOne(ctx context.Context, f Filter) (entity.Document[T], bool, error)
	// FindProfile returns the record with store metadata stripped.
	FindProfile(ctx context.Context, f Filter) (T, bool, error)
	// Update replaces the domain fields, sets createdAt and stamps updatedAt
	// with the store's current time.
	Update(ctx context.Context, f Filter, data T, createdAt time.Time) error
	// Delete removes the matching record and reports whether one was removed.
	Delete(ctx context.Context, f Filter) (bool, error)
	// CreatedAt extracts the creation time embedded in a record's identity token.
	CreatedAt(meta entity.Meta) (time.Time, error)
}

// AuthorSearcher is implemented by author collections that support name search.
type AuthorSearcher interface {
	SearchByName(ctx context.Context, name string, limit int) ([]entity.AuthorMatch, error)
}

// Pinger is implemented by drivers backed by a remote server.
type Pinger interface {
	Ping(ctx context.Context) error
}
