package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/csandman/audnexus/internal/entity"
)

// MaxSearchResults caps author name search.
const MaxSearchResults = 25

// Result is the outcome of a write. Modified is false when the store was left untouched.
type Result[T any] struct {
	Data     T
	Modified bool
}

// Gateway wraps a Collection with create, update and completeness gating for one kind.
type Gateway[T entity.Profile] struct {
	kind entity.Kind
	coll Collection[T]
	gate Gate[T]
	log  zerolog.Logger
}

func NewGateway[T entity.Profile](kind entity.Kind, coll Collection[T], gate Gate[T], log zerolog.Logger) *Gateway[T] {
	return &Gateway[T]{
		kind: kind,
		coll: coll,
		gate: gate,
		log:  log.With().Str("component", "store").Str("kind", kind.String()).Logger(),
	}
}

func NewAuthorGateway(coll Collection[entity.Author], log zerolog.Logger) *Gateway[entity.Author] {
	return NewGateway(entity.KindAuthor, coll, AuthorGate, log)
}

func NewBookGateway(coll Collection[entity.Book], log zerolog.Logger) *Gateway[entity.Book] {
	return NewGateway(entity.KindBook, coll, BookGate, log)
}

func NewChapterGateway(coll Collection[entity.ChapterInfo], log zerolog.Logger) *Gateway[entity.ChapterInfo] {
	return NewGateway(entity.KindChapter, coll, ChapterGate, log)
}

func (g *Gateway[T]) Kind() entity.Kind { return g.kind }

func (g *Gateway[T]) fail(op, asin string, err error) error {
	g.log.Error().Err(err).Str("op", op).Str("asin", asin).Msg("store operation failed")
	return &OpError{Op: op, Kind: g.kind, Asin: asin, Err: err}
}

// Create inserts data and reads it back in projected form.
func (g *Gateway[T]) Create(ctx context.Context, data T) (Result[T], error) {
	asin, region := data.Identity()
	if err := g.coll.Insert(ctx, data); err != nil {
		return Result[T]{}, g.fail(OpCreate, asin, err)
	}
	stored, found, err := g.coll.FindProfile(ctx, Filter{Asin: asin, Region: region})
	if err != nil {
		return Result[T]{}, g.fail(OpCreate, asin, err)
	}
	if !found {
		return Result[T]{}, g.fail(OpCreate, asin, entity.ErrNotFound)
	}
	return Result[T]{Data: stored, Modified: true}, nil
}

// Delete removes the record for asin and region and reports whether one existed.
func (g *Gateway[T]) Delete(ctx context.Context, asin, region string) (bool, error) {
	deleted, err := g.coll.Delete(ctx, Filter{Asin: asin, Region: region})
	if err != nil {
		return false, g.fail(OpDelete, asin, err)
	}
	return deleted, nil
}

// FindOne returns the raw record with store metadata.
func (g *Gateway[T]) FindOne(ctx context.Context, asin, region string) (entity.Document[T], bool, error) {
	doc, found, err := g.coll.FindOne(ctx, Filter{Asin: asin, Region: region})
	if err != nil {
		return entity.Document[T]{}, false, g.fail(OpRead, asin, err)
	}
	return doc, found, nil
}

// FindWithProjection returns the record without id and timestamps.
func (g *Gateway[T]) FindWithProjection(ctx context.Context, asin, region string) (T, bool, error) {
	data, found, err := g.coll.FindProfile(ctx, Filter{Asin: asin, Region: region})
	if err != nil {
		var zero T
		return zero, false, g.fail(OpRead, asin, err)
	}
	return data, found, nil
}

// Update replaces an existing record, keeping its original creation time.
func (g *Gateway[T]) Update(ctx context.Context, asin, region string, data T) (Result[T], error) {
	f := Filter{Asin: asin, Region: region}
	doc, found, err := g.coll.FindOne(ctx, f)
	if err != nil {
		return Result[T]{}, g.fail(OpUpdate, asin, err)
	}
	if !found {
		return Result[T]{}, g.fail(OpUpdate, asin, entity.ErrNotFound)
	}
	createdAt, err := g.coll.CreatedAt(doc.Meta)
	if err != nil {
		return Result[T]{}, g.fail(OpUpdate, asin, err)
	}
	g.log.Info().Str("asin", asin).Msgf("updating %s %s", g.kind, asin)
	if err := g.coll.Update(ctx, f, data, createdAt); err != nil {
		return Result[T]{}, g.fail(OpUpdate, asin, err)
	}
	stored, found, err := g.coll.FindProfile(ctx, f)
	if err != nil {
		return Result[T]{}, g.fail(OpUpdate, asin, err)
	}
	if !found {
		return Result[T]{}, g.fail(OpUpdate, asin, entity.ErrNotFound)
	}
	return Result[T]{Data: stored, Modified: true}, nil
}

// CreateOrUpdate creates a missing record. An existing record is replaced
// only when allowUpdate is set, data differs from it and the kind's gate
// passes; otherwise the existing record is returned unmodified.
func (g *Gateway[T]) CreateOrUpdate(ctx context.Context, asin, region string, data T, allowUpdate bool) (Result[T], error) {
	existing, found, err := g.FindWithProjection(ctx, asin, region)
	if err != nil {
		return Result[T]{}, err
	}
	if !found {
		return g.Create(ctx, data)
	}
	if !allowUpdate {
		return Result[T]{Data: existing}, nil
	}
	if entity.IsEqual(existing, data) {
		g.log.Debug().Str("asin", asin).Msg("data unchanged, skipping update")
		return Result[T]{Data: existing}, nil
	}
	if !g.gate(existing, data) {
		g.log.Debug().Str("asin", asin).Msg("incoming data less complete, keeping existing")
		return Result[T]{Data: existing}, nil
	}
	return g.Update(ctx, asin, region, data)
}

// SearchByName runs author name search when the driver supports it. Names
// shorter than entity.MinSearchLength fail before reaching the driver.
func (g *Gateway[T]) SearchByName(ctx context.Context, name string) ([]entity.AuthorMatch, error) {
	if !entity.ValidateName(name) {
		return nil, entity.ErrMissingSearchTerm
	}
	s, ok := g.coll.(AuthorSearcher)
	if !ok {
		return nil, g.fail(OpSearch, name, errors.ErrUnsupported)
	}
	matches, err := s.SearchByName(ctx, name, MaxSearchResults)
	if err != nil {
		return nil, g.fail(OpSearch, name, err)
	}
	return matches, nil
}

// Ping checks driver connectivity. Drivers without a server always succeed.
func (g *Gateway[T]) Ping(ctx context.Context) error {
	if p, ok := g.coll.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
