// Package reconcile decides, per request, whether to serve an entity from the
// store, from the cache, or from a live fetch merged back into the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/csandman/audnexus/internal/entity"
)

// Outcome names the path a Show request took.
type Outcome string

const (
	OutcomeRecent  Outcome = "recent"
	OutcomeCached  Outcome = "cached"
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeKept    Outcome = "kept"
)

type Request struct {
	Asin        string
	Region      string
	ForceUpdate bool
	// SeedAuthors enables the after-write hook for this request.
	SeedAuthors bool
}

// AfterWrite runs once a live fetch changed the store.
type AfterWrite[T entity.Profile] func(ctx context.Context, data T)

type Orchestrator[T entity.Profile] struct {
	kind       entity.Kind
	store      Store[T]
	cache      Cache[T]
	fetcher    Fetcher[T]
	window     time.Duration
	now        func() time.Time
	afterWrite AfterWrite[T]
	log        zerolog.Logger
}

type Option[T entity.Profile] func(*Orchestrator[T])

// WithWindow sets how long a freshly written record is served without a cache or fetch check.
func WithWindow[T entity.Profile](d time.Duration) Option[T] {
	return func(o *Orchestrator[T]) { o.window = d }
}

func WithClock[T entity.Profile](now func() time.Time) Option[T] {
	return func(o *Orchestrator[T]) { o.now = now }
}

func WithAfterWrite[T entity.Profile](fn AfterWrite[T]) Option[T] {
	return func(o *Orchestrator[T]) { o.afterWrite = fn }
}

func WithLogger[T entity.Profile](log zerolog.Logger) Option[T] {
	return func(o *Orchestrator[T]) { o.log = log }
}

func New[T entity.Profile](kind entity.Kind, s Store[T], c Cache[T], f Fetcher[T], opts ...Option[T]) *Orchestrator[T] {
	o := &Orchestrator[T]{
		kind:    kind,
		store:   s,
		cache:   c,
		fetcher: f,
		window:  entity.DefaultRecentWindow,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.log = o.log.With().Str("component", "reconcile").Str("kind", kind.String()).Logger()
	return o
}

// Show returns the current view of an entity.
func (o *Orchestrator[T]) Show(ctx context.Context, req Request) (T, error) {
	data, _, err := o.show(ctx, req)
	return data, err
}

func (o *Orchestrator[T]) show(ctx context.Context, req Request) (T, Outcome, error) {
	var zero T
	region := entity.RegionOrDefault(req.Region)
	if err := entity.CheckKey(req.Asin, region); err != nil {
		return zero, "", err
	}
	log := o.log.With().Str("asin", req.Asin).Str("region", region).Logger()

	doc, found, err := o.store.FindOne(ctx, req.Asin, region)
	if err != nil {
		return zero, "", err
	}

	if found && !req.ForceUpdate {
		if entity.IsRecentlyUpdated(doc.Meta, o.now(), o.window) {
			log.Debug().Time("updated_at", doc.UpdatedAt).Msg("recently updated, serving stored record")
			return doc.Data, OutcomeRecent, nil
		}
		if cached, ok := o.cache.Get(ctx, req.Asin, region); ok {
			log.Debug().Msg("serving cached record")
			return cached, OutcomeCached, nil
		}
	}

	fetched, err := o.fetcher.Fetch(ctx, req.Asin, region)
	if err != nil {
		if !errors.Is(err, entity.ErrUpstream) {
			err = fmt.Errorf("%w: %w", entity.ErrUpstream, err)
		}
		log.Warn().Err(err).Msg("live fetch failed")
		return zero, "", err
	}

	// Writes started past this point finish even if the caller goes away.
	wctx := context.WithoutCancel(ctx)

	// A stored record that reaches the live path is always a merge candidate;
	// the store's equality check and completeness gate arbitrate the write.
	res, err := o.store.CreateOrUpdate(wctx, req.Asin, region, fetched, true)
	if err != nil {
		return zero, "", err
	}

	outcome := OutcomeKept
	switch {
	case res.Modified && found:
		outcome = OutcomeUpdated
	case res.Modified:
		outcome = OutcomeCreated
	}
	log.Info().Str("outcome", string(outcome)).Bool("force", req.ForceUpdate).Msg("reconciled")

	o.cache.Set(wctx, res.Data)
	if res.Modified && req.SeedAuthors && o.afterWrite != nil {
		o.afterWrite(wctx, res.Data)
	}
	return res.Data, outcome, nil
}

// Delete evicts the cache entry, then removes the stored record. It reports
// whether a stored record existed.
func (o *Orchestrator[T]) Delete(ctx context.Context, asin, region string) (bool, error) {
	region = entity.RegionOrDefault(region)
	if err := entity.CheckKey(asin, region); err != nil {
		return false, err
	}
	o.cache.Delete(ctx, asin)
	deleted, err := o.store.Delete(ctx, asin, region)
	if err != nil {
		return false, err
	}
	o.log.Info().Str("asin", asin).Str("region", region).Bool("deleted", deleted).Msg("delete")
	return deleted, nil
}
