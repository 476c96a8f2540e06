// Package catalog assembles the stores, cache, upstream client and
// orchestrators shared by the api, worker and seed commands.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/csandman/audnexus/internal/cache"
	"github.com/csandman/audnexus/internal/config"
	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/platform/audible"
	"github.com/csandman/audnexus/internal/reconcile"
	"github.com/csandman/audnexus/internal/store"
	"github.com/csandman/audnexus/internal/store/memory"
	mongostore "github.com/csandman/audnexus/internal/store/mongo"
	pgstore "github.com/csandman/audnexus/internal/store/postgres"
)

type Catalog struct {
	Authors  *reconcile.Orchestrator[entity.Author]
	Books    *reconcile.Orchestrator[entity.Book]
	Chapters *reconcile.Orchestrator[entity.ChapterInfo]

	AuthorStore  *store.Gateway[entity.Author]
	BookStore    *store.Gateway[entity.Book]
	ChapterStore *store.Gateway[entity.ChapterInfo]
	Cache        *cache.Cache

	closers []func()
}

type Option func(*options)

type options struct {
	afterBookWrite reconcile.AfterWrite[entity.Book]
	audible        []audible.Option
}

// WithBookAfterWrite runs fn after a book write when the request asked for author seeding.
func WithBookAfterWrite(fn reconcile.AfterWrite[entity.Book]) Option {
	return func(o *options) { o.afterBookWrite = fn }
}

// WithAudibleOptions is passed through to the upstream client.
func WithAudibleOptions(opts ...audible.Option) Option {
	return func(o *options) { o.audible = append(o.audible, opts...) }
}

// Open connects the configured store driver and cache and builds one
// orchestrator per entity kind. An unreachable cache is logged and disabled;
// an unreachable store is an error.
func Open(ctx context.Context, cfg config.Config, log zerolog.Logger, opts ...Option) (*Catalog, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{}
	authors, books, chapters, err := c.openStore(ctx, cfg.Store, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.AuthorStore = store.NewAuthorGateway(authors, log)
	c.BookStore = store.NewBookGateway(books, log)
	c.ChapterStore = store.NewChapterGateway(chapters, log)

	var rdb redis.Cmdable
	if cfg.Redis.Enabled() {
		client, err := cache.Open(ctx, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, running without cache")
		} else {
			rdb = client
			c.closers = append(c.closers, func() { _ = client.Close() })
		}
	}
	c.Cache = cache.New(rdb, cfg.CacheTTL, log)

	client := audible.NewClient(cfg.Audible.UserAgent, cfg.Audible.RPS, cfg.Audible.MaxRetries, cfg.Audible.Timeout,
		append([]audible.Option{audible.WithLogger(log)}, o.audible...)...)

	c.Authors = reconcile.New[entity.Author](entity.KindAuthor, c.AuthorStore,
		cache.For[entity.Author](c.Cache, entity.KindAuthor),
		reconcile.FetchFunc[entity.Author](client.Author),
		reconcile.WithWindow[entity.Author](cfg.RecentWindow),
		reconcile.WithLogger[entity.Author](log))

	bookOpts := []reconcile.Option[entity.Book]{
		reconcile.WithWindow[entity.Book](cfg.RecentWindow),
		reconcile.WithLogger[entity.Book](log),
	}
	if o.afterBookWrite != nil {
		bookOpts = append(bookOpts, reconcile.WithAfterWrite(o.afterBookWrite))
	}
	c.Books = reconcile.New[entity.Book](entity.KindBook, c.BookStore,
		cache.For[entity.Book](c.Cache, entity.KindBook),
		reconcile.FetchFunc[entity.Book](client.Book),
		bookOpts...)

	c.Chapters = reconcile.New[entity.ChapterInfo](entity.KindChapter, c.ChapterStore,
		cache.For[entity.ChapterInfo](c.Cache, entity.KindChapter),
		reconcile.FetchFunc[entity.ChapterInfo](client.Chapters),
		reconcile.WithWindow[entity.ChapterInfo](cfg.RecentWindow),
		reconcile.WithLogger[entity.ChapterInfo](log))

	return c, nil
}

func (c *Catalog) openStore(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (
	store.Collection[entity.Author], store.Collection[entity.Book], store.Collection[entity.ChapterInfo], error,
) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		c.closers = append(c.closers, pool.Close)
		log.Info().Str("dsn", RedactDSN(cfg.DSN)).Msg("database connection OK")
		return pgstore.NewAuthors(pool, cfg.Timeout),
			pgstore.New[entity.Book](pool, entity.KindBook, cfg.Timeout),
			pgstore.New[entity.ChapterInfo](pool, entity.KindChapter, cfg.Timeout),
			nil

	case config.DriverMongo:
		client, err := mongostore.Open(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, nil, err
		}
		c.closers = append(c.closers, func() { _ = client.Disconnect(context.Background()) })
		db := client.Database(cfg.MongoDatabase)

		authors := mongostore.NewAuthors(db)
		books := mongostore.New[entity.Book](db, entity.KindBook)
		chapters := mongostore.New[entity.ChapterInfo](db, entity.KindChapter)
		if err := authors.EnsureIndexes(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("author indexes: %w", err)
		}
		if err := books.EnsureIndexes(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("book indexes: %w", err)
		}
		if err := chapters.EnsureIndexes(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("chapter indexes: %w", err)
		}
		log.Info().Str("database", cfg.MongoDatabase).Msg("mongo connection OK")
		return authors, books, chapters, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return memory.NewAuthors(), memory.New[entity.Book](), memory.New[entity.ChapterInfo](), nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// Checks returns the readiness probes for the store and the cache.
func (c *Catalog) Checks() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"store": c.BookStore.Ping,
		"cache": c.Cache.Ping,
	}
}

// Close releases connections in reverse order of opening.
func (c *Catalog) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// OpenPostgres creates a pool and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(dsn), err)
	}
	return pool, nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
