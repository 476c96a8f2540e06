package http

import (
	"context"
	"net/http"
	"time"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RouterConfig wires the handlers and middleware the API serves.
type RouterConfig struct {
	Authors  Shower[entity.Author]
	Books    Shower[entity.Book]
	Chapters Shower[entity.ChapterInfo]
	Search   AuthorSearcher

	// Ready maps a dependency name to its check. Every check must pass for /readyz.
	Ready map[string]func(ctx context.Context) error

	Log            zerolog.Logger
	AdminJWTSecret string
	RateLimit      *httpx.RateLimitMiddleware
	CORSOrigins    []string
	EnableHSTS     bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(cfg.Log))
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(cfg.EnableHSTS))
	r.Use(httpx.CORSMiddleware(cfg.CORSOrigins))
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyHandler(cfg.Ready))

	admin := httpx.AdminMiddleware(cfg.AdminJWTSecret)

	authors := NewEntityHandler(entity.KindAuthor, cfg.Authors)
	search := NewSearchHandler(cfg.Search)
	r.Route("/authors", func(r chi.Router) {
		r.Get("/", search.Search)
		r.Get("/{asin}", authors.Show)
		r.With(admin).Delete("/{asin}", authors.Delete)
	})

	books := NewEntityHandler(entity.KindBook, cfg.Books)
	chapters := NewEntityHandler(entity.KindChapter, cfg.Chapters)
	r.Route("/books", func(r chi.Router) {
		r.Get("/{asin}", books.Show)
		r.With(admin).Delete("/{asin}", books.Delete)
		r.Get("/{asin}/chapters", chapters.Show)
		r.With(admin).Delete("/{asin}/chapters", chapters.Delete)
	})

	return r
}

func readyHandler(checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		for name, check := range checks {
			if err := check(ctx); err != nil {
				hlog.FromRequest(r).Warn().Err(err).Str("dependency", name).Msg("not ready")
				http.Error(w, name+" not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
