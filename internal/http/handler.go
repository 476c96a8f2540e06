package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/httpx"
	"github.com/csandman/audnexus/internal/reconcile"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// Shower is the read and delete surface of one entity kind.
type Shower[T entity.Profile] interface {
	Show(ctx context.Context, req reconcile.Request) (T, error)
	Delete(ctx context.Context, asin, region string) (bool, error)
}

// AuthorSearcher finds authors by name.
type AuthorSearcher interface {
	SearchByName(ctx context.Context, name string) ([]entity.AuthorMatch, error)
}

type showQuery struct {
	Asin        string `validate:"required,asin"`
	Region      string `validate:"omitempty,region"`
	Update      string `validate:"omitempty,oneof=0 1"`
	SeedAuthors string `validate:"omitempty,oneof=0 1"`
}

type deleteQuery struct {
	Asin   string `validate:"required,asin"`
	Region string `validate:"omitempty,region"`
}

type searchQuery struct {
	Name   string `validate:"required,search_name"`
	Region string `validate:"omitempty,region"`
}

// EntityHandler serves GET and DELETE for a single kind.
type EntityHandler[T entity.Profile] struct {
	kind entity.Kind
	svc  Shower[T]
}

func NewEntityHandler[T entity.Profile](kind entity.Kind, svc Shower[T]) *EntityHandler[T] {
	return &EntityHandler[T]{kind: kind, svc: svc}
}

func (h *EntityHandler[T]) Show(w http.ResponseWriter, r *http.Request) {
	q := showQuery{
		Asin:        chi.URLParam(r, "asin"),
		Region:      strings.ToLower(r.URL.Query().Get("region")),
		Update:      r.URL.Query().Get("update"),
		SeedAuthors: r.URL.Query().Get("seedAuthors"),
	}
	if errs := ValidateStruct(q); len(errs) > 0 {
		writeValidationError(w, r, errs)
		return
	}

	data, err := h.svc.Show(r.Context(), reconcile.Request{
		Asin:        q.Asin,
		Region:      q.Region,
		ForceUpdate: q.Update == "1",
		SeedAuthors: q.SeedAuthors == "1",
	})
	if err != nil {
		writeError(w, r, h.kind, err)
		return
	}
	httpx.JSONSuccess(w, r, data, nil)
}

func (h *EntityHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	q := deleteQuery{
		Asin:   chi.URLParam(r, "asin"),
		Region: strings.ToLower(r.URL.Query().Get("region")),
	}
	if errs := ValidateStruct(q); len(errs) > 0 {
		writeValidationError(w, r, errs)
		return
	}

	deleted, err := h.svc.Delete(r.Context(), q.Asin, q.Region)
	if err != nil {
		writeError(w, r, h.kind, err)
		return
	}
	if !deleted {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", h.kind.String()+" "+q.Asin+" not found", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]interface{}{
		"asin":    q.Asin,
		"region":  entity.RegionOrDefault(q.Region),
		"deleted": true,
	}, nil)
}

// SearchHandler serves author name search.
type SearchHandler struct {
	authors AuthorSearcher
}

func NewSearchHandler(authors AuthorSearcher) *SearchHandler {
	return &SearchHandler{authors: authors}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := searchQuery{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Region: strings.ToLower(r.URL.Query().Get("region")),
	}
	if errs := ValidateStruct(q); len(errs) > 0 {
		writeValidationError(w, r, errs)
		return
	}

	matches, err := h.authors.SearchByName(r.Context(), q.Name)
	if err != nil {
		writeError(w, r, entity.KindAuthor, err)
		return
	}
	if matches == nil {
		matches = []entity.AuthorMatch{}
	}
	httpx.JSONSuccess(w, r, matches, map[string]interface{}{"count": len(matches)})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, errs []ValidationError) {
	code := "VALIDATION_ERROR"
	details := make([]httpx.ErrorDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, httpx.ErrorDetail{Field: e.Field, Message: e.Message})
	}
	switch errs[0].Field {
	case "asin":
		code = "BAD_ASIN"
	case "region":
		code = "BAD_REGION"
	case "name":
		code = "BAD_SEARCH"
	}
	httpx.JSONError(w, r, http.StatusBadRequest, code, errs[0].Message, details)
}

func writeError(w http.ResponseWriter, r *http.Request, kind entity.Kind, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidAsin):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_ASIN", err.Error(), nil)
	case errors.Is(err, entity.ErrInvalidRegion):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REGION", err.Error(), nil)
	case errors.Is(err, entity.ErrMissingSearchTerm):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_SEARCH", err.Error(), nil)
	case errors.Is(err, entity.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", kind.String()+" not found", nil)
	case errors.Is(err, entity.ErrUpstream):
		hlog.FromRequest(r).Warn().Err(err).Str("kind", kind.String()).Msg("upstream failure")
		httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "failed to fetch "+kind.String()+" from source", nil)
	case errors.Is(err, entity.ErrStoreUnavailable):
		hlog.FromRequest(r).Error().Err(err).Str("kind", kind.String()).Msg("store failure")
		httpx.JSONError(w, r, http.StatusInternalServerError, "STORE_ERROR", "storage is unavailable", nil)
	default:
		hlog.FromRequest(r).Error().Err(err).Str("kind", kind.String()).Msg("request failed")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
	}
}
