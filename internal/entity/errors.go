package entity

import "errors"

var (
	// ErrInvalidAsin is returned for a malformed catalog id.
	ErrInvalidAsin = errors.New("bad asin")
	// ErrInvalidRegion is returned for an unsupported region code.
	ErrInvalidRegion = errors.New("bad region")
	// ErrMissingSearchTerm is returned when a name search is too short.
	ErrMissingSearchTerm = errors.New("search name must be at least 3 characters")
	// ErrNotFound signals that no record exists for the id and region.
	ErrNotFound = errors.New("record not found")
	// ErrUpstream wraps failures fetching from the source catalog.
	ErrUpstream = errors.New("upstream fetch failed")
	// ErrStoreUnavailable wraps persistent store failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsClientError reports whether err was caused by bad request input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAsin) ||
		errors.Is(err, ErrInvalidRegion) ||
		errors.Is(err, ErrMissingSearchTerm)
}
