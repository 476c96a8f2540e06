package entity

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// DefaultRecentWindow is how long a freshly written record is served as-is.
const DefaultRecentWindow = 60 * time.Second

// IsEqual reports whether two external views carry the same domain data.
// Nil and empty collections compare equal since decoders disagree on them.
func IsEqual[T Profile](a, b T) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// IsRecentlyUpdated reports whether meta was written less than window ago.
func IsRecentlyUpdated(meta Meta, now time.Time, window time.Duration) bool {
	if meta.UpdatedAt.IsZero() {
		return false
	}
	return now.Sub(meta.UpdatedAt) < window
}
