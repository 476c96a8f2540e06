package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewToken returns a time-ordered identity token.
func NewToken() (uuid.UUID, error) {
	return uuid.NewV7()
}

// TokenTime decodes the millisecond creation time carried in the first 48
// bits of a version 7 UUID.
func TokenTime(id string) (time.Time, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse identity token: %w", err)
	}
	if u.Version() != 7 {
		return time.Time{}, fmt.Errorf("identity token %s is version %d, want 7", id, u.Version())
	}
	ms := binary.BigEndian.Uint64(u[:8]) >> 16
	return time.UnixMilli(int64(ms)).UTC(), nil
}
