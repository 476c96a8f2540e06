package entity

import "time"

// Meta is the store-assigned part of a persisted record. ID is the store's
// identity token; its embedded creation time is the record's logical birth.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Document is a persisted record. Only the store layer hands these out;
// everything returned to callers or cached is the bare Data.
type Document[T any] struct {
	Meta
	Data T
}
