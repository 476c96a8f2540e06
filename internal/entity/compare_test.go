package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEqual(t *testing.T) {
	book := Book{
		Asin:    "B079LRSMNN",
		Region:  "us",
		Title:   "Galaxy's Edge",
		Authors: []Person{{Asin: "B00G0WYW92", Name: "Jason Anspach"}},
		Genres: []Genre{
			{Asin: "18580606011", Name: "Science Fiction & Fantasy", Type: GenreTypeGenre},
		},
		SeriesPrimary: &Series{Asin: "B079LRRGKV", Name: "Galaxy's Edge", Position: "1"},
	}
	same := book
	same.Authors = append([]Person(nil), book.Authors...)
	same.Genres = append([]Genre(nil), book.Genres...)
	same.SeriesPrimary = &Series{Asin: "B079LRRGKV", Name: "Galaxy's Edge", Position: "1"}
	assert.True(t, IsEqual(book, same))

	changed := same
	changed.Title = "Galaxy's Edge: Part I"
	assert.False(t, IsEqual(book, changed))

	extra := same
	extra.Genres = append(extra.Genres, Genre{Asin: "1", Name: "Tag", Type: GenreTypeTag})
	assert.False(t, IsEqual(book, extra))
}

func TestIsEqual_EmptyCollections(t *testing.T) {
	a := ChapterInfo{Asin: "B079LRSMNN", Chapters: nil}
	b := ChapterInfo{Asin: "B079LRSMNN", Chapters: []Chapter{}}
	assert.True(t, IsEqual(a, b))
}

func TestIsRecentlyUpdated(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsRecentlyUpdated(Meta{UpdatedAt: now.Add(-10 * time.Second)}, now, DefaultRecentWindow))
	assert.False(t, IsRecentlyUpdated(Meta{UpdatedAt: now.Add(-2 * time.Minute)}, now, DefaultRecentWindow))
	assert.False(t, IsRecentlyUpdated(Meta{UpdatedAt: now.Add(-DefaultRecentWindow)}, now, DefaultRecentWindow))
	assert.False(t, IsRecentlyUpdated(Meta{}, now, DefaultRecentWindow))
}
