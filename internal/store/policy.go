package store

import "github.com/csandman/audnexus/internal/entity"

// Gate decides whether incoming data may replace an existing, non-equal record.
type Gate[T any] func(existing, incoming T) bool

// AuthorGate lets an author through when its genre list does not regress.
func AuthorGate(existing, incoming entity.Author) bool {
	return genresComplete(existing.Genres, incoming.Genres)
}

// BookGate lets a book through when its genre list does not regress.
func BookGate(existing, incoming entity.Book) bool {
	return genresComplete(existing.Genres, incoming.Genres)
}

// ChapterGate lets any chapter listing with at least one chapter through.
func ChapterGate(_, incoming entity.ChapterInfo) bool {
	return len(incoming.Chapters) > 0
}

// genresComplete is true when incoming has genres and is at least as long as
// existing. Equal length still passes so a reshuffled list gets written.
func genresComplete(existing, incoming []entity.Genre) bool {
	if len(incoming) == 0 {
		return false
	}
	if len(existing) == 0 {
		return true
	}
	return len(incoming) >= len(existing)
}
