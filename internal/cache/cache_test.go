package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csandman/audnexus/internal/entity"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, ttl, zerolog.Nop()), mr
}

func TestKey(t *testing.T) {
	assert.Equal(t, "author-B000APZOQA", Key(entity.KindAuthor, "B000APZOQA"))
	assert.Equal(t, "chapter-B08G9PRS1K", Key(entity.KindChapter, "B08G9PRS1K"))
}

func TestBucket_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 0)
	books := For[entity.Book](c, entity.KindBook)

	_, ok := books.Get(ctx, "B08G9PRS1K", "us")
	assert.False(t, ok)

	in := entity.Book{Asin: "B08G9PRS1K", Region: "us", Title: "Rhythm of War"}
	books.Set(ctx, in)
	assert.True(t, mr.Exists("book-B08G9PRS1K"))

	got, ok := books.Get(ctx, "B08G9PRS1K", "us")
	require.True(t, ok)
	assert.Equal(t, in, got)

	books.Delete(ctx, "B08G9PRS1K")
	assert.False(t, mr.Exists("book-B08G9PRS1K"))
}

func TestBucket_RegionMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 0)
	authors := For[entity.Author](c, entity.KindAuthor)

	authors.Set(ctx, entity.Author{Asin: "B000APZOQA", Region: "uk", Name: "Brandon Sanderson"})
	_, ok := authors.Get(ctx, "B000APZOQA", "us")
	assert.False(t, ok)
	_, ok = authors.Get(ctx, "B000APZOQA", "uk")
	assert.True(t, ok)

	require.NoError(t, mr.Set("author-B001IGFHW6", `{"asin":"B001IGFHW6","name":"Legacy"}`))
	got, ok := authors.Get(ctx, "B001IGFHW6", "de")
	assert.True(t, ok)
	assert.Equal(t, "Legacy", got.Name)
}

func TestBucket_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Hour)
	For[entity.Author](c, entity.KindAuthor).Set(ctx, entity.Author{Asin: "B000APZOQA", Region: "us"})
	assert.Equal(t, time.Hour, mr.TTL("author-B000APZOQA"))

	mr.FastForward(2 * time.Hour)
	_, ok := For[entity.Author](c, entity.KindAuthor).Get(ctx, "B000APZOQA", "us")
	assert.False(t, ok)
}

func TestBucket_FailuresAreMisses(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 0)
	chapters := For[entity.ChapterInfo](c, entity.KindChapter)

	require.NoError(t, mr.Set("chapter-B08G9PRS1K", "{not json"))
	_, ok := chapters.Get(ctx, "B08G9PRS1K", "us")
	assert.False(t, ok)

	mr.Close()
	_, ok = chapters.Get(ctx, "B08G9PRS1K", "us")
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		chapters.Set(ctx, entity.ChapterInfo{Asin: "B08G9PRS1K", Region: "us"})
		chapters.Delete(ctx, "B08G9PRS1K")
	})
	assert.Error(t, c.Ping(ctx))
}

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := New(nil, 0, zerolog.Nop())
	assert.False(t, c.Enabled())
	b := For[entity.Book](c, entity.KindBook)
	b.Set(ctx, entity.Book{Asin: "B08G9PRS1K"})
	_, ok := b.Get(ctx, "B08G9PRS1K", "us")
	assert.False(t, ok)
	assert.NoError(t, c.Ping(ctx))
}
