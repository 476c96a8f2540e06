package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/store"
	"github.com/csandman/audnexus/internal/store/memory"
)

func genres(names ...string) []entity.Genre {
	out := make([]entity.Genre, 0, len(names))
	for i, n := range names {
		out = append(out, entity.Genre{Asin: "1800000000" + string(rune('0'+i)), Name: n, Type: entity.GenreTypeGenre})
	}
	return out
}

func book(title string, g ...string) entity.Book {
	return entity.Book{
		Asin:    "B08G9PRS1K",
		Region:  "us",
		Title:   title,
		Authors: []entity.Person{{Asin: "B000APZOQA", Name: "Brandon Sanderson"}},
		Genres:  genres(g...),
	}
}

func newBooks(t *testing.T) (*store.Gateway[entity.Book], *memory.Collection[entity.Book]) {
	t.Helper()
	coll := memory.New[entity.Book]()
	return store.NewBookGateway(coll, zerolog.Nop()), coll
}

func TestGateway_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	gw, _ := newBooks(t)

	res, err := gw.Create(ctx, book("Rhythm of War", "Fantasy"))
	require.NoError(t, err)
	assert.True(t, res.Modified)
	assert.Equal(t, "Rhythm of War", res.Data.Title)

	doc, found, err := gw.FindOne(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	ts, err := store.TokenTime(doc.ID)
	require.NoError(t, err)
	assert.True(t, ts.Equal(doc.CreatedAt))

	_, found, err = gw.FindWithProjection(ctx, "B08G9PRS1K", "uk")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = gw.Create(ctx, book("Rhythm of War", "Fantasy"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrStoreUnavailable))
	assert.EqualError(t, err, "an error occurred while creating book B08G9PRS1K in the DB")
}

func TestGateway_RegionlessRecordMatchesAnyRegion(t *testing.T) {
	ctx := context.Background()
	gw, _ := newBooks(t)

	legacy := book("Rhythm of War", "Fantasy")
	legacy.Region = ""
	_, err := gw.Create(ctx, legacy)
	require.NoError(t, err)

	for _, region := range []string{"us", "uk", "de"} {
		got, found, err := gw.FindWithProjection(ctx, legacy.Asin, region)
		require.NoError(t, err)
		assert.True(t, found, region)
		assert.Equal(t, "Rhythm of War", got.Title)
	}
}

func TestGateway_RegionlessRecordMovesOnUpdate(t *testing.T) {
	ctx := context.Background()
	gw, _ := newBooks(t)

	legacy := book("Rhythm of War", "Fantasy")
	legacy.Region = ""
	_, err := gw.Create(ctx, legacy)
	require.NoError(t, err)

	want := []bool{true, true, false, false}
	for i, region := range []string{"us", "uk", "us", "uk"} {
		data := book("Rhythm of War", "Fantasy")
		data.Region = region
		res, err := gw.CreateOrUpdate(ctx, data.Asin, region, data, true)
		require.NoError(t, err)
		assert.Equal(t, want[i], res.Modified, "call %d region=%s", i, region)
		assert.Equal(t, region, res.Data.Region)
	}

	us, found, err := gw.FindOne(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	require.True(t, found)
	uk, found, err := gw.FindOne(ctx, "B08G9PRS1K", "uk")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEqual(t, us.ID, uk.ID)
	assert.Equal(t, "us", us.Data.Region)
	assert.Equal(t, "uk", uk.Data.Region)

	_, found, err = gw.FindOne(ctx, "B08G9PRS1K", "de")
	require.NoError(t, err)
	assert.False(t, found, "no region-less record is left behind")
}

func TestGateway_RegionalRecordWinsOverRegionless(t *testing.T) {
	ctx := context.Background()
	gw, _ := newBooks(t)

	legacy := book("legacy", "Fantasy")
	legacy.Region = ""
	_, err := gw.Create(ctx, legacy)
	require.NoError(t, err)
	_, err = gw.Create(ctx, book("us", "Fantasy"))
	require.NoError(t, err)

	got, found, err := gw.FindWithProjection(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "us", got.Title)

	got, _, err = gw.FindWithProjection(ctx, "B08G9PRS1K", "uk")
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.Title)

	deleted, err := gw.Delete(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, found, err = gw.FindWithProjection(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	require.True(t, found, "delete removes one record")
	assert.Equal(t, "legacy", got.Title)

	deleted, err = gw.Delete(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	assert.True(t, deleted)
	_, found, err = gw.FindOne(ctx, "B08G9PRS1K", "uk")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGateway_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when absent regardless of allowUpdate", func(t *testing.T) {
		gw, _ := newBooks(t)
		res, err := gw.CreateOrUpdate(ctx, "B08G9PRS1K", "us", book("A"), false)
		require.NoError(t, err)
		assert.True(t, res.Modified)
	})

	t.Run("existing record is returned when update not allowed", func(t *testing.T) {
		gw, _ := newBooks(t)
		_, err := gw.Create(ctx, book("A", "Fantasy"))
		require.NoError(t, err)

		res, err := gw.CreateOrUpdate(ctx, "B08G9PRS1K", "us", book("B", "Fantasy", "Epic"), false)
		require.NoError(t, err)
		assert.False(t, res.Modified)
		assert.Equal(t, "A", res.Data.Title)
	})

	t.Run("equal data is a no-op", func(t *testing.T) {
		gw, _ := newBooks(t)
		_, err := gw.Create(ctx, book("A", "Fantasy"))
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			res, err := gw.CreateOrUpdate(ctx, "B08G9PRS1K", "us", book("A", "Fantasy"), true)
			require.NoError(t, err)
			assert.False(t, res.Modified)
		}
	})

	cases := []struct {
		name     string
		existing []string
		incoming []string
		title    string
		modified bool
	}{
		{"fewer genres rejected", []string{"Fantasy", "Epic", "Adventure"}, []string{"Fantasy", "Epic"}, "B", false},
		{"empty genres rejected", []string{"Fantasy"}, nil, "B", false},
		{"same count with a different list accepted", []string{"Fantasy", "Epic", "Adventure"}, []string{"Fantasy", "Epic", "Magic"}, "A", true},
		{"more genres accepted", []string{"Fantasy"}, []string{"Fantasy", "Epic"}, "B", true},
		{"first genres accepted", nil, []string{"Fantasy"}, "B", true},
		{"no genres on either side rejected", nil, nil, "B", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw, _ := newBooks(t)
			_, err := gw.Create(ctx, book("A", tc.existing...))
			require.NoError(t, err)

			res, err := gw.CreateOrUpdate(ctx, "B08G9PRS1K", "us", book(tc.title, tc.incoming...), true)
			require.NoError(t, err)
			assert.Equal(t, tc.modified, res.Modified)

			stored, _, err := gw.FindWithProjection(ctx, "B08G9PRS1K", "us")
			require.NoError(t, err)
			assert.Equal(t, res.Data, stored)
			if !tc.modified {
				assert.Equal(t, "A", stored.Title)
				assert.Len(t, stored.Genres, len(tc.existing))
			}
		})
	}
}

func TestGateway_UpdateKeepsCreationTime(t *testing.T) {
	ctx := context.Background()
	later := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	coll := memory.New[entity.Book](memory.WithClock(func() time.Time { return later }))
	gw := store.NewBookGateway(coll, zerolog.Nop())

	_, err := gw.Create(ctx, book("A", "Fantasy"))
	require.NoError(t, err)
	before, _, err := gw.FindOne(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)

	res, err := gw.Update(ctx, "B08G9PRS1K", "us", book("B", "Fantasy"))
	require.NoError(t, err)
	assert.True(t, res.Modified)
	assert.Equal(t, "B", res.Data.Title)

	after, _, err := gw.FindOne(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.True(t, later.Equal(after.UpdatedAt))

	_, err = gw.Update(ctx, "B000000000", "us", book("C"))
	assert.True(t, errors.Is(err, entity.ErrNotFound))
	assert.False(t, errors.Is(err, entity.ErrStoreUnavailable))
}

func TestGateway_Delete(t *testing.T) {
	ctx := context.Background()
	gw, _ := newBooks(t)
	_, err := gw.Create(ctx, book("A"))
	require.NoError(t, err)

	deleted, err := gw.Delete(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = gw.Delete(ctx, "B08G9PRS1K", "us")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestChapterGate(t *testing.T) {
	ctx := context.Background()
	gw := store.NewChapterGateway(memory.New[entity.ChapterInfo](), zerolog.Nop())
	base := entity.ChapterInfo{
		Asin:     "B08G9PRS1K",
		Region:   "us",
		Chapters: []entity.Chapter{{Title: "Prologue", LengthMs: 1000}},
	}
	_, err := gw.Create(ctx, base)
	require.NoError(t, err)

	empty := base
	empty.Chapters = nil
	empty.RuntimeLengthMs = 5
	res, err := gw.CreateOrUpdate(ctx, base.Asin, "us", empty, true)
	require.NoError(t, err)
	assert.False(t, res.Modified)

	more := base
	more.Chapters = []entity.Chapter{{Title: "Prologue", LengthMs: 1000}, {Title: "Chapter 1", LengthMs: 2000, StartOffsetMs: 1000, StartOffsetSec: 1}}
	res, err = gw.CreateOrUpdate(ctx, base.Asin, "us", more, true)
	require.NoError(t, err)
	assert.True(t, res.Modified)
	assert.Len(t, res.Data.Chapters, 2)
}

func TestAuthorGateway_SearchByName(t *testing.T) {
	ctx := context.Background()
	gw := store.NewAuthorGateway(memory.NewAuthors(), zerolog.Nop())
	for _, a := range []entity.Author{
		{Asin: "B000APZOQA", Region: "us", Name: "Brandon Sanderson"},
		{Asin: "B001IGFHW6", Region: "us", Name: "Sanderson"},
		{Asin: "B000AQ0842", Region: "us", Name: "Robert Jordan"},
	} {
		_, err := gw.Create(ctx, a)
		require.NoError(t, err)
	}

	got, err := gw.SearchByName(ctx, "sanderson")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B001IGFHW6", got[0].Asin)
	assert.Equal(t, "Brandon Sanderson", got[1].Name)

	_, err = gw.SearchByName(ctx, " ab ")
	assert.ErrorIs(t, err, entity.ErrMissingSearchTerm)

	books, _ := newBooks(t)
	_, err = books.SearchByName(ctx, "sanderson")
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
}

type failingCollection struct {
	mock.Mock
}

func (m *failingCollection) Insert(ctx context.Context, data entity.Author) error {
	return m.Called(ctx, data).Error(0)
}

func (m *failingCollection) FindOne(ctx context.Context, f store.Filter) (entity.Document[entity.Author], bool, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(entity.Document[entity.Author]), args.Bool(1), args.Error(2)
}

func (m *failingCollection) FindProfile(ctx context.Context, f store.Filter) (entity.Author, bool, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(entity.Author), args.Bool(1), args.Error(2)
}

func (m *failingCollection) Update(ctx context.Context, f store.Filter, data entity.Author, createdAt time.Time) error {
	return m.Called(ctx, f, data, createdAt).Error(0)
}

func (m *failingCollection) Delete(ctx context.Context, f store.Filter) (bool, error) {
	args := m.Called(ctx, f)
	return args.Bool(0), args.Error(1)
}

func (m *failingCollection) CreatedAt(meta entity.Meta) (time.Time, error) {
	args := m.Called(meta)
	return args.Get(0).(time.Time), args.Error(1)
}

func TestGateway_DriverFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	coll := new(failingCollection)
	coll.On("FindProfile", mock.Anything, store.Filter{Asin: "B000APZOQA", Region: "us"}).
		Return(entity.Author{}, false, boom)
	coll.On("Delete", mock.Anything, mock.MatchedBy(func(f store.Filter) bool { return f.Asin == "B000APZOQA" })).
		Return(false, boom)

	gw := store.NewAuthorGateway(coll, zerolog.Nop())

	_, err := gw.CreateOrUpdate(ctx, "B000APZOQA", "us", entity.Author{Asin: "B000APZOQA", Region: "us"}, true)
	require.Error(t, err)
	var opErr *store.OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, store.OpRead, opErr.Op)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.Is(err, entity.ErrStoreUnavailable))

	_, err = gw.Delete(ctx, "B000APZOQA", "us")
	assert.EqualError(t, err, "an error occurred while deleting author B000APZOQA in the DB")
	coll.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	coll.AssertExpectations(t)
}

func TestTokenTime(t *testing.T) {
	before := time.Now().Truncate(time.Millisecond)
	id, err := store.NewToken()
	require.NoError(t, err)
	after := time.Now()

	ts, err := store.TokenTime(id.String())
	require.NoError(t, err)
	assert.False(t, ts.Before(before))
	assert.False(t, ts.After(after))

	_, err = store.TokenTime("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Error(t, err)
	_, err = store.TokenTime("not-a-uuid")
	assert.Error(t, err)
}
