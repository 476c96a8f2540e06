package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/reconcile/mocks"
	"github.com/csandman/audnexus/internal/store"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *mocks.MockStore[entity.Author]
	cache   *mocks.MockCache[entity.Author]
	fetcher *mocks.MockFetcher[entity.Author]
	orch    *Orchestrator[entity.Author]
}

func newFixture(t *testing.T, opts ...Option[entity.Author]) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		store:   mocks.NewMockStore[entity.Author](ctrl),
		cache:   mocks.NewMockCache[entity.Author](ctrl),
		fetcher: mocks.NewMockFetcher[entity.Author](ctrl),
	}
	opts = append([]Option[entity.Author]{WithClock[entity.Author](func() time.Time { return now })}, opts...)
	f.orch = New[entity.Author](entity.KindAuthor, f.store, f.cache, f.fetcher, opts...)
	return f
}

func author(genres ...string) entity.Author {
	a := entity.Author{Asin: "B000APZOQA", Region: "us", Name: "Brandon Sanderson"}
	for _, g := range genres {
		a.Genres = append(a.Genres, entity.Genre{Asin: "18574597011", Name: g, Type: entity.GenreTypeGenre})
	}
	return a
}

func stored(data entity.Author, updated time.Time) entity.Document[entity.Author] {
	return entity.Document[entity.Author]{
		Meta: entity.Meta{ID: "0192d7a0-0000-7000-8000-000000000000", CreatedAt: updated.Add(-time.Hour), UpdatedAt: updated},
		Data: data,
	}
}

func TestShow_InvalidInputTouchesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orch.Show(ctx, Request{Asin: "###"})
	assert.True(t, errors.Is(err, entity.ErrInvalidAsin))

	_, err = f.orch.Show(ctx, Request{Asin: "B000APZOQA", Region: "mars"})
	assert.True(t, errors.Is(err, entity.ErrInvalidRegion))

	_, err = f.orch.Delete(ctx, "###", "us")
	assert.True(t, errors.Is(err, entity.ErrInvalidAsin))
}

func TestShow_RecentlyUpdatedSkipsCacheAndFetch(t *testing.T) {
	f := newFixture(t)
	doc := stored(author("Fantasy"), now.Add(-10*time.Second))
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(doc, true, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	got, outcome, err := f.orch.show(context.Background(), Request{Asin: "B000APZOQA"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRecent, outcome)
	assert.Equal(t, doc.Data, got)
}

func TestShow_WindowIsConfigurable(t *testing.T) {
	f := newFixture(t, WithWindow[entity.Author](time.Second))
	doc := stored(author("Fantasy"), now.Add(-10*time.Second))
	cached := author("Fantasy")
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(doc, true, nil)
	f.cache.EXPECT().Get(gomock.Any(), "B000APZOQA", "us").Return(cached, true)

	_, outcome, err := f.orch.show(context.Background(), Request{Asin: "B000APZOQA"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCached, outcome)
}

func TestShow_CacheHit(t *testing.T) {
	f := newFixture(t)
	doc := stored(author("Fantasy"), now.Add(-10*time.Minute))
	cached := author("Fantasy", "Epic")
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "uk").Return(doc, true, nil)
	f.cache.EXPECT().Get(gomock.Any(), "B000APZOQA", "uk").Return(cached, true)

	got, err := f.orch.Show(context.Background(), Request{Asin: "B000APZOQA", Region: "uk"})
	require.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestShow_StaleCacheMissMerges(t *testing.T) {
	f := newFixture(t)
	existing := author("Fantasy")
	fetched := author("Fantasy", "Epic")
	gomock.InOrder(
		f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(stored(existing, now.Add(-10*time.Minute)), true, nil),
		f.cache.EXPECT().Get(gomock.Any(), "B000APZOQA", "us").Return(entity.Author{}, false),
		f.fetcher.EXPECT().Fetch(gomock.Any(), "B000APZOQA", "us").Return(fetched, nil),
		f.store.EXPECT().CreateOrUpdate(gomock.Any(), "B000APZOQA", "us", fetched, true).
			Return(store.Result[entity.Author]{Data: fetched, Modified: true}, nil),
		f.cache.EXPECT().Set(gomock.Any(), fetched),
	)

	got, outcome, err := f.orch.show(context.Background(), Request{Asin: "B000APZOQA"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, fetched, got)
}

func TestShow_ForceBypassesRecentAndCache(t *testing.T) {
	f := newFixture(t)
	existing := author("Fantasy", "Epic")
	fetched := author("Fantasy")
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(stored(existing, now.Add(-time.Second)), true, nil)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.fetcher.EXPECT().Fetch(gomock.Any(), "B000APZOQA", "us").Return(fetched, nil)
	f.store.EXPECT().CreateOrUpdate(gomock.Any(), "B000APZOQA", "us", fetched, true).
		Return(store.Result[entity.Author]{Data: existing}, nil)
	f.cache.EXPECT().Set(gomock.Any(), existing)

	got, outcome, err := f.orch.show(context.Background(), Request{Asin: "B000APZOQA", ForceUpdate: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeKept, outcome)
	assert.Equal(t, existing, got)
}

func TestShow_AbsentCreates(t *testing.T) {
	var seeded []entity.Author
	f := newFixture(t, WithAfterWrite[entity.Author](func(_ context.Context, a entity.Author) {
		seeded = append(seeded, a)
	}))
	fetched := author("Fantasy")
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(entity.Document[entity.Author]{}, false, nil)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.fetcher.EXPECT().Fetch(gomock.Any(), "B000APZOQA", "us").Return(fetched, nil)
	f.store.EXPECT().CreateOrUpdate(gomock.Any(), "B000APZOQA", "us", fetched, true).
		Return(store.Result[entity.Author]{Data: fetched, Modified: true}, nil)
	f.cache.EXPECT().Set(gomock.Any(), fetched)

	_, outcome, err := f.orch.show(context.Background(), Request{Asin: "B000APZOQA", SeedAuthors: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, []entity.Author{fetched}, seeded)
}

func TestShow_FetchFailurePropagates(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("503 from upstream")
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(stored(author(), now.Add(-time.Hour)), true, nil)
	f.cache.EXPECT().Get(gomock.Any(), "B000APZOQA", "us").Return(entity.Author{}, false)
	f.fetcher.EXPECT().Fetch(gomock.Any(), "B000APZOQA", "us").Return(entity.Author{}, boom)
	f.store.EXPECT().CreateOrUpdate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	_, err := f.orch.Show(context.Background(), Request{Asin: "B000APZOQA"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, errors.Is(err, entity.ErrUpstream))
}

func TestShow_StoreFailurePropagates(t *testing.T) {
	f := newFixture(t)
	storeErr := &store.OpError{Op: store.OpRead, Kind: entity.KindAuthor, Asin: "B000APZOQA", Err: errors.New("timeout")}
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(entity.Document[entity.Author]{}, false, storeErr)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := f.orch.Show(context.Background(), Request{Asin: "B000APZOQA"})
	assert.True(t, errors.Is(err, entity.ErrStoreUnavailable))
}

func TestShow_WritesOutliveCancelledCaller(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	fetched := author("Fantasy")
	f.store.EXPECT().FindOne(gomock.Any(), "B000APZOQA", "us").Return(entity.Document[entity.Author]{}, false, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), "B000APZOQA", "us").DoAndReturn(func(context.Context, string, string) (entity.Author, error) {
		cancel()
		return fetched, nil
	})
	f.store.EXPECT().CreateOrUpdate(gomock.Any(), "B000APZOQA", "us", fetched, true).
		DoAndReturn(func(wctx context.Context, _, _ string, data entity.Author, _ bool) (store.Result[entity.Author], error) {
			assert.NoError(t, wctx.Err())
			return store.Result[entity.Author]{Data: data, Modified: true}, nil
		})
	f.cache.EXPECT().Set(gomock.Any(), fetched)

	_, err := f.orch.Show(ctx, Request{Asin: "B000APZOQA"})
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	t.Run("evicts cache before store", func(t *testing.T) {
		f := newFixture(t)
		gomock.InOrder(
			f.cache.EXPECT().Delete(gomock.Any(), "B000APZOQA"),
			f.store.EXPECT().Delete(gomock.Any(), "B000APZOQA", "us").Return(true, nil),
		)
		deleted, err := f.orch.Delete(context.Background(), "B000APZOQA", "")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("absent record", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Delete(gomock.Any(), "B000APZOQA")
		f.store.EXPECT().Delete(gomock.Any(), "B000APZOQA", "de").Return(false, nil)
		deleted, err := f.orch.Delete(context.Background(), "B000APZOQA", "de")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
