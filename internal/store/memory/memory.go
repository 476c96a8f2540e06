// Package memory is an in-process store driver used by tests and local runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/store"
)

type record struct {
	meta   entity.Meta
	asin   string
	region string
	data   []byte
}

// Collection keeps records as JSON so reads never alias caller memory.
type Collection[T entity.Profile] struct {
	mu      sync.RWMutex
	records []*record
	now     func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used to stamp updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New[T entity.Profile](opts ...Option) *Collection[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{now: o.now}
}

// match prefers the record for the exact region and falls back to one
// stored without a region.
func (c *Collection[T]) match(f store.Filter) (int, *record) {
	fallback := -1
	for i, r := range c.records {
		if r.asin != f.Asin {
			continue
		}
		if r.region == f.Region && f.Region != "" {
			return i, r
		}
		if r.region == "" && fallback < 0 {
			fallback = i
		}
	}
	if fallback < 0 {
		return -1, nil
	}
	return fallback, c.records[fallback]
}

func (c *Collection[T]) Insert(_ context.Context, data T) error {
	asin, region := data.Identity()
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	id, err := store.NewToken()
	if err != nil {
		return err
	}
	created, err := store.TokenTime(id.String())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.asin == asin && r.region == region {
			return fmt.Errorf("duplicate key asin=%s region=%s", asin, region)
		}
	}
	c.records = append(c.records, &record{
		meta:   entity.Meta{ID: id.String(), CreatedAt: created, UpdatedAt: created},
		asin:   asin,
		region: region,
		data:   raw,
	})
	return nil
}

func (c *Collection[T]) FindOne(_ context.Context, f store.Filter) (entity.Document[T], bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, r := c.match(f)
	if r == nil {
		return entity.Document[T]{}, false, nil
	}
	var data T
	if err := json.Unmarshal(r.data, &data); err != nil {
		return entity.Document[T]{}, false, err
	}
	return entity.Document[T]{Meta: r.meta, Data: data}, true, nil
}

func (c *Collection[T]) FindProfile(ctx context.Context, f store.Filter) (T, bool, error) {
	doc, found, err := c.FindOne(ctx, f)
	return doc.Data, found, err
}

// Update replaces the record body. The record takes the region of data, so a
// region-less record moves to the region it was refreshed for.
func (c *Collection[T]) Update(_ context.Context, f store.Filter, data T, createdAt time.Time) error {
	_, region := data.Identity()
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, r := c.match(f)
	if r == nil {
		return entity.ErrNotFound
	}
	r.data = raw
	r.region = region
	r.meta.CreatedAt = createdAt
	r.meta.UpdatedAt = c.now()
	return nil
}

func (c *Collection[T]) Delete(_ context.Context, f store.Filter) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, _ := c.match(f)
	if i < 0 {
		return false, nil
	}
	c.records = append(c.records[:i], c.records[i+1:]...)
	return true, nil
}

func (c *Collection[T]) CreatedAt(meta entity.Meta) (time.Time, error) {
	return store.TokenTime(meta.ID)
}

// Touch rewrites updatedAt for a record. Tests use it to age records.
func (c *Collection[T]) Touch(f store.Filter, updatedAt time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, r := c.match(f)
	if r == nil {
		return false
	}
	r.meta.UpdatedAt = updatedAt
	return true
}

// Authors adds name search to an author collection.
type Authors struct {
	*Collection[entity.Author]
}

func NewAuthors(opts ...Option) *Authors {
	return &Authors{Collection: New[entity.Author](opts...)}
}

// SearchByName ranks exact matches first, then prefix matches, then substring matches.
func (a *Authors) SearchByName(_ context.Context, name string, limit int) ([]entity.AuthorMatch, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	type scored struct {
		m     entity.AuthorMatch
		score int
	}
	var hits []scored

	a.mu.RLock()
	for _, r := range a.records {
		var au entity.Author
		if err := json.Unmarshal(r.data, &au); err != nil {
			a.mu.RUnlock()
			return nil, err
		}
		hay := strings.ToLower(au.Name)
		var score int
		switch {
		case hay == needle:
			score = 3
		case strings.HasPrefix(hay, needle):
			score = 2
		case strings.Contains(hay, needle):
			score = 1
		default:
			continue
		}
		hits = append(hits, scored{m: entity.AuthorMatch{Asin: au.Asin, Name: au.Name}, score: score})
	}
	a.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]entity.AuthorMatch, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.m)
	}
	return out, nil
}
