// Package postgres stores each entity kind as JSONB rows in its own table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/store"
)

// Tables per kind. Keep in sync with db/migrations.
var tables = map[entity.Kind]string{
	entity.KindAuthor:  "authors",
	entity.KindBook:    "books",
	entity.KindChapter: "chapters",
}

type Collection[T entity.Profile] struct {
	db      *pgxpool.Pool
	table   string
	timeout time.Duration
}

func New[T entity.Profile](db *pgxpool.Pool, kind entity.Kind, timeout time.Duration) *Collection[T] {
	table, ok := tables[kind]
	if !ok {
		panic(fmt.Sprintf("postgres: no table for kind %q", kind))
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Collection[T]{db: db, table: table, timeout: timeout}
}

func (c *Collection[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// match selects a row for (asin, region). Rows stored without a region match
// every region; a region-specific row wins over a region-less one.
const match = `asin = $1 AND (region IS NULL OR region = $2)`

// pick selects the id of the single row a filter resolves to.
func pick(table string) string {
	return `SELECT id FROM ` + table + ` WHERE ` + match + ` ORDER BY region NULLS LAST LIMIT 1`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (c *Collection[T]) Insert(ctx context.Context, data T) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	id, err := store.NewToken()
	if err != nil {
		return err
	}
	created, err := store.TokenTime(id.String())
	if err != nil {
		return err
	}
	asin, region := data.Identity()
	query := `INSERT INTO ` + c.table + ` (id, asin, region, data, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)`
	_, err = c.db.Exec(ctx, query, id, asin, nullable(region), data, created)
	return err
}

func (c *Collection[T]) FindOne(ctx context.Context, f store.Filter) (entity.Document[T], bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	query := `SELECT id::text, data, created_at, updated_at FROM ` + c.table + `
	WHERE ` + match + `
	ORDER BY region NULLS LAST
	LIMIT 1`
	var doc entity.Document[T]
	err := c.db.QueryRow(ctx, query, f.Asin, f.Region).Scan(&doc.ID, &doc.Data, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Document[T]{}, false, nil
	}
	if err != nil {
		return entity.Document[T]{}, false, err
	}
	return doc, true, nil
}

func (c *Collection[T]) FindProfile(ctx context.Context, f store.Filter) (T, bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	query := `SELECT data FROM ` + c.table + `
	WHERE ` + match + `
	ORDER BY region NULLS LAST
	LIMIT 1`
	var data T
	err := c.db.QueryRow(ctx, query, f.Asin, f.Region).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, err
	}
	return data, true, nil
}

func (c *Collection[T]) Update(ctx context.Context, f store.Filter, data T, createdAt time.Time) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	// The row takes the region of data, so a region-less row moves to the
	// region it was refreshed for.
	_, region := data.Identity()
	query := `UPDATE ` + c.table + `
	SET data = $3, created_at = $4, region = $5, updated_at = now()
	WHERE id = (` + pick(c.table) + `)`
	tag, err := c.db.Exec(ctx, query, f.Asin, f.Region, data, createdAt, nullable(region))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, f store.Filter) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	tag, err := c.db.Exec(ctx, `DELETE FROM `+c.table+` WHERE id = (`+pick(c.table)+`)`, f.Asin, f.Region)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (c *Collection[T]) CreatedAt(meta entity.Meta) (time.Time, error) {
	return store.TokenTime(meta.ID)
}

func (c *Collection[T]) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.db.Ping(ctx)
}

// Authors adds full-text name search to the author table.
type Authors struct {
	*Collection[entity.Author]
}

func NewAuthors(db *pgxpool.Pool, timeout time.Duration) *Authors {
	return &Authors{Collection: New[entity.Author](db, entity.KindAuthor, timeout)}
}

func (a *Authors) SearchByName(ctx context.Context, name string, limit int) ([]entity.AuthorMatch, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	query := `
	SELECT asin, data->>'name'
	FROM authors
	WHERE name_tsv @@ plainto_tsquery('simple', $1)
	   OR data->>'name' ILIKE '%' || $1 || '%'
	ORDER BY ts_rank(name_tsv, plainto_tsquery('simple', $1)) DESC, data->>'name'
	LIMIT $2
	`
	rows, err := a.db.Query(ctx, query, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.AuthorMatch
	for rows.Next() {
		var m entity.AuthorMatch
		if err := rows.Scan(&m.Asin, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
