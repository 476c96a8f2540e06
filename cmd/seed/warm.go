package main

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/reconcile"
)

type bookShower interface {
	Show(ctx context.Context, req reconcile.Request) (entity.Book, error)
}

type authorShower interface {
	Show(ctx context.Context, req reconcile.Request) (entity.Author, error)
}

type summary struct {
	Books   int
	Authors int
	Failed  int
}

type warmer struct {
	books       bookShower
	authors     authorShower
	region      string
	force       bool
	withAuthors bool
	concurrency int
	log         zerolog.Logger

	mu  sync.Mutex
	sum summary
}

// readASINs returns the non-empty lines of r, ignoring # comments.
func readASINs(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

// run reconciles every book, then its authors when asked. Per-ASIN failures
// are logged and counted; they never stop the run.
func (w *warmer) run(ctx context.Context, asins []string) summary {
	g, ctx := errgroup.WithContext(ctx)
	if w.concurrency > 0 {
		g.SetLimit(w.concurrency)
	}

	seen := make(map[string]bool, len(asins))
	for _, asin := range asins {
		if seen[asin] {
			continue
		}
		seen[asin] = true
		g.Go(func() error {
			w.book(ctx, asin)
			return nil
		})
	}
	_ = g.Wait()
	return w.sum
}

func (w *warmer) book(ctx context.Context, asin string) {
	log := w.log.With().Str("asin", asin).Logger()
	b, err := w.books.Show(ctx, reconcile.Request{Asin: asin, Region: w.region, ForceUpdate: w.force})
	if err != nil {
		log.Warn().Err(err).Msg("book failed")
		w.count(func(s *summary) { s.Failed++ })
		return
	}
	log.Info().Str("title", b.Title).Msg("book ready")
	w.count(func(s *summary) { s.Books++ })

	if !w.withAuthors {
		return
	}
	for _, a := range b.Authors {
		if !entity.ValidateAsin(a.Asin) {
			continue
		}
		if _, err := w.authors.Show(ctx, reconcile.Request{Asin: a.Asin, Region: b.Region, ForceUpdate: w.force}); err != nil {
			log.Warn().Err(err).Str("author", a.Asin).Msg("author failed")
			w.count(func(s *summary) { s.Failed++ })
			continue
		}
		w.count(func(s *summary) { s.Authors++ })
	}
}

func (w *warmer) count(fn func(*summary)) {
	w.mu.Lock()
	fn(&w.sum)
	w.mu.Unlock()
}
