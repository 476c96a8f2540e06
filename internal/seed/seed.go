// Package seed propagates book reconciliation to the book's authors through
// an asynq queue. Enqueueing is fire-and-forget; the worker runs the author
// reconciliation.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/csandman/audnexus/internal/entity"
	"github.com/csandman/audnexus/internal/reconcile"
)

const TaskSeedAuthor = "seed:author"

type AuthorPayload struct {
	Asin   string `json:"asin"`
	Region string `json:"region"`
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Seeder struct {
	q     Enqueuer
	queue string
	log   zerolog.Logger
}

func NewSeeder(q Enqueuer, queue string, log zerolog.Logger) *Seeder {
	return &Seeder{q: q, queue: queue, log: log.With().Str("component", "seed").Logger()}
}

// BookAuthors enqueues one author task per author asin on b and returns how
// many were accepted. Failures are logged only.
func (s *Seeder) BookAuthors(ctx context.Context, b entity.Book) int {
	var n int
	for _, a := range b.Authors {
		if !entity.ValidateAsin(a.Asin) {
			continue
		}
		payload, err := json.Marshal(AuthorPayload{Asin: a.Asin, Region: b.Region})
		if err != nil {
			continue
		}
		task := asynq.NewTask(TaskSeedAuthor, payload)
		info, err := s.q.EnqueueContext(ctx, task,
			asynq.Queue(s.queue),
			asynq.MaxRetry(3),
			asynq.Timeout(2*time.Minute),
			asynq.TaskID(fmt.Sprintf("author-%s-%s", b.Region, a.Asin)),
			asynq.Retention(time.Minute),
		)
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			continue
		}
		if err != nil {
			s.log.Warn().Err(err).Str("asin", a.Asin).Str("book", b.Asin).Msg("enqueue failed")
			continue
		}
		s.log.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("enqueued author seed")
		n++
	}
	return n
}

// AfterWrite adapts the seeder to the book orchestrator hook.
func (s *Seeder) AfterWrite() reconcile.AfterWrite[entity.Book] {
	return func(ctx context.Context, b entity.Book) {
		s.BookAuthors(ctx, b)
	}
}

// AuthorShower runs author reconciliation.
type AuthorShower interface {
	Show(ctx context.Context, req reconcile.Request) (entity.Author, error)
}

// Handler processes seed:author tasks.
type Handler struct {
	authors AuthorShower
	log     zerolog.Logger
}

func NewHandler(authors AuthorShower, log zerolog.Logger) *Handler {
	return &Handler{authors: authors, log: log.With().Str("component", "seed").Logger()}
}

// ProcessTask returns nil on success, wraps asynq.SkipRetry for payloads and
// entities that will never succeed, and the raw error for anything worth a retry.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p AuthorPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Warn().Err(err).Msg("bad payload, dropping")
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	start := time.Now()
	_, err := h.authors.Show(ctx, reconcile.Request{Asin: p.Asin, Region: p.Region})
	log := h.log.With().Str("asin", p.Asin).Str("region", p.Region).Dur("duration", time.Since(start)).Logger()
	switch {
	case err == nil:
		log.Info().Msg("author seeded")
		return nil
	case entity.IsClientError(err), errors.Is(err, entity.ErrNotFound):
		log.Warn().Err(err).Msg("permanent failure, dropping")
		return fmt.Errorf("seed author %s: %v: %w", p.Asin, err, asynq.SkipRetry)
	default:
		log.Warn().Err(err).Msg("retryable failure")
		return err
	}
}

// Register mounts the handler on mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.Handle(TaskSeedAuthor, h)
}
