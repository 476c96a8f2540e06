package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/csandman/audnexus/internal/catalog"
	"github.com/csandman/audnexus/internal/config"
	"github.com/csandman/audnexus/internal/platform/logging"
	"github.com/csandman/audnexus/internal/seed"

	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal := logging.New("info", "json", os.Stderr)
		fatal.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if !cfg.Redis.Enabled() {
		log.Fatal().Msg("REDIS_ADDR is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open catalog")
	}
	defer cat.Close()

	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, asynq.Config{
		Concurrency: cfg.Seed.Concurrency,
		Queues:      map[string]int{cfg.Seed.Queue: 1},
		Logger:      asynqLogger{log.With().Str("component", "asynq").Logger()},
	})
	mux := asynq.NewServeMux()
	seed.NewHandler(cat.Authors, log).Register(mux)

	if err := srv.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("cannot start worker")
	}
	log.Info().Str("queue", cfg.Seed.Queue).Int("concurrency", cfg.Seed.Concurrency).Msg("worker running")

	<-ctx.Done()
	srv.Shutdown()
	log.Info().Msg("worker stopped")
}
