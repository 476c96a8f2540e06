package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csandman/audnexus/internal/catalog"
	"github.com/csandman/audnexus/internal/config"
	apphttp "github.com/csandman/audnexus/internal/http"
	"github.com/csandman/audnexus/internal/httpx"
	"github.com/csandman/audnexus/internal/platform/logging"
	"github.com/csandman/audnexus/internal/seed"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal := logging.New("info", "json", os.Stderr)
		fatal.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []catalog.Option
	if cfg.Redis.Enabled() {
		queue := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer queue.Close()
		seeder := seed.NewSeeder(queue, cfg.Seed.Queue, log)
		opts = append(opts, catalog.WithBookAfterWrite(seeder.AfterWrite()))
	} else {
		log.Warn().Msg("REDIS_ADDR not set, author seeding is disabled")
	}

	cat, err := catalog.Open(ctx, cfg, log, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open catalog")
	}
	defer cat.Close()

	if cfg.HTTP.AdminJWTSecret == "" {
		log.Warn().Msg("ADMIN_JWT_SECRET not set, delete routes are unauthenticated")
	}

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Authors:        cat.Authors,
		Books:          cat.Books,
		Chapters:       cat.Chapters,
		Search:         cat.AuthorStore,
		Ready:          cat.Checks(),
		Log:            log,
		AdminJWTSecret: cfg.HTTP.AdminJWTSecret,
		RateLimit:      httpx.NewRateLimitMiddleware(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst),
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		EnableHSTS:     cfg.HTTP.EnableHSTS,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go shutdownOnCancel(ctx, httpServer, log)

	log.Info().Str("addr", cfg.Addr).Str("store", cfg.Store.Driver).Bool("cache", cat.Cache.Enabled()).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}

func shutdownOnCancel(ctx context.Context, srv *http.Server, log zerolog.Logger) {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
