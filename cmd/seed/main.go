package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/csandman/audnexus/internal/catalog"
	"github.com/csandman/audnexus/internal/config"
	"github.com/csandman/audnexus/internal/platform/logging"
)

func main() {
	var (
		file        = flag.String("file", "", "File with one ASIN per line (# starts a comment)")
		region      = flag.String("region", "", "Region for every ASIN (default us)")
		force       = flag.Bool("force", false, "Fetch live even when the stored record is recent")
		withAuthors = flag.Bool("authors", false, "Also warm every author of each book")
		concurrency = flag.Int("concurrency", 4, "Books reconciled in parallel")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal := logging.New("info", "json", os.Stderr)
		fatal.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	asins := flag.Args()
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("cannot open ASIN list")
		}
		fromFile, err := readASINs(f)
		_ = f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("cannot read ASIN list")
		}
		asins = append(asins, fromFile...)
	}
	if len(asins) == 0 {
		log.Fatal().Msg("no ASINs given; pass them as arguments or with -file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open catalog")
	}
	defer cat.Close()

	w := &warmer{
		books:       cat.Books,
		authors:     cat.Authors,
		region:      *region,
		force:       *force,
		withAuthors: *withAuthors,
		concurrency: *concurrency,
		log:         log,
	}
	sum := w.run(ctx, asins)
	log.Info().Int("books", sum.Books).Int("authors", sum.Authors).Int("failed", sum.Failed).Msg("warm-up finished")
	if sum.Failed > 0 {
		stop()
		cat.Close()
		os.Exit(1)
	}
}
