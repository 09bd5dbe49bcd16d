package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"govtjobs/internal/config"
	"govtjobs/internal/database/postgres"
	"govtjobs/internal/infrastructure/cache"
	"govtjobs/internal/infrastructure/webhook"
	"govtjobs/internal/logger"
	"govtjobs/internal/repository"
	"govtjobs/internal/scraper"

	"github.com/sirupsen/logrus"
)

type deps struct {
	loadConfig func() (config.Config, error)
	scrape     func(ctx context.Context, cfg config.Config, sources []scraper.Source, log logrus.FieldLogger) (scraper.Summary, error)
}

func defaultDeps() deps {
	return deps{loadConfig: config.LoadScraper, scrape: scrape}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	fs := flag.NewFlagSet("scraper", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sourcesFile := fs.String("sources", "", "path to sources.yaml (default SCRAPER_SOURCES_FILE)")
	only := fs.String("source", "all", "comma-separated source names to scrape")
	workers := fs.Int("workers", 0, "concurrent sources (default SCRAPER_WORKERS)")
	rps := fs.Float64("rate", 0, "requests per second (default SCRAPER_RATE_PER_SECOND)")
	list := fs.Bool("list", false, "print the configured sources and exit")
	timeout := fs.Duration("timeout", 15*time.Minute, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := d.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	log := logger.NewWithOutput(stderr, cfg.App.LogLevel, cfg.App.IsProduction())

	if strings.TrimSpace(*sourcesFile) != "" {
		cfg.Scraper.SourcesFile = *sourcesFile
	}
	if *workers > 0 {
		cfg.Scraper.Workers = *workers
	}
	if *rps > 0 {
		cfg.Scraper.RatePerSecond = *rps
	}

	all, err := scraper.LoadSources(cfg.Scraper.SourcesFile)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	sources, err := scraper.Select(all, strings.Split(*only, ","))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if *list {
		for _, s := range sources {
			mode := "static"
			if s.Headless {
				mode = "headless"
			}
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", s.Name, mode, s.ListURL)
		}
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	sum, err := d.scrape(ctx, cfg, sources, log)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.WithError(err).Warn("[Scraper] interrupted")
		} else {
			log.WithError(err).Error("[Scraper] run failed")
		}
		return 1
	}

	log.WithFields(logrus.Fields{
		"sources":  len(sources),
		"upserted": sum.Upserted,
		"failed":   sum.Failed,
	}).Info("[Scraper] done")
	if sum.Failed > 0 {
		return 1
	}
	return 0
}

func scrape(ctx context.Context, cfg config.Config, sources []scraper.Source, log logrus.FieldLogger) (scraper.Summary, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := postgres.Connect(connectCtx, cfg.Database)
	cancel()
	if err != nil {
		return scraper.Summary{}, err
	}
	defer func() {
		_ = db.Close()
	}()

	redis := cache.NewRedis(cfg.Redis, log)
	defer func() {
		_ = redis.Close()
	}()

	opts := scraper.Options{
		Static:        scraper.NewStaticFetcher(cfg.Scraper.UserAgent, cfg.Scraper.RequestTimeout),
		Headless:      scraper.NewHeadlessFetcher(scraper.NewChromeRenderer(cfg.Scraper.HeadlessTimeout)),
		Cache:         redis,
		Workers:       cfg.Scraper.Workers,
		RatePerSecond: cfg.Scraper.RatePerSecond,
		Location:      cfg.App.Location(),
	}
	// A nil *webhook.Client in the interface would not compare equal to nil.
	if hook := webhook.NewClient(cfg.Scraper.ServerBaseURL, cfg.InternalToken, log); hook != nil {
		opts.Notifier = hook
	}

	r := scraper.NewRunner(
		repository.NewPostgresJobRepository(db),
		repository.NewPostgresScrapeRunRepository(db),
		opts,
		log,
	)
	return r.Run(ctx, sources)
}
