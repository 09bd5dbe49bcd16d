package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/infrastructure/webhook"
	"govtjobs/internal/logger"
	"govtjobs/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var ErrNoSources = errors.New("no sources to scrape")

type JobStore interface {
	UpsertBySourceURL(ctx context.Context, jobs []job.Job) (int, error)
}

type CacheInvalidator interface {
	InvalidateJobs(ctx context.Context) error
}

type Options struct {
	Static        Fetcher
	Headless      Fetcher
	Cache         CacheInvalidator
	Notifier      webhook.Notifier
	Workers       int
	RatePerSecond float64
	Location      *time.Location
	Now           func() time.Time
}

// Summary reports one Run across every selected source.
type Summary struct {
	Runs     []repository.ScrapeRun
	Upserted int
	Failed   int
}

type Runner struct {
	jobs   JobStore
	runs   repository.ScrapeRunRepository
	opts   Options
	logger logrus.FieldLogger
}

func NewRunner(jobs JobStore, runs repository.ScrapeRunRepository, opts Options, log logrus.FieldLogger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{jobs: jobs, runs: runs, opts: opts, logger: logger.OrDiscard(log)}
}

// Run scrapes sources concurrently, then invalidates the search caches and
// notifies the server once for every source that stored listings.
func (r *Runner) Run(ctx context.Context, sources []Source) (Summary, error) {
	if len(sources) == 0 {
		return Summary{}, ErrNoSources
	}

	pool := NewWorkerPool(r.opts.Workers, len(sources))
	pool.SetRateLimit(r.opts.RatePerSecond)

	var (
		mu  sync.Mutex
		sum Summary
	)
	for _, src := range sources {
		pool.Submit(func(ctx context.Context) error {
			run, err := r.scrapeSource(ctx, src, pool.Limiter())
			mu.Lock()
			sum.Runs = append(sum.Runs, run)
			sum.Upserted += run.JobsUpserted
			mu.Unlock()
			return err
		})
	}
	pool.Close()

	for res := range pool.Run(ctx) {
		if res.Err != nil {
			sum.Failed++
		}
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	if sum.Upserted > 0 {
		r.afterRun(ctx, sum.Runs)
	}
	return sum, nil
}

func (r *Runner) afterRun(ctx context.Context, runs []repository.ScrapeRun) {
	if r.opts.Cache != nil {
		if err := r.opts.Cache.InvalidateJobs(ctx); err != nil {
			r.logger.WithError(err).Warn("[Scraper] cache invalidation failed")
		}
	}
	if r.opts.Notifier == nil {
		return
	}
	for _, run := range runs {
		if run.JobsUpserted == 0 {
			continue
		}
		completedAt := r.opts.Now()
		if run.FinishedAt != nil {
			completedAt = *run.FinishedAt
		}
		err := r.opts.Notifier.ScrapeCompleted(ctx, webhook.Completion{
			RunID:       run.ID.String(),
			Source:      run.Source,
			Count:       run.JobsUpserted,
			CompletedAt: completedAt,
		})
		if err != nil {
			r.logger.WithError(err).WithField("source", run.Source).Warn("[Scraper] webhook failed")
		}
	}
}

func (r *Runner) fetcherFor(src Source) (Fetcher, error) {
	f := r.opts.Static
	if src.Headless {
		f = r.opts.Headless
	}
	if f == nil {
		return nil, fmt.Errorf("no fetcher for source %q (headless=%t)", src.Name, src.Headless)
	}
	return f, nil
}

func (r *Runner) scrapeSource(ctx context.Context, src Source, lim *rate.Limiter) (repository.ScrapeRun, error) {
	log := r.logger.WithField("source", src.Name)

	run, err := r.runs.Start(ctx, src.Name)
	if err != nil {
		log.WithError(err).Warn("[Scraper] could not record run start")
		run = repository.ScrapeRun{ID: uuid.New(), Source: src.Name, StartedAt: r.opts.Now(), Status: repository.ScrapeRunRunning}
	}

	jobs, errs, err := r.collect(ctx, src, lim)
	run.Errors = errs
	if err == nil && len(jobs) > 0 {
		run.JobsUpserted, err = r.jobs.UpsertBySourceURL(ctx, jobs)
	}

	run.Status = repository.ScrapeRunSucceeded
	if err != nil {
		run.Status = repository.ScrapeRunFailed
		run.Errors++
		log.WithError(err).Error("[Scraper] source failed")
	}
	finished := r.opts.Now()
	run.FinishedAt = &finished
	if ferr := r.runs.Finish(context.WithoutCancel(ctx), run); ferr != nil {
		log.WithError(ferr).Warn("[Scraper] could not record run finish")
	}

	log.WithFields(logrus.Fields{
		"run_id":   run.ID,
		"status":   run.Status,
		"upserted": run.JobsUpserted,
		"errors":   run.Errors,
	}).Info("[Scraper] source done")
	return run, err
}

// collect fetches and converts a source's listings. Items that fail detail
// fetches or conversion are counted, not fatal.
func (r *Runner) collect(ctx context.Context, src Source, lim *rate.Limiter) ([]job.Job, int, error) {
	f, err := r.fetcherFor(src)
	if err != nil {
		return nil, 0, err
	}
	items, err := f.FetchList(ctx, src)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch list: %w", err)
	}

	today := job.StartOfDay(r.opts.Now().In(r.opts.Location))
	errs := 0
	out := make([]job.Job, 0, len(items))
	for _, it := range items {
		if len(src.Detail) > 0 && it[FieldLink] != "" {
			if lim != nil {
				if err := lim.Wait(ctx); err != nil {
					return nil, errs, err
				}
			}
			detail, err := f.FetchDetail(ctx, src, it[FieldLink])
			if err != nil {
				errs++
				r.logger.WithError(err).WithField("link", it[FieldLink]).Debug("[Scraper] detail fetch failed")
			} else {
				it = it.merge(detail, nil)
			}
		}
		it = it.merge(nil, src.Defaults)

		j, err := ToJob(src, it, today)
		if err != nil {
			errs++
			r.logger.WithError(err).WithFields(logrus.Fields{"source": src.Name, "title": it[FieldTitle]}).
				Debug("[Scraper] skipped item")
			continue
		}
		out = append(out, j)
	}
	return out, errs, nil
}
