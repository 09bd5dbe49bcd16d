package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/infrastructure/cache"
	"govtjobs/internal/logger"
	"govtjobs/internal/repository"
	"govtjobs/internal/search"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	searchLockTTL  = 30 * time.Second
	searchLockWait = 300 * time.Millisecond
)

type JobSearchUsecase interface {
	Search(ctx context.Context, params job.SearchParams) (job.SearchResult, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, error)
	FilterOptions(ctx context.Context) (job.FilterOptions, error)
}

type JobSearch struct {
	jobs   repository.JobRepository
	cache  JobCache
	clock  Clock
	logger logrus.FieldLogger

	// wait pauses while another request fills the cache.
	wait func(ctx context.Context, d time.Duration) error
}

func NewJobSearchUsecase(jobs repository.JobRepository, c JobCache, clock Clock, log logrus.FieldLogger) *JobSearch {
	return &JobSearch{jobs: jobs, cache: c, clock: clock, logger: logger.OrDiscard(log), wait: sleepCtx}
}

func (u *JobSearch) Search(ctx context.Context, params job.SearchParams) (job.SearchResult, error) {
	p, err := params.Normalize()
	if err != nil {
		return job.SearchResult{}, err
	}

	key := cache.JobsSearchKey(p)
	if res, ok := u.cached(ctx, key); ok {
		return res, nil
	}

	lockKey := cache.JobsSearchLockKey(key)
	locked := false
	if u.cache != nil {
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", searchLockTTL)
		switch {
		case err == nil && ok:
			locked = true
		case err == nil && !ok:
			jitter := time.Duration(rand.IntN(201)) * time.Millisecond
			if err := u.wait(ctx, searchLockWait+jitter); err != nil {
				return job.SearchResult{}, err
			}
			if res, ok := u.cached(ctx, key); ok {
				return res, nil
			}
			u.logger.WithField("key", lockKey).Debug("[Jobs] lock wait fallback")
		}
	}
	if locked {
		defer func() { _ = u.cache.Delete(context.WithoutCancel(ctx), lockKey) }()
	}

	res, err := u.query(ctx, p)
	if err != nil {
		return job.SearchResult{}, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, res, 0); err != nil {
			u.logger.WithError(err).Warn("[Jobs] cache set failed")
		}
	}
	return res, nil
}

func (u *JobSearch) cached(ctx context.Context, key string) (job.SearchResult, bool) {
	if u.cache == nil {
		return job.SearchResult{}, false
	}
	var res job.SearchResult
	hit, err := u.cache.GetJSON(ctx, key, &res)
	if err != nil || !hit {
		u.logger.WithField("key", key).Debug("[Jobs] cache miss")
		return job.SearchResult{}, false
	}
	u.logger.WithField("key", key).Debug("[Jobs] cache hit")
	if res.Items == nil {
		res.Items = []job.Job{}
	}
	return res, true
}

func (u *JobSearch) query(ctx context.Context, p job.SearchParams) (job.SearchResult, error) {
	now := u.clock.now()
	qctx := search.ProcessQuery(p.Search)

	f := repository.JobFilter{
		Variants:       qctx.Variants,
		Department:     p.Department,
		Location:       p.Location,
		Qualification:  p.Qualification,
		OpenOn:         job.StartOfDay(now),
		IncludeExpired: p.IncludeExpired,
		Sort:           p.SortBy,
		Limit:          p.Limit,
		Offset:         p.Offset(),
	}
	if since, ok := p.PostedWithin.Since(now, u.clock.Loc); ok {
		f.PostedSince = &since
	}

	items, total, err := u.jobs.Search(ctx, f)
	if err != nil {
		return job.SearchResult{}, internal(err)
	}

	if total == 0 {
		fb := search.FallbackFirstWord(qctx.Normalized)
		if fb != "" && fb != qctx.Normalized {
			fbCtx := search.ProcessQuery(fb)
			f.Variants = fbCtx.Variants
			items2, total2, err := u.jobs.Search(ctx, f)
			if err == nil {
				items, total, qctx = items2, total2, fbCtx
			} else {
				u.logger.WithError(err).Warn("[Jobs] fallback search failed")
			}
		}
	}

	u.logger.WithFields(logrus.Fields{"total": total, "filtered": p.HasFilter()}).Debug("[Jobs] search")
	if p.SortBy == job.SortRelevance {
		items = rankPage(items, qctx.Variants, now)
	}
	return job.NewSearchResult(items, total, p.Page, p.Limit), nil
}

func rankPage(items []job.Job, variants []string, now time.Time) []job.Job {
	if len(items) < 2 {
		return items
	}
	in := make([]search.Job, len(items))
	for i, j := range items {
		desc := ""
		if j.Description != nil {
			desc = *j.Description
		}
		in[i] = search.Job{
			OriginalIndex: i,
			ID:            j.ID,
			Title:         j.Title,
			Department:    j.Department,
			Qualification: j.Qualification,
			Location:      j.Location,
			Description:   desc,
			PostingDate:   j.PostingDate,
			Deadline:      j.Deadline,
			CreatedAt:     j.CreatedAt,
		}
	}
	ranked := search.RankJobs(in, variants, now)
	out := make([]job.Job, 0, len(items))
	for _, r := range ranked {
		out = append(out, items[r.OriginalIndex])
	}
	return out
}

// GetJob returns an active job. Inactive jobs are reported as missing.
func (u *JobSearch) GetJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, err
		}
		return job.Job{}, internal(err)
	}
	if !j.IsActive {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (u *JobSearch) FilterOptions(ctx context.Context) (job.FilterOptions, error) {
	if u.cache != nil {
		var opts job.FilterOptions
		if hit, err := u.cache.GetJSON(ctx, cache.FiltersKey, &opts); err == nil && hit {
			return opts, nil
		}
	}
	opts, err := u.jobs.FilterOptions(ctx)
	if err != nil {
		return job.FilterOptions{}, internal(err)
	}
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, cache.FiltersKey, opts, 0)
	}
	return opts, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
