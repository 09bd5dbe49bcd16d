package usecase

import (
	"context"
	"time"

	"govtjobs/internal/domain/stats"
	"govtjobs/internal/infrastructure/cache"
	"govtjobs/internal/logger"
	"govtjobs/internal/repository"

	"github.com/sirupsen/logrus"
)

const defaultStatsInterval = 30 * time.Second

type StatsUsecase interface {
	Snapshot(ctx context.Context) (stats.Snapshot, error)
}

type Stats struct {
	repo   repository.StatsRepository
	cache  JobCache
	ttl    time.Duration
	clock  Clock
	logger logrus.FieldLogger
}

func NewStatsUsecase(repo repository.StatsRepository, c JobCache, ttl time.Duration, clock Clock, log logrus.FieldLogger) *Stats {
	if ttl <= 0 {
		ttl = defaultStatsInterval
	}
	return &Stats{repo: repo, cache: c, ttl: ttl, clock: clock, logger: logger.OrDiscard(log)}
}

func (u *Stats) Snapshot(ctx context.Context) (stats.Snapshot, error) {
	if u.cache != nil {
		var s stats.Snapshot
		if hit, err := u.cache.GetJSON(ctx, cache.StatsKey, &s); err == nil && hit {
			return s, nil
		}
	}

	s, err := u.repo.Snapshot(ctx, u.clock.today())
	if err != nil {
		return stats.Snapshot{}, internal(err)
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cache.StatsKey, s, u.ttl); err != nil {
			u.logger.WithError(err).Warn("[Stats] cache set failed")
		}
	}
	return s, nil
}

type StatsSink interface {
	Stats(s stats.Snapshot)
}

// StatsBroadcaster pushes a fresh snapshot to sink on every tick.
type StatsBroadcaster struct {
	stats    StatsUsecase
	sink     StatsSink
	interval time.Duration
	logger   logrus.FieldLogger
}

func NewStatsBroadcaster(s StatsUsecase, sink StatsSink, interval time.Duration, log logrus.FieldLogger) *StatsBroadcaster {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	return &StatsBroadcaster{stats: s, sink: sink, interval: interval, logger: logger.OrDiscard(log)}
}

// Run blocks until ctx is cancelled.
func (b *StatsBroadcaster) Run(ctx context.Context) {
	t := time.NewTicker(b.interval)
	defer t.Stop()

	b.logger.WithField("interval", b.interval.String()).Info("[Stats] broadcaster started")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("[Stats] broadcaster stopped")
			return
		case <-t.C:
			b.tick(ctx)
		}
	}
}

func (b *StatsBroadcaster) tick(ctx context.Context) {
	s, err := b.stats.Snapshot(ctx)
	if err != nil {
		b.logger.WithError(err).Warn("[Stats] snapshot failed")
		return
	}
	b.sink.Stats(s)
}
