package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"govtjobs/internal/domain/stats"
	"govtjobs/internal/infrastructure/cache"
)

func TestStats_SnapshotCachedWithTTL(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	repo := &fakeStatsRepo{snap: stats.Snapshot{TotalJobs: 12, NewToday: 2, Departments: 4, Applications: 40}}
	c := newMemCache()
	clock := Clock{Loc: ist, Now: func() time.Time { return time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC) }}
	u := NewStatsUsecase(repo, c, 45*time.Second, clock, nil)

	for i := 0; i < 3; i++ {
		s, err := u.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if s != repo.snap {
			t.Fatalf("unexpected snapshot %+v", s)
		}
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.calls)
	}
	if c.ttls[cache.StatsKey] != 45*time.Second {
		t.Fatalf("unexpected ttl %v", c.ttls[cache.StatsKey])
	}
	// 20:00 UTC is already the 16th in IST.
	if want := time.Date(2026, 10, 16, 0, 0, 0, 0, ist); !repo.dayStart.Equal(want) {
		t.Fatalf("expected day start %v, got %v", want, repo.dayStart)
	}
}

func TestStats_RepositoryError(t *testing.T) {
	u := NewStatsUsecase(&fakeStatsRepo{err: errors.New("boom")}, nil, 0, testClock(), nil)
	if _, err := u.Snapshot(context.Background()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

type chanSink struct {
	mu  sync.Mutex
	got []stats.Snapshot
	ch  chan struct{}
}

func (s *chanSink) Stats(snap stats.Snapshot) {
	s.mu.Lock()
	s.got = append(s.got, snap)
	s.mu.Unlock()
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

func TestStatsBroadcaster_PushesUntilCancelled(t *testing.T) {
	repo := &fakeStatsRepo{snap: stats.Snapshot{TotalJobs: 7}}
	sink := &chanSink{ch: make(chan struct{}, 1)}
	b := NewStatsBroadcaster(NewStatsUsecase(repo, nil, 0, testClock(), nil), sink, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	select {
	case <-sink.ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("no snapshot pushed")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcaster did not stop")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.got[0].TotalJobs != 7 {
		t.Fatalf("unexpected snapshot %+v", sink.got[0])
	}
}
