package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/infrastructure/events"
	"govtjobs/internal/repository"

	"github.com/google/uuid"
)

type adminFixture struct {
	repo      *fakeJobRepo
	cache     *memCache
	notifier  *recordingNotifier
	publisher *recordingPublisher
	u         *AdminJobs
}

func newAdminFixture(jobs ...job.Job) adminFixture {
	f := adminFixture{
		repo:      newFakeJobRepo(jobs...),
		cache:     newMemCache(),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	ev := NewListingEvents(f.cache, f.notifier, f.publisher, nil)
	f.u = NewAdminJobUsecase(f.repo, ev, testClock(), nil)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestAdminJobs_CreateDefaultsAndEmits(t *testing.T) {
	f := newAdminFixture()
	deadline := testNow.AddDate(0, 1, 0)

	created, err := f.u.Create(context.Background(), JobInput{
		Title:           ptr(" Assistant Loco Pilot "),
		Department:      ptr("Indian Railways"),
		Location:        ptr("Chennai"),
		Qualification:   ptr("ITI"),
		ApplicationLink: ptr("https://rrbchennai.gov.in/apply"),
		Deadline:        &deadline,
		Salary:          ptr("  "),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.Title != "Assistant Loco Pilot" || !created.IsActive || created.Salary != nil {
		t.Fatalf("unexpected job %+v", created)
	}
	if !created.PostingDate.Equal(job.StartOfDay(testNow)) {
		t.Fatalf("expected posting date to default to today, got %v", created.PostingDate)
	}
	if f.cache.invalidated != 1 {
		t.Fatalf("expected cache invalidation")
	}
	if len(f.notifier.ids) != 1 || f.notifier.ids[0] != created.ID || f.notifier.sources[0] != "admin" {
		t.Fatalf("unexpected notifications %+v", f.notifier)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != events.JobCreated {
		t.Fatalf("unexpected events %+v", f.publisher.events)
	}
}

func TestAdminJobs_CreateInvalidEmitsNothing(t *testing.T) {
	f := newAdminFixture()
	_, err := f.u.Create(context.Background(), JobInput{Title: ptr("No link")})
	if !errors.Is(err, job.ErrInvalidJob) {
		t.Fatalf("expected ErrInvalidJob, got %v", err)
	}
	if f.cache.invalidated != 0 || len(f.notifier.ids) != 0 || len(f.publisher.events) != 0 {
		t.Fatalf("invalid writes must not emit")
	}
}

func TestAdminJobs_UpdateIsPartial(t *testing.T) {
	existing := sampleJob("Junior Clerk", true, testNow.AddDate(0, 0, 20))
	existing.Salary = ptr("Rs 25,500")
	f := newAdminFixture(existing)

	newDeadline := testNow.AddDate(0, 0, 40)
	updated, err := f.u.Update(context.Background(), existing.ID, JobInput{Deadline: &newDeadline})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Title != "Junior Clerk" || updated.Salary == nil || *updated.Salary != "Rs 25,500" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if !updated.Deadline.Equal(newDeadline) {
		t.Fatalf("deadline not updated")
	}
	if f.publisher.events[0].Type != events.JobUpdated {
		t.Fatalf("unexpected event %+v", f.publisher.events[0])
	}

	if _, err := f.u.Update(context.Background(), uuid.New(), JobInput{}); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminJobs_DeactivateAndDelete(t *testing.T) {
	j := sampleJob("Stenographer", true, testNow.AddDate(0, 0, 20))
	f := newAdminFixture(j)

	got, err := f.u.Deactivate(context.Background(), j.ID)
	if err != nil || got.IsActive {
		t.Fatalf("expected inactive job, got %+v err %v", got, err)
	}
	// Deactivating twice is a no-op.
	if _, err := f.u.Deactivate(context.Background(), j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(f.repo.deactivate) != 1 {
		t.Fatalf("expected a single deactivation, got %d", len(f.repo.deactivate))
	}

	if err := f.u.Delete(context.Background(), j.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := f.u.Delete(context.Background(), j.ID); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	types := []string{}
	for _, ev := range f.publisher.events {
		types = append(types, ev.Type)
	}
	if len(types) != 2 || types[0] != events.JobDeactivated || types[1] != events.JobDeleted {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestAdminJobs_ListIncludesInactiveAndExpired(t *testing.T) {
	f := newAdminFixture(
		sampleJob("A", false, testNow.AddDate(0, 0, -30)),
		sampleJob("B", true, testNow.AddDate(0, 0, 30)),
	)
	res, err := f.u.List(context.Background(), AdminListParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected both jobs, got %d", res.Total)
	}
	got := f.repo.filters[0]
	if !got.IncludeInactive || !got.IncludeExpired {
		t.Fatalf("admin list must not hide jobs: %+v", got)
	}
}

func TestAdminJobs_ScrapeCompleted(t *testing.T) {
	f := newAdminFixture()
	f.u.ScrapeCompleted(context.Background(), "", 14)

	if f.cache.invalidated != 1 || f.notifier.sources[0] != "scraper" || f.notifier.ids[0] != uuid.Nil {
		t.Fatalf("unexpected side effects: cache=%d notifier=%+v", f.cache.invalidated, f.notifier)
	}
	ev := f.publisher.events[0]
	if ev.Type != events.JobsScraped || ev.Count != 14 {
		t.Fatalf("unexpected event %+v", ev)
	}
}

type stubRuns struct {
	repository.ScrapeRunRepository
	limit int
	err   error
}

func (s *stubRuns) Latest(_ context.Context, limit int) ([]repository.ScrapeRun, error) {
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return []repository.ScrapeRun{{Source: "ssc", Status: repository.ScrapeRunSucceeded}}, nil
}

func TestAdminJobs_ScrapeRuns(t *testing.T) {
	f := newAdminFixture()
	got, err := f.u.ScrapeRuns(context.Background(), 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("without a run store expected empty list, got %v err=%v", got, err)
	}

	runs := &stubRuns{}
	f.u.WithScrapeRuns(runs)
	got, err = f.u.ScrapeRuns(context.Background(), 5)
	if err != nil || len(got) != 1 || runs.limit != 5 {
		t.Fatalf("got %v err=%v limit=%d", got, err, runs.limit)
	}
	if _, err := f.u.ScrapeRuns(context.Background(), -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	runs.err = errors.New("db down")
	if _, err := f.u.ScrapeRuns(context.Background(), 5); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestListingEvents_NilSinksAreSkipped(t *testing.T) {
	ev := NewListingEvents(nil, nil, nil, nil)
	ev.JobChanged(context.Background(), events.JobCreated, "admin", job.Job{ID: uuid.New(), CreatedAt: time.Now()})

	var nilEvents *ListingEvents
	nilEvents.BulkChanged(context.Background(), "scraper", 1)
}
