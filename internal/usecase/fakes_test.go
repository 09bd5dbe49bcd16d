package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/domain/stats"
	"govtjobs/internal/domain/user"
	"govtjobs/internal/infrastructure/events"
	"govtjobs/internal/repository"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC)

func testClock() Clock {
	return Clock{Loc: time.UTC, Now: func() time.Time { return testNow }}
}

type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	ttls        map[string]time.Duration
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	c.ttls[key] = ttl
	return true, nil
}

func (c *memCache) InvalidateJobs(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	for k := range c.data {
		if strings.HasPrefix(k, "jobs:") || strings.HasPrefix(k, "stats:") {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// fakeJobRepo keeps jobs in memory. Search ignores the filter apart from
// paging and records it for assertions.
type fakeJobRepo struct {
	jobs       map[uuid.UUID]job.Job
	filters    []repository.JobFilter
	searchErr  error
	deactivate []uuid.UUID
}

func newFakeJobRepo(jobs ...job.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: map[uuid.UUID]job.Job{}}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Search(_ context.Context, f repository.JobFilter) ([]job.Job, int, error) {
	r.filters = append(r.filters, f)
	if r.searchErr != nil {
		return nil, 0, r.searchErr
	}
	all := make([]job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Title < all[b].Title })
	if f.Offset >= len(all) {
		return []job.Job{}, len(all), nil
	}
	end := min(f.Offset+f.Limit, len(all))
	return all[f.Offset:end], len(all), nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, job.ErrNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) Create(_ context.Context, j job.Job) (job.Job, error) {
	j.ID = uuid.New()
	j.CreatedAt = testNow
	j.UpdatedAt = testNow
	r.jobs[j.ID] = j
	return j, nil
}

func (r *fakeJobRepo) Update(_ context.Context, j job.Job) (job.Job, error) {
	if _, ok := r.jobs[j.ID]; !ok {
		return job.Job{}, job.ErrNotFound
	}
	j.UpdatedAt = testNow
	r.jobs[j.ID] = j
	return j, nil
}

func (r *fakeJobRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	j, ok := r.jobs[id]
	if !ok {
		return job.ErrNotFound
	}
	if !active {
		r.deactivate = append(r.deactivate, id)
	}
	j.IsActive = active
	r.jobs[id] = j
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.jobs[id]; !ok {
		return job.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) FilterOptions(context.Context) (job.FilterOptions, error) {
	return job.FilterOptions{}, nil
}

func (r *fakeJobRepo) UpsertBySourceURL(_ context.Context, jobs []job.Job) (int, error) {
	return len(jobs), nil
}

type fakeStatsRepo struct {
	snap     stats.Snapshot
	err      error
	calls    int
	dayStart time.Time
}

func (r *fakeStatsRepo) Snapshot(_ context.Context, dayStart time.Time) (stats.Snapshot, error) {
	r.calls++
	r.dayStart = dayStart
	return r.snap, r.err
}

type fakeAppRepo struct {
	created []stats.Application
}

func (r *fakeAppRepo) Create(_ context.Context, a stats.Application) (stats.Application, error) {
	a.ID = uuid.New()
	a.CreatedAt = testNow
	r.created = append(r.created, a)
	return a, nil
}

func (r *fakeAppRepo) CountByJob(_ context.Context, jobID uuid.UUID) (int, error) {
	n := 0
	for _, a := range r.created {
		if a.JobID == jobID {
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	sources []string
	ids     []uuid.UUID
}

func (n *recordingNotifier) JobsUpdated(source string, id uuid.UUID) {
	n.sources = append(n.sources, source)
	n.ids = append(n.ids, id)
}

type recordingPublisher struct {
	events []events.JobEvent
}

func (p *recordingPublisher) PublishJobEvent(_ context.Context, ev events.JobEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fakeUserRepo struct {
	byID map[uuid.UUID]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]user.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u user.User) error {
	u.CreatedAt = testNow
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, u user.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return user.ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func sampleJob(title string, active bool, deadline time.Time) job.Job {
	return job.Job{
		ID:              uuid.New(),
		Title:           title,
		Department:      "Indian Railways",
		Location:        "New Delhi",
		Qualification:   "Graduate",
		ApplicationLink: "https://rrb.gov.in/apply",
		PostingDate:     testNow.AddDate(0, 0, -3),
		Deadline:        deadline,
		IsActive:        active,
	}
}
