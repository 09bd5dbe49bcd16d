package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/infrastructure/webhook"
	"govtjobs/internal/repository"

	"github.com/google/uuid"
)

type fakeJobStore struct {
	mu   sync.Mutex
	jobs map[string]job.Job
	err  error
}

func (s *fakeJobStore) UpsertBySourceURL(_ context.Context, jobs []job.Job) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if s.jobs == nil {
		s.jobs = map[string]job.Job{}
	}
	for _, j := range jobs {
		s.jobs[j.SourceURL] = j
	}
	return len(jobs), nil
}

type fakeRuns struct {
	mu       sync.Mutex
	started  []string
	finished []repository.ScrapeRun
	startErr error
}

func (r *fakeRuns) Start(_ context.Context, source string) (repository.ScrapeRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return repository.ScrapeRun{}, r.startErr
	}
	r.started = append(r.started, source)
	return repository.ScrapeRun{ID: uuid.New(), Source: source, Status: repository.ScrapeRunRunning}, nil
}

func (r *fakeRuns) Finish(_ context.Context, run repository.ScrapeRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, run)
	return nil
}

func (r *fakeRuns) Latest(context.Context, int) ([]repository.ScrapeRun, error) {
	return nil, nil
}

func (r *fakeRuns) bySource() map[string]repository.ScrapeRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]repository.ScrapeRun{}
	for _, run := range r.finished {
		out[run.Source] = run
	}
	return out
}

type countingCache struct {
	mu    sync.Mutex
	calls int
}

func (c *countingCache) InvalidateJobs(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []webhook.Completion
}

func (n *recordingNotifier) ScrapeCompleted(_ context.Context, c webhook.Completion) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, c)
	return nil
}

type stubRenderer struct {
	pages map[string]string
}

func (r stubRenderer) Render(_ context.Context, pageURL string, _ string) (string, error) {
	html, ok := r.pages[pageURL]
	if !ok {
		return "", fmt.Errorf("no page for %s", pageURL)
	}
	return html, nil
}

const staticList = `<html><body><ul>
<li class="job"><a class="t" href="/n/1">Junior Engineer</a><span class="d">30/10/2026</span></li>
<li class="job"><a class="t" href="/n/2">Stenographer</a><span class="d">31/10/2026</span></li>
<li class="job"><a class="t" href="/n/3">Broken Row</a><span class="d">tbd</span></li>
</ul></body></html>`

func newPortal(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(staticList))
	})
	mux.HandleFunc("/n/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="fee">Rs 100</div><div class="loc">Delhi</div></body></html>`))
	})
	mux.HandleFunc("/n/2", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/n/3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunner_Run(t *testing.T) {
	portal := newPortal(t)
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	static := Source{
		Name:         "ssc",
		ListURL:      portal.URL + "/list",
		ItemSelector: "li.job",
		Fields:       map[string]string{FieldTitle: "a.t", FieldLink: "a.t@href", FieldDeadline: "span.d"},
		Detail:       map[string]string{FieldFee: "div.fee", FieldLocation: "div.loc"},
		Defaults:     map[string]string{FieldDepartment: "SSC", FieldLocation: "All India"},
	}
	headless := Source{
		Name:         "upsc",
		ListURL:      "https://upsc.example.gov.in/jobs",
		ItemSelector: "div.card",
		Headless:     true,
		Fields:       map[string]string{FieldTitle: "h3", FieldLink: "a@href", FieldDeadline: "time", FieldDepartment: ".dept"},
	}
	broken := Source{
		Name:         "dead",
		ListURL:      portal.URL + "/missing",
		ItemSelector: "li",
		Fields:       map[string]string{FieldTitle: "a", FieldLink: "a@href"},
	}

	renderer := stubRenderer{pages: map[string]string{
		"https://upsc.example.gov.in/jobs": `<html><body><div class="card"><h3>Civil Services Prelims</h3>
			<span class="dept">UPSC</span><a href="/cse">details</a><time>2026-11-20</time></div></body></html>`,
	}}

	store := &fakeJobStore{}
	runs := &fakeRuns{}
	cache := &countingCache{}
	notifier := &recordingNotifier{}

	r := NewRunner(store, runs, Options{
		Static:   &StaticFetcher{UserAgent: "test"},
		Headless: NewHeadlessFetcher(renderer),
		Cache:    cache,
		Notifier: notifier,
		Workers:  2,
		Now:      func() time.Time { return now },
	}, nil)

	sum, err := r.Run(context.Background(), []Source{static, headless, broken})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Upserted != 3 || sum.Failed != 1 || len(sum.Runs) != 3 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	je, ok := store.jobs[portal.URL+"/n/1"]
	if !ok {
		t.Fatalf("junior engineer not stored: %v", store.jobs)
	}
	if je.Fee == nil || *je.Fee != "Rs 100" || je.Location != "Delhi" {
		t.Fatalf("detail fields not merged: %+v", je)
	}
	if steno := store.jobs[portal.URL+"/n/2"]; steno.Location != "All India" {
		t.Fatalf("default location not applied after failed detail: %+v", steno)
	}
	if _, ok := store.jobs["https://upsc.example.gov.in/cse"]; !ok {
		t.Fatalf("headless listing not stored")
	}

	got := runs.bySource()
	if got["ssc"].Status != repository.ScrapeRunSucceeded || got["ssc"].JobsUpserted != 2 || got["ssc"].Errors != 2 {
		t.Fatalf("ssc run: %+v", got["ssc"])
	}
	if got["upsc"].Status != repository.ScrapeRunSucceeded || got["upsc"].JobsUpserted != 1 {
		t.Fatalf("upsc run: %+v", got["upsc"])
	}
	if got["dead"].Status != repository.ScrapeRunFailed || got["dead"].FinishedAt == nil {
		t.Fatalf("dead run: %+v", got["dead"])
	}

	if cache.calls != 1 {
		t.Fatalf("expected one cache invalidation, got %d", cache.calls)
	}
	sources := make([]string, 0, len(notifier.sent))
	for _, c := range notifier.sent {
		sources = append(sources, c.Source)
		if c.RunID == "" || c.CompletedAt.IsZero() {
			t.Fatalf("incomplete completion: %+v", c)
		}
	}
	sort.Strings(sources)
	if fmt.Sprint(sources) != "[ssc upsc]" {
		t.Fatalf("notified sources=%v", sources)
	}
}

func TestRunner_NothingStoredSkipsInvalidation(t *testing.T) {
	portal := newPortal(t)
	cache := &countingCache{}
	notifier := &recordingNotifier{}
	runs := &fakeRuns{startErr: errors.New("db down")}

	r := NewRunner(&fakeJobStore{}, runs, Options{
		Static:   &StaticFetcher{},
		Cache:    cache,
		Notifier: notifier,
	}, nil)

	sum, err := r.Run(context.Background(), []Source{{
		Name:         "dead",
		ListURL:      portal.URL + "/missing",
		ItemSelector: "li",
		Fields:       map[string]string{FieldTitle: "a", FieldLink: "a@href"},
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Failed != 1 || sum.Upserted != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(runs.finished) != 1 || runs.finished[0].ID == uuid.Nil {
		t.Fatalf("run should still be finished with a local id: %+v", runs.finished)
	}
	if cache.calls != 0 || len(notifier.sent) != 0 {
		t.Fatalf("nothing stored: cache=%d notified=%d", cache.calls, len(notifier.sent))
	}
}

func TestRunner_UpsertErrorFailsRun(t *testing.T) {
	renderer := stubRenderer{pages: map[string]string{
		"https://a.example.in/": `<html><body><p><a href="/x">Clerk</a><i>2026-12-01</i></p></body></html>`,
	}}
	runs := &fakeRuns{}
	r := NewRunner(&fakeJobStore{err: errors.New("constraint")}, runs, Options{
		Headless: NewHeadlessFetcher(renderer),
	}, nil)

	sum, err := r.Run(context.Background(), []Source{{
		Name:         "a",
		ListURL:      "https://a.example.in/",
		ItemSelector: "p",
		Headless:     true,
		Fields:       map[string]string{FieldTitle: "a", FieldLink: "a@href", FieldDeadline: "i"},
		Defaults:     map[string]string{FieldDepartment: "Board"},
	}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Failed != 1 || runs.finished[0].Status != repository.ScrapeRunFailed {
		t.Fatalf("expected failed run, got %+v", runs.finished)
	}
}

func TestRunner_MissingFetcher(t *testing.T) {
	r := NewRunner(&fakeJobStore{}, &fakeRuns{}, Options{}, nil)
	sum, err := r.Run(context.Background(), []Source{{Name: "x", ListURL: "https://x.in", ItemSelector: "li", Headless: true}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Failed != 1 {
		t.Fatalf("expected failure without a headless fetcher, got %+v", sum)
	}
}

func TestRunner_NoSources(t *testing.T) {
	r := NewRunner(&fakeJobStore{}, &fakeRuns{}, Options{}, nil)
	if _, err := r.Run(context.Background(), nil); !errors.Is(err, ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}
