package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/infrastructure/events"
	"govtjobs/internal/logger"
	"govtjobs/internal/repository"
	"govtjobs/internal/search"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const adminSource = "admin"

// JobInput carries admin edits. Nil fields are left as they are on update and
// take their defaults on create.
type JobInput struct {
	Title            *string
	Department       *string
	Location         *string
	Qualification    *string
	ApplicationLink  *string
	SourceURL        *string
	Deadline         *time.Time
	PostingDate      *time.Time
	Positions        *int
	Salary           *string
	AgeLimit         *string
	Fee              *string
	Description      *string
	SelectionProcess *string
	IsActive         *bool
}

type AdminListParams struct {
	Search     string
	Department string
	Page       int
	Limit      int
}

type AdminJobUsecase interface {
	List(ctx context.Context, params AdminListParams) (job.SearchResult, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	Create(ctx context.Context, in JobInput) (job.Job, error)
	Update(ctx context.Context, id uuid.UUID, in JobInput) (job.Job, error)
	Deactivate(ctx context.Context, id uuid.UUID) (job.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ScrapeCompleted(ctx context.Context, source string, count int)
	ScrapeRuns(ctx context.Context, limit int) ([]repository.ScrapeRun, error)
}

type AdminJobs struct {
	jobs   repository.JobRepository
	runs   repository.ScrapeRunRepository
	events *ListingEvents
	clock  Clock
	logger logrus.FieldLogger
}

func NewAdminJobUsecase(jobs repository.JobRepository, ev *ListingEvents, clock Clock, log logrus.FieldLogger) *AdminJobs {
	return &AdminJobs{jobs: jobs, events: ev, clock: clock, logger: logger.OrDiscard(log)}
}

func (u *AdminJobs) WithScrapeRuns(runs repository.ScrapeRunRepository) *AdminJobs {
	u.runs = runs
	return u
}

// List pages through every job, inactive and expired ones included.
func (u *AdminJobs) List(ctx context.Context, params AdminListParams) (job.SearchResult, error) {
	p, err := job.SearchParams{
		Search:     params.Search,
		Department: params.Department,
		Page:       params.Page,
		Limit:      params.Limit,
	}.Normalize()
	if err != nil {
		return job.SearchResult{}, err
	}

	items, total, err := u.jobs.Search(ctx, repository.JobFilter{
		Variants:        search.ProcessQuery(p.Search).Variants,
		Department:      p.Department,
		Qualification:   p.Qualification,
		IncludeExpired:  true,
		IncludeInactive: true,
		Sort:            job.SortLatest,
		Limit:           p.Limit,
		Offset:          p.Offset(),
	})
	if err != nil {
		return job.SearchResult{}, internal(err)
	}
	return job.NewSearchResult(items, total, p.Page, p.Limit), nil
}

func (u *AdminJobs) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, repoErr(err)
	}
	return j, nil
}

func (u *AdminJobs) Create(ctx context.Context, in JobInput) (job.Job, error) {
	j := job.Job{PostingDate: u.clock.today(), IsActive: true}
	applyInput(&j, in)
	if err := job.ValidateForWrite(j); err != nil {
		return job.Job{}, err
	}

	created, err := u.jobs.Create(ctx, j)
	if err != nil {
		return job.Job{}, internal(err)
	}
	u.logger.WithFields(logrus.Fields{"job_id": created.ID, "title": created.Title}).Info("[Admin] job created")
	u.events.JobChanged(ctx, events.JobCreated, adminSource, created)
	return created, nil
}

func (u *AdminJobs) Update(ctx context.Context, id uuid.UUID, in JobInput) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, repoErr(err)
	}
	applyInput(&j, in)
	if err := job.ValidateForWrite(j); err != nil {
		return job.Job{}, err
	}

	updated, err := u.jobs.Update(ctx, j)
	if err != nil {
		return job.Job{}, repoErr(err)
	}
	u.logger.WithField("job_id", updated.ID).Info("[Admin] job updated")
	u.events.JobChanged(ctx, events.JobUpdated, adminSource, updated)
	return updated, nil
}

func (u *AdminJobs) Deactivate(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, repoErr(err)
	}
	if !j.IsActive {
		return j, nil
	}
	if err := u.jobs.SetActive(ctx, id, false); err != nil {
		return job.Job{}, repoErr(err)
	}
	j.IsActive = false
	u.logger.WithField("job_id", id).Info("[Admin] job deactivated")
	u.events.JobChanged(ctx, events.JobDeactivated, adminSource, j)
	return j, nil
}

func (u *AdminJobs) Delete(ctx context.Context, id uuid.UUID) error {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		return repoErr(err)
	}
	if err := u.jobs.Delete(ctx, id); err != nil {
		return repoErr(err)
	}
	u.logger.WithField("job_id", id).Info("[Admin] job deleted")
	u.events.JobChanged(ctx, events.JobDeleted, adminSource, j)
	return nil
}

// ScrapeCompleted is called by the ingestion webhook after a scraper run
// has written new rows.
func (u *AdminJobs) ScrapeCompleted(ctx context.Context, source string, count int) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = "scraper"
	}
	u.logger.WithFields(logrus.Fields{"source": source, "count": count}).Info("[Jobs] scrape completed")
	u.events.BulkChanged(ctx, source, count)
}

// ScrapeRuns lists the most recent scraper runs, newest first.
func (u *AdminJobs) ScrapeRuns(ctx context.Context, limit int) ([]repository.ScrapeRun, error) {
	if u.runs == nil {
		return []repository.ScrapeRun{}, nil
	}
	if limit < 0 {
		return nil, ErrInvalidInput
	}
	runs, err := u.runs.Latest(ctx, limit)
	if err != nil {
		return nil, internal(err)
	}
	return runs, nil
}

func repoErr(err error) error {
	if errors.Is(err, job.ErrNotFound) {
		return err
	}
	return internal(err)
}

func applyInput(j *job.Job, in JobInput) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setStr(&j.Title, in.Title)
	setStr(&j.Department, in.Department)
	setStr(&j.Location, in.Location)
	setStr(&j.Qualification, in.Qualification)
	setStr(&j.ApplicationLink, in.ApplicationLink)
	setStr(&j.SourceURL, in.SourceURL)

	if in.Deadline != nil {
		j.Deadline = *in.Deadline
	}
	if in.PostingDate != nil {
		j.PostingDate = *in.PostingDate
	}
	if in.Positions != nil {
		n := *in.Positions
		j.Positions = &n
	}
	optional := func(dst **string, v *string) {
		if v == nil {
			return
		}
		s := strings.TrimSpace(*v)
		if s == "" {
			*dst = nil
			return
		}
		*dst = &s
	}
	optional(&j.Salary, in.Salary)
	optional(&j.AgeLimit, in.AgeLimit)
	optional(&j.Fee, in.Fee)
	optional(&j.Description, in.Description)
	optional(&j.SelectionProcess, in.SelectionProcess)

	if in.IsActive != nil {
		j.IsActive = *in.IsActive
	}
}
