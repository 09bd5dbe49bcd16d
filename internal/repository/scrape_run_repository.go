package repository

import (
	"context"
	"time"

	"govtjobs/internal/database"

	"github.com/google/uuid"
)

const (
	ScrapeRunRunning   = "running"
	ScrapeRunSucceeded = "succeeded"
	ScrapeRunFailed    = "failed"
)

type ScrapeRun struct {
	ID           uuid.UUID
	Source       string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       string
	JobsUpserted int
	Errors       int
}

type ScrapeRunRepository interface {
	Start(ctx context.Context, source string) (ScrapeRun, error)
	Finish(ctx context.Context, run ScrapeRun) error
	Latest(ctx context.Context, limit int) ([]ScrapeRun, error)
}

type PostgresScrapeRunRepository struct {
	db database.DB
}

func NewPostgresScrapeRunRepository(db database.DB) *PostgresScrapeRunRepository {
	return &PostgresScrapeRunRepository{db: db}
}

func (r *PostgresScrapeRunRepository) Start(ctx context.Context, source string) (ScrapeRun, error) {
	run := ScrapeRun{ID: uuid.New(), Source: source, Status: ScrapeRunRunning}
	err := r.db.QueryRow(ctx,
		`INSERT INTO scrape_runs (id, source, status) VALUES ($1, $2, $3) RETURNING started_at`,
		run.ID, run.Source, run.Status,
	).Scan(&run.StartedAt)
	if err != nil {
		return ScrapeRun{}, err
	}
	return run, nil
}

func (r *PostgresScrapeRunRepository) Finish(ctx context.Context, run ScrapeRun) error {
	_, err := r.db.Exec(ctx,
		`UPDATE scrape_runs SET finished_at = now(), status = $2, jobs_upserted = $3, errors = $4 WHERE id = $1`,
		run.ID, run.Status, run.JobsUpserted, run.Errors,
	)
	return err
}

func (r *PostgresScrapeRunRepository) Latest(ctx context.Context, limit int) ([]ScrapeRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, source, started_at, finished_at, status, jobs_upserted, errors
		 FROM scrape_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ScrapeRun, 0)
	for rows.Next() {
		var s ScrapeRun
		if err := rows.Scan(&s.ID, &s.Source, &s.StartedAt, &s.FinishedAt, &s.Status, &s.JobsUpserted, &s.Errors); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
