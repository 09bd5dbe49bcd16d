package repository

import (
	"context"

	"govtjobs/internal/database"
	"govtjobs/internal/domain/stats"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a stats.Application) (stats.Application, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int, error)
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a stats.Application) (stats.Application, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO applications (id, job_id, user_id) VALUES ($1, $2, $3) RETURNING created_at`,
		a.ID, a.JobID, a.UserID,
	).Scan(&a.CreatedAt)
	if err != nil {
		return stats.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM applications WHERE job_id = $1`, jobID).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
