package usecase

import (
	"context"
	"errors"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/domain/stats"
	"govtjobs/internal/infrastructure/cache"
	"govtjobs/internal/logger"
	"govtjobs/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ApplyResult struct {
	ApplicationID   uuid.UUID
	JobID           uuid.UUID
	ApplicationLink string
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, jobID uuid.UUID, userID *uuid.UUID) (ApplyResult, error)
}

type Applications struct {
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	cache  JobCache
	clock  Clock
	logger logrus.FieldLogger
}

func NewApplicationUsecase(jobs repository.JobRepository, apps repository.ApplicationRepository, c JobCache, clock Clock, log logrus.FieldLogger) *Applications {
	return &Applications{jobs: jobs, apps: apps, cache: c, clock: clock, logger: logger.OrDiscard(log)}
}

// Apply records a click-through for an open job and hands back the link the
// applicant should be sent to.
func (u *Applications) Apply(ctx context.Context, jobID uuid.UUID, userID *uuid.UUID) (ApplyResult, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ApplyResult{}, err
		}
		return ApplyResult{}, internal(err)
	}
	if !j.IsActive {
		return ApplyResult{}, job.ErrJobInactive
	}
	if j.Expired(u.clock.now()) {
		return ApplyResult{}, job.ErrJobExpired
	}

	a, err := u.apps.Create(ctx, stats.Application{JobID: j.ID, UserID: userID})
	if err != nil {
		return ApplyResult{}, internal(err)
	}

	if u.cache != nil {
		if err := u.cache.Delete(ctx, cache.StatsKey); err != nil {
			u.logger.WithError(err).Warn("[Applications] stats cache delete failed")
		}
	}
	u.logger.WithFields(logrus.Fields{"job_id": j.ID, "application_id": a.ID}).Info("[Applications] recorded")

	return ApplyResult{ApplicationID: a.ID, JobID: j.ID, ApplicationLink: j.ApplicationLink}, nil
}
