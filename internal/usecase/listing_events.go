package usecase

import (
	"context"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/infrastructure/events"
	"govtjobs/internal/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type JobsNotifier interface {
	JobsUpdated(source string, jobID uuid.UUID)
}

// ListingEvents fans a change to the job set out to the cache, websocket
// clients and the event stream. Each sink is optional and best effort; a
// failing sink is logged and never fails the write that triggered it.
type ListingEvents struct {
	cache     JobCache
	notifier  JobsNotifier
	publisher events.Publisher
	logger    logrus.FieldLogger
}

func NewListingEvents(cache JobCache, notifier JobsNotifier, publisher events.Publisher, log logrus.FieldLogger) *ListingEvents {
	return &ListingEvents{cache: cache, notifier: notifier, publisher: publisher, logger: logger.OrDiscard(log)}
}

func (e *ListingEvents) JobChanged(ctx context.Context, eventType, source string, j job.Job) {
	e.emit(ctx, source, j.ID, events.JobEvent{
		Type:       eventType,
		JobID:      j.ID,
		Title:      j.Title,
		Department: j.Department,
	})
}

func (e *ListingEvents) BulkChanged(ctx context.Context, source string, count int) {
	e.emit(ctx, source, uuid.Nil, events.JobEvent{Type: events.JobsScraped, Count: count})
}

func (e *ListingEvents) emit(ctx context.Context, source string, jobID uuid.UUID, ev events.JobEvent) {
	if e == nil {
		return
	}
	if e.cache != nil {
		if err := e.cache.InvalidateJobs(ctx); err != nil {
			e.logger.WithError(err).Warn("[Jobs] cache invalidation failed")
		}
	}
	if e.notifier != nil {
		e.notifier.JobsUpdated(source, jobID)
	}
	if e.publisher != nil {
		if err := e.publisher.PublishJobEvent(ctx, ev); err != nil {
			e.logger.WithError(err).WithField("event", ev.Type).Warn("[Jobs] publish failed")
		}
	}
}
