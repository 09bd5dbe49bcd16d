package usecase

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../mocks/mock_job_cache.go -package=mocks govtjobs/internal/usecase JobCache

// JobCache is the cache-aside store for listing reads. Implementations must
// treat an unreachable backend as a miss.
type JobCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	InvalidateJobs(ctx context.Context) error
}
