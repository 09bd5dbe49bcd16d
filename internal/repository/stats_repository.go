package repository

import (
	"context"
	"time"

	"govtjobs/internal/database"
	"govtjobs/internal/domain/stats"
)

type StatsRepository interface {
	Snapshot(ctx context.Context, dayStart time.Time) (stats.Snapshot, error)
}

type PostgresStatsRepository struct {
	db database.DB
}

func NewPostgresStatsRepository(db database.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

// Snapshot counts in one round trip. dayStart is midnight of the current day
// in the portal's timezone; its date decides both "open" and "new today".
func (r *PostgresStatsRepository) Snapshot(ctx context.Context, dayStart time.Time) (stats.Snapshot, error) {
	today := dayStart.Format(dateLayout)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var s stats.Snapshot
	err := r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(1) FROM jobs WHERE is_active = true AND deadline >= $1::date),
			(SELECT COUNT(1) FROM jobs WHERE is_active = true
				AND (posting_date = $1::date OR (created_at >= $2 AND created_at < $3))),
			(SELECT COUNT(DISTINCT department) FROM jobs WHERE is_active = true),
			(SELECT COUNT(1) FROM applications)`,
		today, dayStart, dayEnd,
	).Scan(&s.TotalJobs, &s.NewToday, &s.Departments, &s.Applications)
	if err != nil {
		return stats.Snapshot{}, err
	}
	return s, nil
}
