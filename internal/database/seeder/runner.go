package seeder

import (
	"context"
	"fmt"

	"govtjobs/internal/database"
	"govtjobs/internal/logger"

	"github.com/sirupsen/logrus"
)

// Seeder inserts one kind of reference data. Seeders must be idempotent;
// init-database may run them against an already seeded database.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner applies seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  logrus.FieldLogger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := logger.OrDiscard(r.Logger)
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.WithField("seeder", s.Name()).Info("[Seeder] done")
	}
	return nil
}
