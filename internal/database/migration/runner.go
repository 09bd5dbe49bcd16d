package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"govtjobs/internal/database"
	"govtjobs/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	mdatabase "github.com/golang-migrate/migrate/v4/database"
	mpostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

// Pusher brings the schema in line with the embedded migrations. A forced
// push first clears a dirty migration state left by an interrupted run.
type Pusher interface {
	Push(ctx context.Context, force bool) error
}

type engine interface {
	Up() error
	Version() (uint, bool, error)
	Force(version int) error
	Close() (error, error)
}

type versionSource interface {
	Prev(version uint) (uint, error)
}

// Runner migrates through a database/sql handle borrowed from the shared
// pool, so migrations and seeders use the same connections.
type Runner struct {
	DB     database.DB
	Source fs.FS
	Logger logrus.FieldLogger

	open func() (engine, versionSource, error)
}

func NewRunner(db database.DB, source fs.FS, log logrus.FieldLogger) *Runner {
	return &Runner{DB: db, Source: source, Logger: logger.OrDiscard(log)}
}

func (r *Runner) Push(ctx context.Context, force bool) error {
	if r == nil {
		return errors.New("nil runner")
	}
	open := r.open
	if open == nil {
		open = r.openMigrate
	}

	e, src, err := open()
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := e.Close()
		if srcErr != nil || dbErr != nil {
			r.log().WithFields(logrus.Fields{"source_err": srcErr, "db_err": dbErr}).Warn("[Migrate] close error")
		}
	}()

	if force {
		if err := r.clearDirty(e, src); err != nil {
			return fmt.Errorf("force: %w", err)
		}
	}

	return r.up(ctx, e)
}

func (r *Runner) openMigrate() (engine, versionSource, error) {
	if r.DB == nil {
		return nil, nil, database.ErrNilDB
	}
	if r.Source == nil {
		return nil, nil, errors.New("nil migration source")
	}
	sqlDB := r.DB.SQLDB()
	if sqlDB == nil {
		return nil, nil, database.ErrNilDB
	}

	src, err := iofs.New(r.Source, ".")
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	// The driver owns sqlDB from here; closing the migrator closes it.
	driver, err := mpostgres.WithInstance(sqlDB, &mpostgres.Config{})
	if err != nil {
		_ = sqlDB.Close()
		_ = src.Close()
		return nil, nil, err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		_ = src.Close()
		return nil, nil, err
	}
	return m, src, nil
}

func (r *Runner) clearDirty(e engine, src versionSource) error {
	v, dirty, err := e.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return nil
	}
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}

	target := mdatabase.NilVersion
	prev, err := src.Prev(v)
	switch {
	case err == nil:
		target = int(prev)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return err
	}

	r.log().WithFields(logrus.Fields{"dirty_version": v, "forced_version": target}).Warn("[Migrate] clearing dirty state")
	return e.Force(target)
}

func (r *Runner) up(ctx context.Context, e engine) error {
	done := make(chan error, 1)
	go func() { done <- e.Up() }()

	select {
	case err := <-done:
		if err == nil || errors.Is(err, migrate.ErrNoChange) {
			v, dirty, verr := e.Version()
			if verr == nil {
				r.log().WithFields(logrus.Fields{"version": v, "dirty": dirty}).Info("[Migrate] schema up to date")
			}
			return nil
		}
		return err
	case <-ctx.Done():
		if m, ok := e.(*migrate.Migrate); ok {
			select {
			case m.GracefulStop <- true:
			default:
			}
		}
		<-done
		return ctx.Err()
	}
}

func (r *Runner) log() logrus.FieldLogger {
	return logger.OrDiscard(r.Logger)
}

// PushWithFallback runs a plain push and, when that fails, one forced push.
// The returned error carries both causes.
func PushWithFallback(ctx context.Context, p Pusher, log logrus.FieldLogger) error {
	log = logger.OrDiscard(log)

	err := p.Push(ctx, false)
	if err == nil {
		return nil
	}
	log.WithError(err).Warn("[Migrate] push failed, retrying with force")

	if ferr := p.Push(ctx, true); ferr != nil {
		return fmt.Errorf("push failed (%v); forced push failed: %w", err, ferr)
	}
	log.Info("[Migrate] forced push succeeded")
	return nil
}
