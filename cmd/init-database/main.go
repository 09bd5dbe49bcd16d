package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"govtjobs/internal/config"
	"govtjobs/internal/database"
	"govtjobs/internal/database/migration"
	"govtjobs/internal/database/postgres"
	"govtjobs/internal/database/seeder"
	"govtjobs/internal/logger"
	"govtjobs/migrations"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type deps struct {
	connect   func(ctx context.Context, databaseURL string) (database.DB, error)
	newPusher func(db database.DB, log logrus.FieldLogger) migration.Pusher
	seed      func(ctx context.Context, db database.DB, getenv func(string) string, log logrus.FieldLogger) error
}

func defaultDeps() deps {
	return deps{
		connect: func(ctx context.Context, databaseURL string) (database.DB, error) {
			return postgres.Connect(ctx, config.DatabaseConfig{URL: databaseURL})
		},
		newPusher: func(db database.DB, log logrus.FieldLogger) migration.Pusher {
			return migration.NewRunner(db, migrations.FS, log)
		},
		seed: seedDatabase,
	}
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stderr, defaultDeps())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, getenv func(string) string, stderr io.Writer, d deps) int {
	fs := flag.NewFlagSet("init-database", flag.ContinueOnError)
	fs.SetOutput(stderr)
	seed := fs.Bool("seed", false, "seed departments, sample jobs and the admin user after migrating")
	timeout := fs.Duration("timeout", 2*time.Minute, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logger.NewWithOutput(stderr, getenv("LOG_LEVEL"), false)

	databaseURL := strings.TrimSpace(getenv("DATABASE_URL"))
	if databaseURL == "" {
		fmt.Fprintln(stderr, "DATABASE_URL is not set; export it or add it to .env")
		return 1
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := d.connect(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(stderr, "database initialization failed: connect: %v\n", err)
		return 1
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("[InitDB] pushing schema")
	if err := migration.PushWithFallback(ctx, d.newPusher(db, log), log); err != nil {
		fmt.Fprintf(stderr, "database initialization failed: %v\n", err)
		return 1
	}

	if *seed {
		if err := d.seed(ctx, db, getenv, log); err != nil {
			fmt.Fprintf(stderr, "seeding failed: %v\n", err)
			return 1
		}
	}

	log.Info("[InitDB] database ready")
	return 0
}

func seedDatabase(ctx context.Context, db database.DB, getenv func(string) string, log logrus.FieldLogger) error {
	r := seeder.Runner{
		Seeders: seeder.Defaults(getenv("ADMIN_EMAIL"), getenv("ADMIN_PASSWORD")),
		Logger:  log,
	}
	return r.Run(ctx, db)
}
