package seeder

import (
	"context"
	"fmt"

	"govtjobs/internal/database"
)

var departmentNames = []string{
	"Indian Railways",
	"Reserve Bank of India",
	"State Bank of India",
	"Indian Army",
	"Indian Navy",
	"Delhi Police",
	"India Post",
	"Union Public Service Commission",
	"Staff Selection Commission",
	"All India Institute of Medical Sciences",
	"Kendriya Vidyalaya Sangathan",
	"NTPC Limited",
}

type DepartmentsSeeder struct{}

func (DepartmentsSeeder) Name() string { return "departments" }

func (DepartmentsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "departments", "id", "name", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, name := range departmentNames {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO departments (id, name) VALUES (gen_random_uuid(), $1) ON CONFLICT (name) DO NOTHING`,
				name,
			); err != nil {
				return fmt.Errorf("insert department %q: %w", name, err)
			}
		}
		return nil
	})
}
