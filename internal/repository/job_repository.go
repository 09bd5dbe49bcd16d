package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"govtjobs/internal/database"
	"govtjobs/internal/domain/job"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// JobFilter is a normalized search translated into SQL terms. Dates are
// calendar dates in the portal's timezone.
type JobFilter struct {
	Variants      []string
	Department    string
	Location      string
	Qualification string
	PostedSince   *time.Time
	// OpenOn hides jobs whose deadline is before this date unless
	// IncludeExpired is set.
	OpenOn          time.Time
	IncludeExpired  bool
	IncludeInactive bool
	Sort            job.SortKey
	Limit           int
	Offset          int
}

//go:generate mockgen -destination=../mocks/mock_job_repository.go -package=mocks govtjobs/internal/repository JobRepository

type JobRepository interface {
	Search(ctx context.Context, f JobFilter) ([]job.Job, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (job.Job, error)
	Create(ctx context.Context, j job.Job) (job.Job, error)
	Update(ctx context.Context, j job.Job) (job.Job, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	FilterOptions(ctx context.Context) (job.FilterOptions, error)
	UpsertBySourceURL(ctx context.Context, jobs []job.Job) (int, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, title, department, location, qualification, deadline, application_link, posting_date,
	source_url, positions, salary, age_limit, fee, description, selection_process, is_active, created_at, updated_at`

type queryBuilder struct {
	where []string
	args  []any
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) add(clause string) {
	b.where = append(b.where, clause)
}

func (b *queryBuilder) whereSQL() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

func isFilterValue(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, job.All)
}

// buildSearch renders the WHERE clause and ORDER BY for f.
func buildSearch(f JobFilter) (where string, orderBy string, args []any) {
	b := &queryBuilder{}

	if !f.IncludeInactive {
		b.add("is_active = true")
	}
	if !f.IncludeExpired && !f.OpenOn.IsZero() {
		b.add("deadline >= " + b.arg(f.OpenOn.Format(dateLayout)) + "::date")
	}
	if isFilterValue(f.Department) {
		b.add("lower(department) = lower(" + b.arg(strings.TrimSpace(f.Department)) + ")")
	}
	if isFilterValue(f.Qualification) {
		b.add("lower(qualification) = lower(" + b.arg(strings.TrimSpace(f.Qualification)) + ")")
	}
	if strings.TrimSpace(f.Location) != "" {
		b.add("location ILIKE " + b.arg(likePattern(f.Location)))
	}
	if f.PostedSince != nil {
		b.add("posting_date >= " + b.arg(f.PostedSince.Format(dateLayout)) + "::date")
	}

	var ors []string
	for _, v := range f.Variants {
		if strings.TrimSpace(v) == "" {
			continue
		}
		p := b.arg(likePattern(v))
		ors = append(ors, fmt.Sprintf(
			"(title ILIKE %[1]s OR department ILIKE %[1]s OR qualification ILIKE %[1]s OR COALESCE(description, '') ILIKE %[1]s)", p))
	}
	if len(ors) > 0 {
		b.add("(" + strings.Join(ors, " OR ") + ")")
	}

	switch f.Sort {
	case job.SortDeadline:
		orderBy = "deadline ASC, posting_date DESC, id ASC"
	case job.SortTitle:
		orderBy = "lower(title) ASC, id ASC"
	default:
		orderBy = "posting_date DESC, created_at DESC, id ASC"
	}
	return b.whereSQL(), orderBy, b.args
}

func (r *PostgresJobRepository) Search(ctx context.Context, f JobFilter) ([]job.Job, int, error) {
	if f.Limit <= 0 {
		f.Limit = job.DefaultLimit
	}
	if f.Limit > job.MaxLimit {
		f.Limit = job.MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where, orderBy, args := buildSearch(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 || f.Offset >= total {
		return []job.Job{}, total, nil
	}

	n := len(args)
	q := fmt.Sprintf(`SELECT %s FROM jobs%s ORDER BY %s LIMIT $%d OFFSET $%d`, jobColumns, where, orderBy, n+1, n+2)
	rows, err := r.db.Query(ctx, q, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]job.Job, 0, f.Limit)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}

	var created job.Job
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := ensureDepartment(ctx, tx, j.Department); err != nil {
			return err
		}
		var err error
		created, err = scanJob(tx.QueryRow(ctx,
			`INSERT INTO jobs (
				id, title, department, location, qualification, deadline, application_link, posting_date,
				source_url, positions, salary, age_limit, fee, description, selection_process, is_active
			) VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8::date, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING `+jobColumns,
			writeArgs(j)...,
		))
		return err
	})
	if err != nil {
		return job.Job{}, err
	}
	return created, nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) (job.Job, error) {
	var updated job.Job
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if err := ensureDepartment(ctx, tx, j.Department); err != nil {
			return err
		}
		var err error
		updated, err = scanJob(tx.QueryRow(ctx,
			`UPDATE jobs SET
				title = $2, department = $3, location = $4, qualification = $5, deadline = $6::date,
				application_link = $7, posting_date = $8::date, source_url = $9, positions = $10, salary = $11,
				age_limit = $12, fee = $13, description = $14, selection_process = $15, is_active = $16,
				updated_at = now()
			WHERE id = $1
			RETURNING `+jobColumns,
			writeArgs(j)...,
		))
		return err
	})
	if err != nil {
		if database.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return updated, nil
}

func (r *PostgresJobRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	n, err := r.db.Exec(ctx, `UPDATE jobs SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) FilterOptions(ctx context.Context) (job.FilterOptions, error) {
	var (
		out job.FilterOptions
		err error
	)
	if out.Departments, err = r.distinct(ctx, "department"); err != nil {
		return job.FilterOptions{}, err
	}
	if out.Locations, err = r.distinct(ctx, "location"); err != nil {
		return job.FilterOptions{}, err
	}
	if out.Qualifications, err = r.distinct(ctx, "qualification"); err != nil {
		return job.FilterOptions{}, err
	}
	return out, nil
}

// distinct lists the values of a fixed column; column is never user input.
func (r *PostgresJobRepository) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT `+column+` FROM jobs WHERE is_active = true AND `+column+` <> '' ORDER BY 1`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertBySourceURL inserts scraped jobs or refreshes the listing already
// stored under the same source URL. The active flag of existing rows is left
// alone so an admin deactivation survives re-scrapes.
func (r *PostgresJobRepository) UpsertBySourceURL(ctx context.Context, jobs []job.Job) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	count := 0
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		seenDept := map[string]struct{}{}
		for _, j := range jobs {
			if strings.TrimSpace(j.SourceURL) == "" {
				continue
			}
			if _, ok := seenDept[j.Department]; !ok {
				if err := ensureDepartment(ctx, tx, j.Department); err != nil {
					return err
				}
				seenDept[j.Department] = struct{}{}
			}
			if j.ID == uuid.Nil {
				j.ID = uuid.New()
			}
			j.IsActive = true
			n, err := tx.Exec(ctx,
				`INSERT INTO jobs (
					id, title, department, location, qualification, deadline, application_link, posting_date,
					source_url, positions, salary, age_limit, fee, description, selection_process, is_active
				) VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8::date, $9, $10, $11, $12, $13, $14, $15, $16)
				ON CONFLICT (source_url) WHERE source_url IS NOT NULL DO UPDATE SET
					title = EXCLUDED.title,
					department = EXCLUDED.department,
					location = EXCLUDED.location,
					qualification = EXCLUDED.qualification,
					deadline = EXCLUDED.deadline,
					application_link = EXCLUDED.application_link,
					posting_date = EXCLUDED.posting_date,
					positions = COALESCE(EXCLUDED.positions, jobs.positions),
					salary = COALESCE(EXCLUDED.salary, jobs.salary),
					age_limit = COALESCE(EXCLUDED.age_limit, jobs.age_limit),
					fee = COALESCE(EXCLUDED.fee, jobs.fee),
					description = COALESCE(EXCLUDED.description, jobs.description),
					selection_process = COALESCE(EXCLUDED.selection_process, jobs.selection_process),
					updated_at = now()`,
				writeArgs(j)...,
			)
			if err != nil {
				return fmt.Errorf("upsert %s: %w", j.SourceURL, err)
			}
			count += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

type execer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

func ensureDepartment(ctx context.Context, db execer, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	_, err := db.Exec(ctx, `INSERT INTO departments (id, name) VALUES (gen_random_uuid(), $1) ON CONFLICT (name) DO NOTHING`, name)
	return err
}

func writeArgs(j job.Job) []any {
	return []any{
		j.ID,
		strings.TrimSpace(j.Title),
		strings.TrimSpace(j.Department),
		strings.TrimSpace(j.Location),
		strings.TrimSpace(j.Qualification),
		j.Deadline.Format(dateLayout),
		strings.TrimSpace(j.ApplicationLink),
		j.PostingDate.Format(dateLayout),
		nullString(j.SourceURL),
		j.Positions,
		j.Salary,
		j.AgeLimit,
		j.Fee,
		j.Description,
		j.SelectionProcess,
		j.IsActive,
	}
}

func nullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func scanJob(row database.Row) (job.Job, error) {
	var (
		j         job.Job
		sourceURL *string
	)
	err := row.Scan(
		&j.ID,
		&j.Title,
		&j.Department,
		&j.Location,
		&j.Qualification,
		&j.Deadline,
		&j.ApplicationLink,
		&j.PostingDate,
		&sourceURL,
		&j.Positions,
		&j.Salary,
		&j.AgeLimit,
		&j.Fee,
		&j.Description,
		&j.SelectionProcess,
		&j.IsActive,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	if sourceURL != nil {
		j.SourceURL = *sourceURL
	}
	return j, nil
}
