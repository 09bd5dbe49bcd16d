package job

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("job not found")
	ErrInvalidJob   = errors.New("invalid job")
	ErrJobExpired   = errors.New("job deadline has passed")
	ErrJobInactive  = errors.New("job is not active")
	ErrInvalidParam = errors.New("invalid search params")
)

type Job struct {
	ID              uuid.UUID
	Title           string
	Department      string
	Location        string
	Qualification   string
	Deadline        time.Time
	ApplicationLink string
	PostingDate     time.Time
	SourceURL       string

	Positions        *int
	Salary           *string
	AgeLimit         *string
	Fee              *string
	Description      *string
	SelectionProcess *string

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the deadline date lies before now's date. A job
// stays open for the whole of its deadline day in now's location.
func (j Job) Expired(now time.Time) bool {
	if j.Deadline.IsZero() {
		return false
	}
	return DateIn(j.Deadline, now.Location()).Before(StartOfDay(now))
}

// DateIn reinterprets the calendar date of t as midnight in loc. DATE columns
// come back as UTC midnight.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ValidateForWrite checks the fields an admin must supply before a job can be
// stored.
func ValidateForWrite(j Job) error {
	if strings.TrimSpace(j.Title) == "" ||
		strings.TrimSpace(j.Department) == "" ||
		strings.TrimSpace(j.Location) == "" ||
		strings.TrimSpace(j.Qualification) == "" {
		return ErrInvalidJob
	}
	if !isHTTPURL(j.ApplicationLink) {
		return ErrInvalidJob
	}
	if strings.TrimSpace(j.SourceURL) != "" && !isHTTPURL(j.SourceURL) {
		return ErrInvalidJob
	}
	if j.Deadline.IsZero() || j.PostingDate.IsZero() {
		return ErrInvalidJob
	}
	if j.Deadline.Before(StartOfDay(j.PostingDate)) {
		return ErrInvalidJob
	}
	if j.Positions != nil && *j.Positions < 0 {
		return ErrInvalidJob
	}
	return nil
}

func isHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Department is a row of the departments table; jobs reference departments by
// name so the portal can list them for the filter sidebar.
type Department struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// FilterOptions holds the distinct values offered by the filter sidebar.
type FilterOptions struct {
	Departments    []string `json:"departments"`
	Locations      []string `json:"locations"`
	Qualifications []string `json:"qualifications"`
}
