package job

import (
	"errors"
	"testing"
	"time"
)

func validJob() Job {
	posted := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return Job{
		Title:           "Junior Engineer",
		Department:      "Indian Railways",
		Location:        "New Delhi",
		Qualification:   "Diploma",
		ApplicationLink: "https://rrb.gov.in/apply",
		PostingDate:     posted,
		Deadline:        posted.AddDate(0, 0, 30),
	}
}

func TestValidateForWrite(t *testing.T) {
	if err := ValidateForWrite(validJob()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	neg := -1
	bad := map[string]func(j *Job){
		"title":     func(j *Job) { j.Title = " " },
		"link":      func(j *Job) { j.ApplicationLink = "rrb.gov.in/apply" },
		"scheme":    func(j *Job) { j.ApplicationLink = "ftp://rrb.gov.in" },
		"source":    func(j *Job) { j.SourceURL = "not a url" },
		"deadline":  func(j *Job) { j.Deadline = j.PostingDate.AddDate(0, 0, -1) },
		"positions": func(j *Job) { j.Positions = &neg },
	}
	for name, mutate := range bad {
		j := validJob()
		mutate(&j)
		if err := ValidateForWrite(j); !errors.Is(err, ErrInvalidJob) {
			t.Fatalf("%s: expected ErrInvalidJob, got %v", name, err)
		}
	}
}

func TestJob_ExpiredOnlyAfterDeadlineDay(t *testing.T) {
	j := validJob()
	j.Deadline = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	if j.Expired(time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("job must be open on its deadline day")
	}
	if !j.Expired(time.Date(2026, 10, 16, 0, 1, 0, 0, time.UTC)) {
		t.Fatalf("job must be expired the day after the deadline")
	}
}

func TestJob_ExpiredComparesCalendarDates(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	j := validJob()
	j.Deadline = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	if j.Expired(time.Date(2026, 10, 15, 23, 50, 0, 0, ist)) {
		t.Fatalf("job must be open until the end of the deadline day in IST")
	}
	if !j.Expired(time.Date(2026, 10, 16, 0, 10, 0, 0, ist)) {
		t.Fatalf("job must be expired just after midnight IST")
	}

	west := time.FixedZone("UTC-8", -8*3600)
	if j.Expired(time.Date(2026, 10, 15, 20, 0, 0, 0, west)) {
		t.Fatalf("deadline day must not depend on the zone the date was decoded in")
	}
}
