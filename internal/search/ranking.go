package search

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Job struct {
	OriginalIndex int
	ID            uuid.UUID
	Title         string
	Department    string
	Qualification string
	Location      string
	Description   string
	PostingDate   time.Time
	Deadline      time.Time
	CreatedAt     time.Time
}

type JobScore struct {
	JobID       uuid.UUID
	Relevance   float64
	Freshness   float64
	Urgency     float64
	DataQuality float64
	FinalScore  float64
}

func ComputeRelevance(job Job, queryVariants []string) float64 {
	if len(queryVariants) == 0 {
		return 0
	}

	title := strings.ToLower(job.Title)
	dept := strings.ToLower(job.Department)
	qual := strings.ToLower(job.Qualification)
	desc := strings.ToLower(job.Description)

	score := 0.0
	for i, v := range queryVariants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		// The literal query outweighs its synonyms.
		w := 1.0
		if i == 0 {
			w = 1.5
		}
		if strings.Contains(title, v) {
			score += 3 * w
		}
		if strings.Contains(dept, v) {
			score += 2 * w
		}
		if strings.Contains(qual, v) {
			score += 1 * w
		}
		if desc != "" && strings.Contains(desc, v) {
			score += 1 * w
		}
		if score >= 10 {
			return 10
		}
	}
	return score
}

func ComputeFreshness(job Job, now time.Time) float64 {
	t := job.PostingDate
	if t.IsZero() {
		t = job.CreatedAt
	}
	if t.IsZero() {
		return 0
	}

	age := now.Sub(t)
	if age < 0 {
		age = 0
	}

	switch {
	case age <= 24*time.Hour:
		return 5
	case age <= 3*24*time.Hour:
		return 4
	case age <= 7*24*time.Hour:
		return 3
	case age <= 14*24*time.Hour:
		return 2
	case age <= 30*24*time.Hour:
		return 1
	}
	return 0
}

// ComputeUrgency favours jobs whose deadline is close but not past.
func ComputeUrgency(job Job, now time.Time) float64 {
	if job.Deadline.IsZero() {
		return 0
	}
	left := job.Deadline.Sub(now)
	switch {
	case left < -24*time.Hour:
		return 0
	case left <= 3*24*time.Hour:
		return 3
	case left <= 7*24*time.Hour:
		return 2
	case left <= 14*24*time.Hour:
		return 1
	}
	return 0
}

func ComputeDataQuality(job Job) float64 {
	score := 0.0
	for _, s := range []string{job.Title, job.Department, job.Location, job.Qualification} {
		if strings.TrimSpace(s) != "" {
			score++
		}
	}
	if len(strings.TrimSpace(job.Description)) > 80 {
		score++
	}
	return score
}

func ScoreJob(job Job, queryVariants []string, now time.Time) JobScore {
	rel := ComputeRelevance(job, queryVariants)
	fresh := ComputeFreshness(job, now)
	urg := ComputeUrgency(job, now)
	qual := ComputeDataQuality(job)

	return JobScore{
		JobID:       job.ID,
		Relevance:   rel,
		Freshness:   fresh,
		Urgency:     urg,
		DataQuality: qual,
		FinalScore:  (rel * 2.0) + (fresh * 1.5) + (urg * 1.0) + (qual * 0.5),
	}
}

// RankJobs orders jobs by score, highest first. Ties keep their input order,
// and a slice where nothing scores is returned unchanged.
func RankJobs(jobs []Job, queryVariants []string, now time.Time) []Job {
	if len(jobs) == 0 {
		return jobs
	}

	type scored struct {
		idx   int
		score float64
	}
	all := make([]scored, len(jobs))
	maxScore := 0.0
	for i := range jobs {
		s := ScoreJob(jobs[i], queryVariants, now).FinalScore
		all[i] = scored{idx: i, score: s}
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return jobs
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].score > all[j].score
	})

	out := make([]Job, 0, len(jobs))
	for _, it := range all {
		out = append(out, jobs[it.idx])
	}
	return out
}
