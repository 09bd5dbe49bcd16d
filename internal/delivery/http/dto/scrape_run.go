package dto

import (
	"time"

	"govtjobs/internal/repository"
)

type ScrapeRunResponse struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"startedAt"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
	JobsUpserted int        `json:"jobsUpserted"`
	Errors       int        `json:"errors"`
}

func NewScrapeRunResponses(runs []repository.ScrapeRun) []ScrapeRunResponse {
	out := make([]ScrapeRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, ScrapeRunResponse{
			ID:           r.ID.String(),
			Source:       r.Source,
			Status:       r.Status,
			StartedAt:    r.StartedAt,
			FinishedAt:   r.FinishedAt,
			JobsUpserted: r.JobsUpserted,
			Errors:       r.Errors,
		})
	}
	return out
}
