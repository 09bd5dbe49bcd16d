package dto

import (
	"time"

	"govtjobs/internal/domain/job"
	"govtjobs/internal/orglogo"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type JobResponse struct {
	ID               uuid.UUID    `json:"id"`
	Title            string       `json:"title"`
	Department       string       `json:"department"`
	Location         string       `json:"location"`
	Qualification    string       `json:"qualification"`
	Deadline         string       `json:"deadline"`
	ApplicationLink  string       `json:"applicationLink"`
	PostingDate      string       `json:"postingDate"`
	SourceURL        string       `json:"sourceUrl,omitempty"`
	Positions        *int         `json:"positions,omitempty"`
	Salary           *string      `json:"salary,omitempty"`
	AgeLimit         *string      `json:"ageLimit,omitempty"`
	Fee              *string      `json:"fee,omitempty"`
	Description      *string      `json:"description,omitempty"`
	SelectionProcess *string      `json:"selectionProcess,omitempty"`
	Logo             orglogo.Icon `json:"logo"`
}

// AdminJobResponse adds the bookkeeping fields hidden from the public board.
type AdminJobResponse struct {
	JobResponse
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type JobListResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

type AdminJobListResponse struct {
	Jobs       []AdminJobResponse `json:"jobs"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

type ApplyResponse struct {
	ApplicationID   uuid.UUID `json:"applicationId"`
	JobID           uuid.UUID `json:"jobId"`
	ApplicationLink string    `json:"applicationLink"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:               j.ID,
		Title:            j.Title,
		Department:       j.Department,
		Location:         j.Location,
		Qualification:    j.Qualification,
		Deadline:         formatDate(j.Deadline),
		ApplicationLink:  j.ApplicationLink,
		PostingDate:      formatDate(j.PostingDate),
		SourceURL:        j.SourceURL,
		Positions:        j.Positions,
		Salary:           j.Salary,
		AgeLimit:         j.AgeLimit,
		Fee:              j.Fee,
		Description:      j.Description,
		SelectionProcess: j.SelectionProcess,
		Logo:             orglogo.Classify(j.Department),
	}
}

func NewAdminJobResponse(j job.Job) AdminJobResponse {
	return AdminJobResponse{
		JobResponse: NewJobResponse(j),
		IsActive:    j.IsActive,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func NewJobListResponse(res job.SearchResult) JobListResponse {
	out := JobListResponse{
		Jobs:       make([]JobResponse, 0, len(res.Items)),
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
	for _, j := range res.Items {
		out.Jobs = append(out.Jobs, NewJobResponse(j))
	}
	return out
}

func NewAdminJobListResponse(res job.SearchResult) AdminJobListResponse {
	out := AdminJobListResponse{
		Jobs:       make([]AdminJobResponse, 0, len(res.Items)),
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
	for _, j := range res.Items {
		out.Jobs = append(out.Jobs, NewAdminJobResponse(j))
	}
	return out
}
