package dto

import (
	"errors"
	"strings"
	"time"

	"govtjobs/internal/usecase"
)

var ErrInvalidDate = errors.New("dates must use YYYY-MM-DD")

// JobRequest is the admin create/update payload. Omitted fields stay nil so
// an update only touches what the client sent.
type JobRequest struct {
	Title            *string `json:"title"`
	Department       *string `json:"department"`
	Location         *string `json:"location"`
	Qualification    *string `json:"qualification"`
	ApplicationLink  *string `json:"applicationLink"`
	SourceURL        *string `json:"sourceUrl"`
	Deadline         *string `json:"deadline"`
	PostingDate      *string `json:"postingDate"`
	Positions        *int    `json:"positions"`
	Salary           *string `json:"salary"`
	AgeLimit         *string `json:"ageLimit"`
	Fee              *string `json:"fee"`
	Description      *string `json:"description"`
	SelectionProcess *string `json:"selectionProcess"`
	IsActive         *bool   `json:"isActive"`
}

func (r JobRequest) ToInput() (usecase.JobInput, error) {
	in := usecase.JobInput{
		Title:            r.Title,
		Department:       r.Department,
		Location:         r.Location,
		Qualification:    r.Qualification,
		ApplicationLink:  r.ApplicationLink,
		SourceURL:        r.SourceURL,
		Positions:        r.Positions,
		Salary:           r.Salary,
		AgeLimit:         r.AgeLimit,
		Fee:              r.Fee,
		Description:      r.Description,
		SelectionProcess: r.SelectionProcess,
		IsActive:         r.IsActive,
	}
	var err error
	if in.Deadline, err = parseDate(r.Deadline); err != nil {
		return usecase.JobInput{}, err
	}
	if in.PostingDate, err = parseDate(r.PostingDate); err != nil {
		return usecase.JobInput{}, err
	}
	return in, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
