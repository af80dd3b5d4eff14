package dtos

import (
	"time"

	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/services"
)

// JobRequest is the body of create and full-update calls. The owner is taken
// from the session, never from the body.
type JobRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Status      string `json:"status"`
	AppliedDate *Date  `json:"appliedDate"`
	Notes       string `json:"notes"`
	JobURL      string `json:"jobUrl"`
}

func (r *JobRequest) Input() services.JobInput {
	in := services.JobInput{
		Title:    r.Title,
		Company:  r.Company,
		Location: r.Location,
		Salary:   r.Salary,
		Status:   models.Status(r.Status),
		Notes:    r.Notes,
		JobURL:   r.JobURL,
	}
	if r.AppliedDate != nil {
		t := r.AppliedDate.Time
		in.AppliedDate = &t
	}
	return in
}

type StatusRequest struct {
	Status string `json:"status"`
}

type BulkDeleteRequest struct {
	JobIDs []string `json:"jobIds"`
}

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

// JobResponse is a job as clients see it. The id is published both as "_id"
// and "id".
type JobResponse struct {
	ID               string        `json:"_id"`
	IDAlias          string        `json:"id"`
	UserID           string        `json:"userId"`
	Title            string        `json:"title"`
	Company          string        `json:"company"`
	Location         string        `json:"location,omitempty"`
	Salary           string        `json:"salary,omitempty"`
	Status           models.Status `json:"status"`
	AppliedDate      time.Time     `json:"appliedDate"`
	Notes            string        `json:"notes,omitempty"`
	JobURL           string        `json:"jobUrl,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	DaysSinceApplied int           `json:"daysSinceApplied"`
}

func NewJobResponse(j *models.Job, now time.Time) JobResponse {
	return JobResponse{
		ID:               j.ID,
		IDAlias:          j.ID,
		UserID:           j.UserID,
		Title:            j.Title,
		Company:          j.Company,
		Location:         j.Location,
		Salary:           j.Salary,
		Status:           j.Status,
		AppliedDate:      j.AppliedDate.UTC(),
		Notes:            j.Notes,
		JobURL:           j.JobURL,
		CreatedAt:        j.CreatedAt.UTC(),
		UpdatedAt:        j.UpdatedAt.UTC(),
		DaysSinceApplied: j.DaysSinceApplied(now),
	}
}

func NewJobResponses(jobs []*models.Job, now time.Time) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j, now))
	}
	return out
}

// Pagination mirrors the listing metadata clients already consume.
type Pagination struct {
	Current   int64 `json:"current"`
	Total     int64 `json:"total"`
	Count     int   `json:"count"`
	TotalJobs int64 `json:"totalJobs"`
}

func NewPagination(p *services.JobPage) *Pagination {
	return &Pagination{
		Current:   p.Page,
		Total:     p.PagesTotal,
		Count:     len(p.Jobs),
		TotalJobs: p.TotalMatching,
	}
}
