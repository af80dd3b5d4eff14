package dtos

import (
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/services"
)

type ScheduleRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	DueDate     *Date  `json:"dueDate"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location"`
	JobID       string `json:"jobId"`
	Reminder    string `json:"reminder"`
	Priority    string `json:"priority"`
}

func (r *ScheduleRequest) Input() services.ScheduleInput {
	in := services.ScheduleInput{
		Title:       r.Title,
		Type:        models.ScheduleType(r.Type),
		Date:        r.Date,
		Time:        r.Time,
		Description: r.Description,
		Location:    r.Location,
		JobID:       r.JobID,
		Reminder:    r.Reminder,
		Priority:    models.Priority(r.Priority),
	}
	if r.DueDate != nil && !r.DueDate.IsZero() {
		t := r.DueDate.Time
		in.DueDate = &t
	}
	return in
}

type ScheduleCompletionRequest struct {
	IsCompleted *bool `json:"isCompleted" binding:"required"`
}
