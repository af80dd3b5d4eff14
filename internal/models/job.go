package models

import (
	"math"
	"strings"
	"time"
)

type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
)

// Statuses lists every valid job status in display order.
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// ParseStatus reports whether raw names one of the job statuses.
func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	return s, s.Valid()
}

// Job is a single tracked job application. UserID is the owner and never
// changes after creation.
type Job struct {
	ID          string    `gorm:"primaryKey;size:24" json:"_id"`
	UserID      string    `gorm:"not null;index:idx_jobs_user_created,priority:1;index:idx_jobs_user_status,priority:1;index:idx_jobs_user_company,priority:1" json:"userId" validate:"required"`
	Title       string    `gorm:"size:100;not null" json:"title" validate:"required,max=100"`
	Company     string    `gorm:"size:100;not null;index:idx_jobs_user_company,priority:2" json:"company" validate:"required,max=100"`
	Location    string    `gorm:"size:100" json:"location,omitempty" validate:"max=100"`
	Salary      string    `gorm:"size:50" json:"salary,omitempty" validate:"max=50"`
	Status      Status    `gorm:"size:20;not null;index:idx_jobs_user_status,priority:2" json:"status" validate:"required,jobstatus"`
	AppliedDate time.Time `gorm:"not null" json:"appliedDate" validate:"required"`
	Notes       string    `gorm:"size:1000" json:"notes,omitempty" validate:"max=1000"`
	JobURL      string    `gorm:"column:job_url" json:"jobUrl,omitempty" validate:"joburl"`
	CreatedAt   time.Time `gorm:"index:idx_jobs_user_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Job) TableName() string {
	return "job_applications"
}

// Normalize trims every text field. Optional fields left empty are treated
// as unset by the stores.
func (j *Job) Normalize() {
	j.Title = strings.TrimSpace(j.Title)
	j.Company = strings.TrimSpace(j.Company)
	j.Location = strings.TrimSpace(j.Location)
	j.Salary = strings.TrimSpace(j.Salary)
	j.Notes = strings.TrimSpace(j.Notes)
	j.JobURL = strings.TrimSpace(j.JobURL)
}

// DaysSinceApplied is the number of started days between the applied date
// and now.
func (j *Job) DaysSinceApplied(now time.Time) int {
	diff := now.Sub(j.AppliedDate)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// JobStats counts an owner's jobs per status. The "offer" status is
// reported under the "offers" key.
type JobStats struct {
	Total        int64 `json:"total"`
	Applied      int64 `json:"applied"`
	Interviewing int64 `json:"interviewing"`
	Offers       int64 `json:"offers"`
	Rejected     int64 `json:"rejected"`
}

// NewJobStats folds per-status counts into the public shape. Counts for
// unknown statuses are dropped so that Total always equals the bucket sum.
func NewJobStats(counts map[Status]int64) JobStats {
	var s JobStats
	for status, n := range counts {
		switch status {
		case StatusApplied:
			s.Applied += n
		case StatusInterviewing:
			s.Interviewing += n
		case StatusOffer:
			s.Offers += n
		case StatusRejected:
			s.Rejected += n
		default:
			continue
		}
		s.Total += n
	}
	return s
}
