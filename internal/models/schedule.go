package models

import (
	"errors"
	"strings"
	"time"
)

const (
	ScheduleDateLayout = "2006-01-02"
	ScheduleTimeLayout = "15:04"
)

type ScheduleType string

const (
	ScheduleInterview ScheduleType = "interview"
	ScheduleFollowUp  ScheduleType = "follow-up"
	ScheduleDeadline  ScheduleType = "deadline"
	ScheduleReminder  ScheduleType = "reminder"
	ScheduleGeneral   ScheduleType = "general"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Schedule is a calendar entry (interview, follow-up, deadline...). DueDate
// and Date/Time describe the same instant and are kept in sync by SyncDue.
type Schedule struct {
	ID          string       `gorm:"primaryKey;size:24" json:"_id"`
	UserID      string       `gorm:"not null;index:idx_schedules_user_date,priority:1" json:"userId" validate:"required"`
	Title       string       `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Type        ScheduleType `gorm:"size:20;not null" json:"type" validate:"required,oneof=interview follow-up deadline reminder general"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Date        string       `gorm:"size:10;index:idx_schedules_user_date,priority:2" json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time        string       `gorm:"size:5;index:idx_schedules_user_date,priority:3" json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Description string       `gorm:"size:1000" json:"description,omitempty" validate:"max=1000"`
	Location    string       `gorm:"size:200" json:"location,omitempty" validate:"max=200"`
	JobID       string       `gorm:"size:24" json:"jobId,omitempty" validate:"omitempty,objectid"`
	Reminder    string       `gorm:"size:3" json:"reminder,omitempty" validate:"omitempty,oneof=15 30 60 120"`
	IsCompleted bool         `gorm:"not null" json:"isCompleted"`
	Priority    Priority     `gorm:"size:10;not null" json:"priority" validate:"required,oneof=low medium high"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (Schedule) TableName() string {
	return "schedules"
}

var ErrScheduleWithoutDate = errors.New("either dueDate or date is required")

func (s *Schedule) Normalize() {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Location = strings.TrimSpace(s.Location)
	s.Date = strings.TrimSpace(s.Date)
	s.Time = strings.TrimSpace(s.Time)
	s.JobID = strings.TrimSpace(s.JobID)
	s.Reminder = strings.TrimSpace(s.Reminder)
	if s.Priority == "" {
		s.Priority = PriorityLow
	}
}

// SyncDue fills whichever of DueDate or Date/Time is missing from the other
// (UTC). When both are given, DueDate wins.
func (s *Schedule) SyncDue() error {
	if s.DueDate != nil {
		due := s.DueDate.UTC()
		s.DueDate = &due
		s.Date = due.Format(ScheduleDateLayout)
		s.Time = due.Format(ScheduleTimeLayout)
		return nil
	}

	if s.Date == "" {
		return ErrScheduleWithoutDate
	}
	clock := s.Time
	if clock == "" {
		clock = "00:00"
	}
	due, err := time.ParseInLocation(ScheduleDateLayout+" "+ScheduleTimeLayout, s.Date+" "+clock, time.UTC)
	if err != nil {
		return err
	}
	s.Time = clock
	s.DueDate = &due
	return nil
}
