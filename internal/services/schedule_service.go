package services

import (
	"context"
	"time"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type ScheduleInput struct {
	Title       string
	Type        models.ScheduleType
	DueDate     *time.Time
	Date        string
	Time        string
	Description string
	Location    string
	JobID       string
	Reminder    string
	Priority    models.Priority
}

type ScheduleService struct {
	schedules store.ScheduleRepository
	log       logging.Logger
}

func NewScheduleService(schedules store.ScheduleRepository, log logging.Logger) *ScheduleService {
	if log == nil {
		log = logging.Nop()
	}
	return &ScheduleService{schedules: schedules, log: log}
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, ownerID string, in ScheduleInput) (*models.Schedule, error) {
	sched := &models.Schedule{
		UserID:      ownerID,
		Title:       in.Title,
		Type:        in.Type,
		DueDate:     in.DueDate,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
		Location:    in.Location,
		JobID:       in.JobID,
		Reminder:    in.Reminder,
		Priority:    in.Priority,
	}
	sched.Normalize()

	if vs := models.ValidateSchedule(sched); len(vs) > 0 {
		return nil, validationError(vs)
	}
	if err := sched.SyncDue(); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	if err := s.schedules.Create(ctx, sched); err != nil {
		s.log.Error(ctx, "failed to create schedule", "owner", ownerID, "error", err)
		return nil, err
	}
	s.log.Info(ctx, "schedule created", "owner", ownerID, "id", sched.ID, "type", sched.Type)
	return sched, nil
}

func (s *ScheduleService) ListSchedules(ctx context.Context, ownerID string) ([]*models.Schedule, error) {
	return s.schedules.List(ctx, ownerID)
}

func (s *ScheduleService) SetScheduleCompleted(ctx context.Context, ownerID, id string, completed bool) (*models.Schedule, error) {
	id, err := parseID(id, "schedule")
	if err != nil {
		return nil, err
	}
	return s.schedules.SetCompleted(ctx, ownerID, id, completed)
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, ownerID, id string) error {
	id, err := parseID(id, "schedule")
	if err != nil {
		return err
	}
	return s.schedules.Delete(ctx, ownerID, id)
}
