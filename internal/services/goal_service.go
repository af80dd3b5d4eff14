package services

import (
	"context"

	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

// GoalService manages monthly application targets. Months are zero-based.
type GoalService struct {
	goals store.GoalRepository
	log   logging.Logger
}

func NewGoalService(goals store.GoalRepository, log logging.Logger) *GoalService {
	if log == nil {
		log = logging.Nop()
	}
	return &GoalService{goals: goals, log: log}
}

func (s *GoalService) UpsertGoal(ctx context.Context, ownerID string, month, year, target int) (*models.Goal, error) {
	goal := &models.Goal{UserID: ownerID, Month: month, Year: year, Target: target}
	if vs := models.ValidateGoal(goal); len(vs) > 0 {
		return nil, validationError(vs)
	}

	saved, err := s.goals.Upsert(ctx, goal)
	if err != nil {
		s.log.Error(ctx, "failed to save goal", "owner", ownerID, "error", err)
		return nil, err
	}
	s.log.Info(ctx, "goal saved", "owner", ownerID, "month", month, "year", year, "target", target)
	return saved, nil
}

func (s *GoalService) GetGoal(ctx context.Context, ownerID string, month, year int) (*models.Goal, error) {
	if vs := models.ValidateGoal(&models.Goal{UserID: ownerID, Month: month, Year: year}); len(vs) > 0 {
		return nil, validationError(vs)
	}
	return s.goals.Find(ctx, ownerID, month, year)
}

func (s *GoalService) DeleteGoal(ctx context.Context, ownerID string, month, year int) error {
	if vs := models.ValidateGoal(&models.Goal{UserID: ownerID, Month: month, Year: year}); len(vs) > 0 {
		return validationError(vs)
	}
	return s.goals.Delete(ctx, ownerID, month, year)
}
