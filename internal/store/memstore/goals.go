package memstore

import (
	"context"
	"fmt"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type GoalRepository struct {
	s *Store
}

var _ store.GoalRepository = (*GoalRepository)(nil)

func goalKey(ownerID string, month, year int) string {
	return fmt.Sprintf("%s/%04d-%02d", ownerID, year, month)
}

func (r *GoalRepository) Upsert(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := goalKey(goal.UserID, goal.Month, goal.Year)
	now := r.s.now()

	g, ok := r.s.goals[key]
	if !ok {
		g = models.Goal{
			ID:        models.NewID(),
			UserID:    goal.UserID,
			Month:     goal.Month,
			Year:      goal.Year,
			CreatedAt: now,
		}
	}
	g.Target = goal.Target
	g.UpdatedAt = now
	r.s.goals[key] = g

	return &g, nil
}

func (r *GoalRepository) Find(ctx context.Context, ownerID string, month, year int) (*models.Goal, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.goals[goalKey(ownerID, month, year)]
	if !ok {
		return nil, apperrors.NotFound("goal not found", nil)
	}
	return &g, nil
}

func (r *GoalRepository) Delete(ctx context.Context, ownerID string, month, year int) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.goals, goalKey(ownerID, month, year))
	return nil
}
