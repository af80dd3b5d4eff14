package memstore

import (
	"context"
	"sort"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type ScheduleRepository struct {
	s *Store
}

var _ store.ScheduleRepository = (*ScheduleRepository)(nil)

func errScheduleNotFound() error {
	return apperrors.NotFound("schedule not found", nil)
}

func (r *ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if s.ID == "" {
		s.ID = models.NewID()
	}
	s.CreatedAt = r.s.now()
	r.s.schedules[s.ID] = *s
	return nil
}

func (r *ScheduleRepository) List(ctx context.Context, ownerID string) ([]*models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Schedule{}
	for _, s := range r.s.schedules {
		s := s
		if s.UserID == ownerID {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		a, b := out[i], out[k]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *ScheduleRepository) SetCompleted(ctx context.Context, ownerID, id string, completed bool) (*models.Schedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s, ok := r.s.schedules[id]
	if !ok || s.UserID != ownerID {
		return nil, errScheduleNotFound()
	}
	s.IsCompleted = completed
	r.s.schedules[id] = s
	return &s, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s, ok := r.s.schedules[id]
	if !ok || s.UserID != ownerID {
		return errScheduleNotFound()
	}
	delete(r.s.schedules, id)
	return nil
}
