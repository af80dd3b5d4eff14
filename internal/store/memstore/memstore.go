// Package memstore keeps every record in process memory. It backs the
// "memory" driver used for local development and the service tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

// Store is safe for concurrent use; all repositories share one lock.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]models.Job
	goals     map[string]models.Goal
	schedules map[string]models.Schedule
	now       func() time.Time

	jobRepo      *JobRepository
	goalRepo     *GoalRepository
	scheduleRepo *ScheduleRepository
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	s := &Store{
		jobs:      make(map[string]models.Job),
		goals:     make(map[string]models.Goal),
		schedules: make(map[string]models.Schedule),
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.jobRepo = &JobRepository{s: s}
	s.goalRepo = &GoalRepository{s: s}
	s.scheduleRepo = &ScheduleRepository{s: s}
	return s
}

// SetClock overrides the time source used for store-managed timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Jobs() store.JobRepository           { return s.jobRepo }
func (s *Store) Goals() store.GoalRepository         { return s.goalRepo }
func (s *Store) Schedules() store.ScheduleRepository { return s.scheduleRepo }

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(context.Context) error {
	return nil
}
