// Package store defines the persistence contracts used by the services.
// Implementations live in the mongostore, gormstore and memstore packages.
//
// Every method is scoped by the owner id: a record that belongs to another
// owner behaves exactly like a missing one. Implementations report a missing
// record with apperrors.NotFound and any backend failure with
// apperrors.Unavailable.
package store

import (
	"context"
	"time"

	"github.com/justsurfingit/job-tracker/internal/models"
)

// JobQuery selects a page of an owner's jobs. Status and Search are
// optional. Search is a literal, case-insensitive substring matched against
// title, company or location.
type JobQuery struct {
	OwnerID  string
	Status   models.Status
	Search   string
	SortBy   SortField
	SortDesc bool
	Skip     int64
	Limit    int64
}

type JobRepository interface {
	// Create assigns the id and timestamps and stores the job.
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, ownerID, id string) (*models.Job, error)
	// Find applies filter, sort, skip and limit in that order.
	Find(ctx context.Context, q JobQuery) ([]*models.Job, error)
	// Count ignores the sort and paging fields of q.
	Count(ctx context.Context, q JobQuery) (int64, error)
	CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int64, error)
	// Update replaces the editable fields of the owner's job with job's.
	Update(ctx context.Context, job *models.Job) (*models.Job, error)
	UpdateStatus(ctx context.Context, ownerID, id string, status models.Status, at time.Time) (*models.Job, error)
	Delete(ctx context.Context, ownerID, id string) error
	// DeleteMany deletes the listed jobs that belong to the owner and
	// returns how many were removed. Unknown ids are skipped.
	DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error)
}

type GoalRepository interface {
	// Upsert creates the owner's goal for the month or replaces its target.
	Upsert(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	Find(ctx context.Context, ownerID string, month, year int) (*models.Goal, error)
	// Delete is a no-op when the goal does not exist.
	Delete(ctx context.Context, ownerID string, month, year int) error
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *models.Schedule) error
	// List returns the owner's schedules ordered by date then time.
	List(ctx context.Context, ownerID string) ([]*models.Schedule, error)
	SetCompleted(ctx context.Context, ownerID, id string, completed bool) (*models.Schedule, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Store is an open connection to one backend.
type Store interface {
	Jobs() JobRepository
	Goals() GoalRepository
	Schedules() ScheduleRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
