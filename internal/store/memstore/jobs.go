package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type JobRepository struct {
	s *Store
}

var _ store.JobRepository = (*JobRepository)(nil)

func errJobNotFound() error {
	return apperrors.NotFound("job not found", nil)
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if job.ID == "" {
		job.ID = models.NewID()
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	r.s.jobs[job.ID] = *job
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, ownerID, id string) (*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	j, ok := r.s.jobs[id]
	if !ok || j.UserID != ownerID {
		return nil, errJobNotFound()
	}
	return &j, nil
}

func matches(j *models.Job, q store.JobQuery) bool {
	if j.UserID != q.OwnerID {
		return false
	}
	if q.Status != "" && j.Status != q.Status {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(j.Title), needle) &&
			!strings.Contains(strings.ToLower(j.Company), needle) &&
			!strings.Contains(strings.ToLower(j.Location), needle) {
			return false
		}
	}
	return true
}

func less(a, b *models.Job, field string) bool {
	switch field {
	case "updatedAt":
		return a.UpdatedAt.Before(b.UpdatedAt)
	case "appliedDate":
		return a.AppliedDate.Before(b.AppliedDate)
	case "title":
		return a.Title < b.Title
	case "company":
		return a.Company < b.Company
	case "location":
		return a.Location < b.Location
	case "salary":
		return a.Salary < b.Salary
	case "status":
		return a.Status < b.Status
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (r *JobRepository) filtered(q store.JobQuery) []*models.Job {
	var out []*models.Job
	for _, j := range r.s.jobs {
		j := j
		if matches(&j, q) {
			out = append(out, &j)
		}
	}
	return out
}

func (r *JobRepository) Find(ctx context.Context, q store.JobQuery) ([]*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	jobs := r.filtered(q)

	// map iteration is random; order by id first so ties are stable
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].ID < jobs[k].ID })
	field := q.Sort().Field
	sort.SliceStable(jobs, func(i, k int) bool {
		if q.SortDesc {
			return less(jobs[k], jobs[i], field)
		}
		return less(jobs[i], jobs[k], field)
	})

	skip := q.Skip
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(jobs)) {
		return []*models.Job{}, nil
	}
	jobs = jobs[skip:]
	if q.Limit > 0 && int64(len(jobs)) > q.Limit {
		jobs = jobs[:q.Limit]
	}
	return jobs, nil
}

func (r *JobRepository) Count(ctx context.Context, q store.JobQuery) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.filtered(q))), nil
}

func (r *JobRepository) CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[models.Status]int64)
	for _, j := range r.s.jobs {
		if j.UserID == ownerID {
			counts[j.Status]++
		}
	}
	return counts, nil
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.jobs[job.ID]
	if !ok || cur.UserID != job.UserID {
		return nil, errJobNotFound()
	}

	cur.Title = job.Title
	cur.Company = job.Company
	cur.Location = job.Location
	cur.Salary = job.Salary
	cur.Status = job.Status
	cur.AppliedDate = job.AppliedDate
	cur.Notes = job.Notes
	cur.JobURL = job.JobURL
	cur.UpdatedAt = r.s.now()
	r.s.jobs[cur.ID] = cur

	return &cur, nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, ownerID, id string, status models.Status, at time.Time) (*models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.jobs[id]
	if !ok || cur.UserID != ownerID {
		return nil, errJobNotFound()
	}
	cur.Status = status
	cur.UpdatedAt = at
	r.s.jobs[id] = cur

	return &cur, nil
}

func (r *JobRepository) Delete(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.jobs[id]
	if !ok || cur.UserID != ownerID {
		return errJobNotFound()
	}
	delete(r.s.jobs, id)
	return nil
}

func (r *JobRepository) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.Unavailable("store unavailable", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, id := range ids {
		// ids are matched case-insensitively, like ObjectIDs
		id = strings.ToLower(id)
		if cur, ok := r.s.jobs[id]; ok && cur.UserID == ownerID {
			delete(r.s.jobs, id)
			n++
		}
	}
	return n, nil
}
