package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
)

// ListJobsParams holds the raw listing parameters. Zero values select the
// defaults.
type ListJobsParams struct {
	OwnerID   string
	Page      int64
	Limit     int64
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

type JobPage struct {
	Jobs          []*models.Job
	TotalMatching int64
	PagesTotal    int64
	Page          int64
	Limit         int64
}

// JobInput carries the editable fields of a job. The owner is never part of
// it.
type JobInput struct {
	Title       string
	Company     string
	Location    string
	Salary      string
	Status      models.Status
	AppliedDate *time.Time
	Notes       string
	JobURL      string
}

type JobService struct {
	jobs store.JobRepository
	log  logging.Logger
	now  func() time.Time
}

func NewJobService(jobs store.JobRepository, log logging.Logger) *JobService {
	if log == nil {
		log = logging.Nop()
	}
	return &JobService{
		jobs: jobs,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source used for status transitions and
// default applied dates.
func (s *JobService) SetClock(now func() time.Time) {
	s.now = now
}

func normalizePaging(page, limit int64) (int64, int64) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// keeps (page-1)*limit within int64
	if maxPage := math.MaxInt64 / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// buildQuery turns the raw parameters into a store query. An unknown status
// filter is dropped rather than rejected.
func buildQuery(p ListJobsParams) store.JobQuery {
	q := store.JobQuery{
		OwnerID:  p.OwnerID,
		Search:   strings.TrimSpace(p.Search),
		SortBy:   store.DefaultSortField(),
		SortDesc: true,
	}
	if status, ok := models.ParseStatus(strings.TrimSpace(p.Status)); ok {
		q.Status = status
	}
	if field, ok := store.LookupSortField(strings.TrimSpace(p.SortBy)); ok {
		q.SortBy = field
	}
	if order := strings.TrimSpace(p.SortOrder); order != "" && order != "desc" {
		q.SortDesc = false
	}
	return q
}

func (s *JobService) ListJobs(ctx context.Context, p ListJobsParams) (*JobPage, error) {
	if p.OwnerID == "" {
		return nil, apperrors.Unauthorized("owner is required", nil)
	}

	page, limit := normalizePaging(p.Page, p.Limit)
	q := buildQuery(p)
	q.Skip = (page - 1) * limit
	q.Limit = limit

	jobs, err := s.jobs.Find(ctx, q)
	if err != nil {
		s.log.Error(ctx, "failed to list jobs", "owner", p.OwnerID, "error", err)
		return nil, err
	}
	total, err := s.jobs.Count(ctx, q)
	if err != nil {
		s.log.Error(ctx, "failed to count jobs", "owner", p.OwnerID, "error", err)
		return nil, err
	}

	return &JobPage{
		Jobs:          jobs,
		TotalMatching: total,
		PagesTotal:    (total + limit - 1) / limit,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *JobService) Stats(ctx context.Context, ownerID string) (models.JobStats, error) {
	counts, err := s.jobs.CountByStatus(ctx, ownerID)
	if err != nil {
		s.log.Error(ctx, "failed to aggregate job stats", "owner", ownerID, "error", err)
		return models.JobStats{}, err
	}
	return models.NewJobStats(counts), nil
}

func (s *JobService) UpdateStatus(ctx context.Context, ownerID, id, rawStatus string) (*models.Job, error) {
	status, ok := models.ParseStatus(rawStatus)
	if !ok {
		return nil, apperrors.InvalidInput("Valid status is required", nil).
			WithDetails(map[string]any{"allowed": models.Statuses})
	}
	id, err := parseID(id, "job")
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.UpdateStatus(ctx, ownerID, id, status, s.now())
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "job status updated", "owner", ownerID, "id", id, "status", status)
	return job, nil
}

// DeleteJobs removes every listed job the owner holds. A single malformed
// id rejects the whole request.
func (s *JobService) DeleteJobs(ctx context.Context, ownerID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.InvalidInput("Job IDs array is required", nil)
	}

	var invalid []string
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		if !models.IsValidID(id) {
			invalid = append(invalid, id)
			continue
		}
		normalized = append(normalized, strings.ToLower(id))
	}
	if len(invalid) > 0 {
		return 0, apperrors.InvalidInput("Invalid job ID format", nil).
			WithDetails(map[string]any{"invalidIds": invalid})
	}

	n, err := s.jobs.DeleteMany(ctx, ownerID, normalized)
	if err != nil {
		s.log.Error(ctx, "failed to delete jobs", "owner", ownerID, "error", err)
		return 0, err
	}
	s.log.Info(ctx, "jobs deleted", "owner", ownerID, "requested", len(ids), "deleted", n)
	return n, nil
}

func (s *JobService) CreateJob(ctx context.Context, ownerID string, in JobInput) (*models.Job, error) {
	job := s.fromInput(ownerID, in)
	if vs := models.ValidateJob(job); len(vs) > 0 {
		return nil, validationError(vs)
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		s.log.Error(ctx, "failed to create job", "owner", ownerID, "error", err)
		return nil, err
	}
	s.log.Info(ctx, "job created", "owner", ownerID, "id", job.ID)
	return job, nil
}

func (s *JobService) GetJob(ctx context.Context, ownerID, id string) (*models.Job, error) {
	id, err := parseID(id, "job")
	if err != nil {
		return nil, err
	}
	return s.jobs.FindByID(ctx, ownerID, id)
}

func (s *JobService) UpdateJob(ctx context.Context, ownerID, id string, in JobInput) (*models.Job, error) {
	id, err := parseID(id, "job")
	if err != nil {
		return nil, err
	}

	job := s.fromInput(ownerID, in)
	job.ID = id
	if vs := models.ValidateJob(job); len(vs) > 0 {
		return nil, validationError(vs)
	}

	// fields left out of the body keep their stored value
	if in.AppliedDate == nil || in.Status == "" {
		cur, err := s.jobs.FindByID(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		if in.AppliedDate == nil {
			job.AppliedDate = cur.AppliedDate
		}
		if in.Status == "" {
			job.Status = cur.Status
		}
	}

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "job updated", "owner", ownerID, "id", id)
	return updated, nil
}

func (s *JobService) DeleteJob(ctx context.Context, ownerID, id string) error {
	id, err := parseID(id, "job")
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Info(ctx, "job deleted", "owner", ownerID, "id", id)
	return nil
}

func (s *JobService) fromInput(ownerID string, in JobInput) *models.Job {
	job := &models.Job{
		UserID:   ownerID,
		Title:    in.Title,
		Company:  in.Company,
		Location: in.Location,
		Salary:   in.Salary,
		Status:   in.Status,
		Notes:    in.Notes,
		JobURL:   in.JobURL,
	}
	job.Normalize()

	if job.Status == "" {
		job.Status = models.StatusApplied
	}
	if in.AppliedDate != nil && !in.AppliedDate.IsZero() {
		job.AppliedDate = in.AppliedDate.UTC()
	} else {
		job.AppliedDate = s.now()
	}
	return job
}
