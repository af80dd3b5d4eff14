package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/job-tracker/internal/apperrors"
	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type JobRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ store.JobRepository = (*JobRepository)(nil)

func (r *JobRepository) scoped(ctx context.Context, q store.JobQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Job{}).Where("user_id = ?", q.OwnerID)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		p := containsPattern(q.Search)
		tx = tx.Where("(title ILIKE ? OR company ILIKE ? OR location ILIKE ?)", p, p, p)
	}
	return tx
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	now := r.now()
	job.ID = models.NewID()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.AppliedDate = job.AppliedDate.UTC()

	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return translate(err, "job")
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, ownerID, id string) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&job).Error
	if err != nil {
		return nil, translate(err, "job")
	}
	return &job, nil
}

func (r *JobRepository) Find(ctx context.Context, q store.JobQuery) ([]*models.Job, error) {
	col := q.Sort().Column
	tx := r.scoped(ctx, q).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: q.SortDesc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.SortDesc}).
		Offset(int(q.Skip))
	if q.Limit > 0 {
		tx = tx.Limit(int(q.Limit))
	}

	jobs := []*models.Job{}
	if err := tx.Find(&jobs).Error; err != nil {
		return nil, translate(err, "job")
	}
	return jobs, nil
}

func (r *JobRepository) Count(ctx context.Context, q store.JobQuery) (int64, error) {
	var n int64
	if err := r.scoped(ctx, q).Count(&n).Error; err != nil {
		return 0, translate(err, "job")
	}
	return n, nil
}

func (r *JobRepository) CountByStatus(ctx context.Context, ownerID string) (map[models.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Select("status, count(*) AS count").
		Where("user_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "job")
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[models.Status(row.Status)] += row.Count
	}
	return counts, nil
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	return r.update(ctx, job.UserID, job.ID, map[string]any{
		"title":        job.Title,
		"company":      job.Company,
		"location":     job.Location,
		"salary":       job.Salary,
		"status":       job.Status,
		"applied_date": job.AppliedDate.UTC(),
		"notes":        job.Notes,
		"job_url":      job.JobURL,
		"updated_at":   r.now(),
	})
}

func (r *JobRepository) UpdateStatus(ctx context.Context, ownerID, id string, status models.Status, at time.Time) (*models.Job, error) {
	return r.update(ctx, ownerID, id, map[string]any{
		"status":     status,
		"updated_at": at.UTC(),
	})
}

func (r *JobRepository) update(ctx context.Context, ownerID, id string, values map[string]any) (*models.Job, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(values)
	if res.Error != nil {
		return nil, translate(res.Error, "job")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("job not found", nil)
	}
	return r.FindByID(ctx, ownerID, id)
}

func (r *JobRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Job{})
	if res.Error != nil {
		return translate(res.Error, "job")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("job not found", nil)
	}
	return nil
}

func (r *JobRepository) DeleteMany(ctx context.Context, ownerID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Delete(&models.Job{})
	if res.Error != nil {
		return 0, translate(res.Error, "job")
	}
	return res.RowsAffected, nil
}
