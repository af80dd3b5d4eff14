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

type ScheduleRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ store.ScheduleRepository = (*ScheduleRepository)(nil)

func (r *ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	s.ID = models.NewID()
	s.CreatedAt = r.now()
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return translate(err, "schedule")
	}
	return nil
}

func (r *ScheduleRepository) List(ctx context.Context, ownerID string) ([]*models.Schedule, error) {
	out := []*models.Schedule{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "date"}},
			{Column: clause.Column{Name: "time"}},
		}}).
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "schedule")
	}
	return out, nil
}

func (r *ScheduleRepository) SetCompleted(ctx context.Context, ownerID, id string, completed bool) (*models.Schedule, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("is_completed", completed)
	if res.Error != nil {
		return nil, translate(res.Error, "schedule")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("schedule not found", nil)
	}

	var s models.Schedule
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&s).Error; err != nil {
		return nil, translate(err, "schedule")
	}
	return &s, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Schedule{})
	if res.Error != nil {
		return translate(res.Error, "schedule")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("schedule not found", nil)
	}
	return nil
}
