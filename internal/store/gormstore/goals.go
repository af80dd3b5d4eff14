package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/justsurfingit/job-tracker/internal/models"
	"github.com/justsurfingit/job-tracker/internal/store"
)

type GoalRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ store.GoalRepository = (*GoalRepository)(nil)

func (r *GoalRepository) Upsert(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	now := r.now()
	row := models.Goal{
		ID:        models.NewID(),
		UserID:    goal.UserID,
		Target:    goal.Target,
		Month:     goal.Month,
		Year:      goal.Year,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"target", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, translate(err, "goal")
	}
	return r.Find(ctx, goal.UserID, goal.Month, goal.Year)
}

func (r *GoalRepository) Find(ctx context.Context, ownerID string, month, year int) (*models.Goal, error) {
	var g models.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", ownerID, month, year).
		First(&g).Error
	if err != nil {
		return nil, translate(err, "goal")
	}
	return &g, nil
}

func (r *GoalRepository) Delete(ctx context.Context, ownerID string, month, year int) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ? AND year = ?", ownerID, month, year).
		Delete(&models.Goal{}).Error
	return translate(err, "goal")
}
