package models

import "time"

// Goal is an owner's target number of applications for one month.
// Month is zero-based (0 = January).
type Goal struct {
	ID        string    `gorm:"primaryKey;size:24" json:"_id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_goals_user_month,priority:1" json:"userId" validate:"required"`
	Target    int       `gorm:"not null" json:"target" validate:"gte=0"`
	Month     int       `gorm:"not null;uniqueIndex:idx_goals_user_month,priority:2" json:"month" validate:"gte=0,lte=11"`
	Year      int       `gorm:"not null;uniqueIndex:idx_goals_user_month,priority:3" json:"year" validate:"gte=1970,lte=9999"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Goal) TableName() string {
	return "goals"
}
