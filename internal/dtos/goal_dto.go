package dtos

// GoalRequest carries a monthly target. Month is zero-based.
type GoalRequest struct {
	Target *int `json:"target" binding:"required"`
	Month  *int `json:"month" binding:"required"`
	Year   *int `json:"year" binding:"required"`
}

// GoalQuery selects a goal by month and year.
type GoalQuery struct {
	Month *int `form:"month" binding:"required"`
	Year  *int `form:"year" binding:"required"`
}
