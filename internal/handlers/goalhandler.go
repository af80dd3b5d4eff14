package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/services"
)

type GoalHandler struct {
	GoalService *services.GoalService
	log         logging.Logger
}

func NewGoalHandler(g *services.GoalService, log logging.Logger) *GoalHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &GoalHandler{GoalService: g, log: log}
}

func (h *GoalHandler) UpsertGoal(c *gin.Context) {
	var req dtos.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	goal, err := h.GoalService.UpsertGoal(c.Request.Context(), auth.OwnerID(c), *req.Month, *req.Year, *req.Target)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, goal, "")
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	var q dtos.GoalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "month and year are required", nil)
		return
	}

	goal, err := h.GoalService.GetGoal(c.Request.Context(), auth.OwnerID(c), *q.Month, *q.Year)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, goal, "")
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	var q dtos.GoalQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "month and year are required", nil)
		return
	}

	if err := h.GoalService.DeleteGoal(c.Request.Context(), auth.OwnerID(c), *q.Month, *q.Year); err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, nil, "Goal deleted")
}
