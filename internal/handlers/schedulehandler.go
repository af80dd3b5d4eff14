package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/services"
)

type ScheduleHandler struct {
	ScheduleService *services.ScheduleService
	log             logging.Logger
}

func NewScheduleHandler(s *services.ScheduleService, log logging.Logger) *ScheduleHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &ScheduleHandler{ScheduleService: s, log: log}
}

func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dtos.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	s, err := h.ScheduleService.CreateSchedule(c.Request.Context(), auth.OwnerID(c), req.Input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusCreated, s, "")
}

func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	list, err := h.ScheduleService.ListSchedules(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, list, "")
}

// SetCompleted is PATCH /api/schedules/:id
func (h *ScheduleHandler) SetCompleted(c *gin.Context) {
	var req dtos.ScheduleCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	s, err := h.ScheduleService.SetScheduleCompleted(c.Request.Context(), auth.OwnerID(c), c.Param("id"), *req.IsCompleted)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, s, "")
}

func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.ScheduleService.DeleteSchedule(c.Request.Context(), auth.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, nil, "Schedule deleted")
}
