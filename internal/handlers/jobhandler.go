package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-tracker/internal/auth"
	"github.com/justsurfingit/job-tracker/internal/dtos"
	"github.com/justsurfingit/job-tracker/internal/logging"
	"github.com/justsurfingit/job-tracker/internal/services"
)

type JobHandler struct {
	LLMService *services.LLMService
	JobService *services.JobService
	log        logging.Logger
	now        func() time.Time
}

func NewJobHandler(llm *services.LLMService, j *services.JobService, log logging.Logger) *JobHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &JobHandler{
		LLMService: llm,
		JobService: j,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// queryInt reads an integer query parameter. Anything unparsable counts as
// absent and falls back to the service default.
func queryInt(c *gin.Context, key string) int64 {
	n, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ListJobs is GET /api/jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, err := h.JobService.ListJobs(c.Request.Context(), services.ListJobsParams{
		OwnerID:   auth.OwnerID(c),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Data:       dtos.NewJobResponses(page.Jobs, h.now()),
		Pagination: dtos.NewPagination(page),
	})
}

// Stats is GET /api/jobs/stats
func (h *JobHandler) Stats(c *gin.Context) {
	stats, err := h.JobService.Stats(c.Request.Context(), auth.OwnerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, stats, "")
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.JobService.GetJob(c.Request.Context(), auth.OwnerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, dtos.NewJobResponse(job, h.now()), "")
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	job, err := h.JobService.CreateJob(c.Request.Context(), auth.OwnerID(c), req.Input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusCreated, dtos.NewJobResponse(job, h.now()), "Job application created successfully")
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	job, err := h.JobService.UpdateJob(c.Request.Context(), auth.OwnerID(c), c.Param("id"), req.Input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, dtos.NewJobResponse(job, h.now()), "Job application updated successfully")
}

// UpdateStatus is PATCH /api/jobs/:id/status
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	var req dtos.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	job, err := h.JobService.UpdateStatus(c.Request.Context(), auth.OwnerID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, dtos.NewJobResponse(job, h.now()), "Job status updated successfully")
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.JobService.DeleteJob(c.Request.Context(), auth.OwnerID(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, nil, "Job application deleted successfully")
}

// DeleteJobs is DELETE /api/jobs with a {"jobIds": [...]} body.
func (h *JobHandler) DeleteJobs(c *gin.Context) {
	var req dtos.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	n, err := h.JobService.DeleteJobs(c.Request.Context(), auth.OwnerID(c), req.JobIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"deletedCount": n}, fmt.Sprintf("%d job(s) deleted successfully", n))
}

// ParseJob is the POST /api/jobs/extract endpoint
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	draft, err := h.LLMService.ExtractJobDraft(c.Request.Context(), req.RawHTML, req.URL)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	ok(c, http.StatusOK, draft, "")
}
