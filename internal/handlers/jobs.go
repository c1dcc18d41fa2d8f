package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/services"
)

type JobsHandler struct {
	jobs     services.GenerationJobService
	jobsRepo repos.GenerationJobRepo
}

func NewJobsHandler(jobs services.GenerationJobService, jobsRepo repos.GenerationJobRepo) *JobsHandler {
	return &JobsHandler{jobs: jobs, jobsRepo: jobsRepo}
}

type enqueueJobRequest struct {
	CharacterID string         `json:"character_id" binding:"required"`
	Kind        string         `json:"kind" binding:"required"`
	Params      map[string]any `json:"params"`
}

// POST /api/jobs
func (h *JobsHandler) Enqueue(c *gin.Context) {
	var req enqueueJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	characterID, err := uuid.Parse(req.CharacterID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
		return
	}
	job, err := h.jobs.Enqueue(c.Request.Context(), characterID, req.Kind, req.Params)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "job_enqueue_failed", err)
		return
	}
	RespondOK(c, gin.H{"job": job})
}

// GET /api/jobs/:id
func (h *JobsHandler) GetByID(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	job, err := h.jobsRepo.GetByID(c.Request.Context(), nil, jobID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "job_load_failed", err)
		return
	}
	if job == nil {
		RespondError(c, http.StatusNotFound, "job_not_found", nil)
		return
	}
	RespondOK(c, gin.H{"job": job})
}

// GET /api/jobs?kind=&limit=
func (h *JobsHandler) ListRecent(c *gin.Context) {
	limit := 50
	jobs, err := h.jobs.ListRecent(c.Request.Context(), c.Query("kind"), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "job_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"jobs": jobs})
}

// POST /api/jobs/:id/cancel
func (h *JobsHandler) Cancel(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	job, err := h.jobs.RequestCancel(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "job_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "job_cancel_failed", err)
		return
	}
	RespondOK(c, gin.H{"job": job})
}
