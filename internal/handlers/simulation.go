package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/services"
)

type SimulationHandler struct {
	collab    services.CollaborationService
	followers services.FollowerSimulationService
}

func NewSimulationHandler(collab services.CollaborationService, followers services.FollowerSimulationService) *SimulationHandler {
	return &SimulationHandler{collab: collab, followers: followers}
}

type simulateInteractionRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
	PostID  string `json:"post_id" binding:"required"`
}

// POST /api/simulation/interaction
func (h *SimulationHandler) SimulateInteraction(c *gin.Context) {
	var req simulateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_actor_id", err)
		return
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	post, err := h.collab.SimulateInteraction(c.Request.Context(), actorID, postID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "simulation_failed", err)
		return
	}
	RespondOK(c, gin.H{"interacted": post != nil, "post": post})
}

type simulateCharacterRequest struct {
	ActorID           string `json:"actor_id" binding:"required"`
	MaxPostsPerTarget int    `json:"max_posts_per_target"`
}

// POST /api/simulation/character
func (h *SimulationHandler) SimulateForCharacter(c *gin.Context) {
	var req simulateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_actor_id", err)
		return
	}
	result, err := h.collab.SimulateInteractionsForCharacter(c.Request.Context(), actorID, req.MaxPostsPerTarget)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "simulation_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

type simulateNetworkRequest struct {
	InteractionsPerCharacter int `json:"interactions_per_character"`
}

// POST /api/simulation/network
func (h *SimulationHandler) SimulateNetwork(c *gin.Context) {
	var req simulateNetworkRequest
	_ = c.ShouldBindJSON(&req)
	result, err := h.collab.SimulateCollaborationNetwork(c.Request.Context(), req.InteractionsPerCharacter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "simulation_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

type accrueRequest struct {
	WindowHours int `json:"window_hours"`
	Limit       int `json:"limit"`
}

// POST /api/simulation/organic
func (h *SimulationHandler) AccrueOrganic(c *gin.Context) {
	var req accrueRequest
	_ = c.ShouldBindJSON(&req)
	result, err := h.followers.AccrueForRecentPosts(c.Request.Context(), time.Duration(req.WindowHours)*time.Hour, req.Limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "accrual_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}
