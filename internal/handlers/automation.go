package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/services"
	"github.com/novaluma/novaluma-backend/internal/types"
)

type AutomationHandler struct {
	rules     repos.AutomationRuleRepo
	scheduler services.AutomationSchedulerService
}

func NewAutomationHandler(rules repos.AutomationRuleRepo, scheduler services.AutomationSchedulerService) *AutomationHandler {
	return &AutomationHandler{rules: rules, scheduler: scheduler}
}

type createRuleRequest struct {
	CharacterID          string         `json:"character_id" binding:"required"`
	PlatformAccountID    string         `json:"platform_account_id" binding:"required"`
	ActionType           string         `json:"action_type" binding:"required"`
	ActionConfig         map[string]any `json:"action_config"`
	CooldownMinutes      int            `json:"cooldown_minutes"`
	MaxExecutionsPerDay  *int           `json:"max_executions_per_day"`
	MaxExecutionsPerWeek *int           `json:"max_executions_per_week"`
}

// POST /api/automation/rules
func (h *AutomationHandler) CreateRule(c *gin.Context) {
	var req createRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	characterID, err := uuid.Parse(req.CharacterID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
		return
	}
	accountID, err := uuid.Parse(req.PlatformAccountID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_platform_account_id", err)
		return
	}

	rule := &types.AutomationRule{
		ID:                   uuid.New(),
		CharacterID:          characterID,
		PlatformAccountID:    accountID,
		ActionType:           req.ActionType,
		IsEnabled:            true,
		CooldownMinutes:      req.CooldownMinutes,
		MaxExecutionsPerDay:  req.MaxExecutionsPerDay,
		MaxExecutionsPerWeek: req.MaxExecutionsPerWeek,
	}
	if req.ActionConfig != nil {
		raw, _ := json.Marshal(req.ActionConfig)
		rule.ActionConfig = datatypes.JSON(raw)
	}
	if _, err := h.rules.Create(c.Request.Context(), nil, rule); err != nil {
		RespondError(c, http.StatusInternalServerError, "rule_create_failed", err)
		return
	}
	RespondOK(c, gin.H{"rule": rule})
}

// GET /api/automation/rules
func (h *AutomationHandler) ListRules(c *gin.Context) {
	rules, err := h.rules.ListEnabled(c.Request.Context(), nil, 100, 0)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "rule_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"rules": rules})
}

// GET /api/automation/rules/:id
func (h *AutomationHandler) GetRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_rule_id", err)
		return
	}
	rule, err := h.rules.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "rule_load_failed", err)
		return
	}
	if rule == nil {
		RespondError(c, http.StatusNotFound, "rule_not_found", nil)
		return
	}
	RespondOK(c, gin.H{"rule": rule})
}

type toggleRuleRequest struct {
	IsEnabled bool `json:"is_enabled"`
}

// POST /api/automation/rules/:id/toggle
func (h *AutomationHandler) ToggleRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_rule_id", err)
		return
	}
	var req toggleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.rules.UpdateFields(c.Request.Context(), nil, id, map[string]interface{}{"is_enabled": req.IsEnabled}); err != nil {
		RespondError(c, http.StatusInternalServerError, "rule_update_failed", err)
		return
	}
	rule, err := h.rules.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "rule_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"rule": rule})
}

// POST /api/automation/rules/:id/execute
func (h *AutomationHandler) ExecuteRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_rule_id", err)
		return
	}
	result, err := h.scheduler.ExecuteRule(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "rule_not_found", err)
			return
		}
		if errors.Is(err, services.ErrInvalidConfig) {
			RespondError(c, http.StatusBadRequest, "invalid_rule_config", err)
			return
		}
		RespondError(c, http.StatusBadGateway, "rule_execution_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}
