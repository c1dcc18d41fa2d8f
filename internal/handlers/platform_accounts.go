package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/types"
)

type PlatformAccountsHandler struct {
	accounts repos.PlatformAccountRepo
}

func NewPlatformAccountsHandler(accounts repos.PlatformAccountRepo) *PlatformAccountsHandler {
	return &PlatformAccountsHandler{accounts: accounts}
}

type createAccountRequest struct {
	CharacterID string `json:"character_id" binding:"required"`
	Platform    string `json:"platform" binding:"required"`
	Handle      string `json:"handle" binding:"required"`
	AccessToken string `json:"access_token"`
}

// POST /api/platform-accounts
func (h *PlatformAccountsHandler) Create(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	characterID, err := uuid.Parse(req.CharacterID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
		return
	}
	account := &types.PlatformAccount{
		ID:          uuid.New(),
		CharacterID: characterID,
		Platform:    req.Platform,
		Handle:      req.Handle,
		AccessToken: req.AccessToken,
		IsActive:    true,
	}
	if _, err := h.accounts.Create(c.Request.Context(), nil, account); err != nil {
		RespondError(c, http.StatusInternalServerError, "account_create_failed", err)
		return
	}
	RespondOK(c, gin.H{"account": account})
}

// GET /api/platform-accounts?character_id=
func (h *PlatformAccountsHandler) ListByCharacter(c *gin.Context) {
	characterID, err := uuid.Parse(c.Query("character_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
		return
	}
	accounts, err := h.accounts.ListByCharacter(c.Request.Context(), nil, characterID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "account_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"accounts": accounts})
}
