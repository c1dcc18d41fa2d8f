package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/logger"
	"github.com/novaluma/novaluma-backend/internal/middleware"
	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/services"
	"github.com/novaluma/novaluma-backend/internal/types"
)

type CharactersHandler struct {
	log    *logger.Logger
	chars  repos.CharacterRepo
	avatar services.AvatarService
}

func NewCharactersHandler(log *logger.Logger, chars repos.CharacterRepo, avatar services.AvatarService) *CharactersHandler {
	return &CharactersHandler{
		log:    log.With("handler", "CharactersHandler"),
		chars:  chars,
		avatar: avatar,
	}
}

func requestUserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(middleware.ContextUserIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

type createCharacterRequest struct {
	Name             string                   `json:"name" binding:"required"`
	Bio              string                   `json:"bio"`
	Location         string                   `json:"location"`
	Interests        []string                 `json:"interests"`
	Personality      *types.PersonalityTraits `json:"personality"`
	AppearancePrompt string                   `json:"appearance_prompt"`
}

// POST /api/characters
func (h *CharactersHandler) Create(c *gin.Context) {
	userID := requestUserID(c)
	if userID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	character := &types.Character{
		ID:               uuid.New(),
		UserID:           userID,
		Name:             req.Name,
		Bio:              req.Bio,
		Location:         req.Location,
		Interests:        types.StringList(req.Interests),
		Personality:      req.Personality,
		AppearancePrompt: req.AppearancePrompt,
	}
	if _, err := h.chars.Create(c.Request.Context(), nil, character); err != nil {
		RespondError(c, http.StatusInternalServerError, "character_create_failed", err)
		return
	}

	// Placeholder avatar; generated imagery replaces it later.
	if h.avatar != nil {
		if err := h.avatar.CreateAndUploadCharacterAvatar(c.Request.Context(), nil, character); err != nil {
			h.log.Warn("Avatar generation failed", "character_id", character.ID, "error", err)
		}
	}

	RespondOK(c, gin.H{"character": character})
}

// GET /api/characters
func (h *CharactersHandler) List(c *gin.Context) {
	userID := requestUserID(c)
	if userID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	characters, err := h.chars.ListByUser(c.Request.Context(), nil, userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "character_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"characters": characters})
}

// GET /api/characters/:id
func (h *CharactersHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
		return
	}
	character, err := h.chars.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "character_load_failed", err)
		return
	}
	if character == nil {
		RespondError(c, http.StatusNotFound, "character_not_found", nil)
		return
	}
	RespondOK(c, gin.H{"character": character})
}
