package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/novaluma/novaluma-backend/internal/repos"
	"github.com/novaluma/novaluma-backend/internal/types"
)

type PostsHandler struct {
	posts repos.PostRepo
}

func NewPostsHandler(posts repos.PostRepo) *PostsHandler {
	return &PostsHandler{posts: posts}
}

type createPostRequest struct {
	CharacterID string `json:"character_id" binding:"required"`
	Platform    string `json:"platform" binding:"required"`
	PostType    string `json:"post_type" binding:"required"`
	Caption     string `json:"caption"`
	MediaURL    string `json:"media_url"`
	Publish     bool   `json:"publish"`
}

// POST /api/posts
func (h *PostsHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	characterID, err := uuid.Parse(req.CharacterID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
		return
	}

	post := &types.Post{
		ID:          uuid.New(),
		CharacterID: characterID,
		Platform:    req.Platform,
		PostType:    req.PostType,
		Status:      types.PostStatusDraft,
		Caption:     req.Caption,
		MediaURL:    req.MediaURL,
	}
	if req.Publish {
		now := time.Now()
		post.Status = types.PostStatusPublished
		post.PublishedAt = &now
	}
	if _, err := h.posts.Create(c.Request.Context(), nil, post); err != nil {
		RespondError(c, http.StatusInternalServerError, "post_create_failed", err)
		return
	}
	RespondOK(c, gin.H{"post": post})
}

// POST /api/posts/:id/publish
func (h *PostsHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	post, err := h.posts.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "post_load_failed", err)
		return
	}
	if post == nil {
		RespondError(c, http.StatusNotFound, "post_not_found", nil)
		return
	}
	if post.Status == types.PostStatusPublished {
		RespondOK(c, gin.H{"post": post})
		return
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":       types.PostStatusPublished,
		"published_at": now,
	}
	if err := h.posts.UpdateFields(c.Request.Context(), nil, id, updates); err != nil {
		RespondError(c, http.StatusInternalServerError, "post_publish_failed", err)
		return
	}
	post, err = h.posts.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "post_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"post": post})
}

// GET /api/posts/:id
func (h *PostsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	post, err := h.posts.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "post_load_failed", err)
		return
	}
	if post == nil {
		RespondError(c, http.StatusNotFound, "post_not_found", nil)
		return
	}
	RespondOK(c, gin.H{"post": post})
}

// GET /api/posts?character_id=&platform=
func (h *PostsHandler) ListPublished(c *gin.Context) {
	filter := repos.PublishedPostFilter{Platform: c.Query("platform")}
	if raw := c.Query("character_id"); raw != "" {
		characterID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_character_id", err)
			return
		}
		filter.CharacterID = characterID
	}
	posts, err := h.posts.ListPublished(c.Request.Context(), nil, filter, 100, 0)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "post_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"posts": posts})
}
