package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePostPayload is the expected JSON body for creating a post.
type CreatePostPayload struct {
	Content string `json:"content"`
}

// List handles the request to get every post, newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve posts")
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Create handles the request to create a post as the authenticated user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload CreatePostPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	post, err := h.service.CreatePost(r.Context(), claims.UserID, payload.Content)
	if err != nil {
		if errors.Is(err, services.ErrContentRequired) {
			writeError(w, http.StatusBadRequest, "Content is required")
			return
		}
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to create post")
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	writeJSON(w, http.StatusOK, post)
}
