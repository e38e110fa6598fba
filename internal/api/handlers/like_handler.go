package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// LikeHandler handles HTTP requests related to likes.
type LikeHandler struct {
	service services.LikeServiceProvider
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(service services.LikeServiceProvider) *LikeHandler {
	return &LikeHandler{service: service}
}

// CreateLikePayload is the expected JSON body for liking a post.
type CreateLikePayload struct {
	PostID flexibleID `json:"post_id"`
}

// Create handles the request to like a post. Liking twice is not an error.
func (h *LikeHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload CreateLikePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	like, created, err := h.service.CreateLike(r.Context(), claims.UserID, int64(payload.PostID))
	if err != nil {
		if errors.Is(err, services.ErrPostIDRequired) {
			writeError(w, http.StatusBadRequest, "post_id is required")
			return
		}
		log.Error().Err(err).
			Int64("post_id", int64(payload.PostID)).
			Bool("missing_reference", database.IsForeignKeyViolation(err)).
			Msg("Failed to create like")
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Already liked"})
		return
	}
	writeJSON(w, http.StatusOK, like)
}

// ListForPost handles the request to get who liked a post.
func (h *LikeHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidPostID)
		return
	}

	likes, err := h.service.ListLikes(r.Context(), postID)
	if err != nil {
		log.Error().Err(err).Int64("post_id", postID).Msg("Failed to retrieve likes")
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}
