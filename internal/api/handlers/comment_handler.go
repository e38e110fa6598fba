package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// CommentHandler handles HTTP requests related to comments.
type CommentHandler struct {
	service services.CommentServiceProvider
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider) *CommentHandler {
	return &CommentHandler{service: service}
}

// CreateCommentPayload is the expected JSON body for creating a comment.
type CreateCommentPayload struct {
	PostID  flexibleID `json:"post_id"`
	Content string     `json:"content"`
}

// Create handles the request to comment on a post as the authenticated user.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload CreateCommentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), claims.UserID, int64(payload.PostID), payload.Content)
	if err != nil {
		if errors.Is(err, services.ErrPostIDRequired) || errors.Is(err, services.ErrContentRequired) {
			writeError(w, http.StatusBadRequest, "post_id and content are required")
			return
		}
		log.Error().Err(err).
			Int64("post_id", int64(payload.PostID)).
			Bool("missing_reference", database.IsForeignKeyViolation(err)).
			Msg("Failed to create comment")
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// ListForPost handles the request to get a post's comments, oldest first.
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidPostID)
		return
	}

	comments, err := h.service.ListComments(r.Context(), postID)
	if err != nil {
		log.Error().Err(err).Int64("post_id", postID).Msg("Failed to retrieve comments")
		writeError(w, http.StatusInternalServerError, msgDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
