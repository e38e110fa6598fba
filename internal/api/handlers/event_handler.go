package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/social-be/internal/models"
)

const defaultEventLimit = 20

// RecentEventsProvider lists the latest events, newest first.
type RecentEventsProvider interface {
	Latest(limit int) []models.Event
}

// EventHandler handles HTTP requests related to recent activity.
type EventHandler struct {
	feed RecentEventsProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(feed RecentEventsProvider) *EventHandler {
	return &EventHandler{feed: feed}
}

// GetRecent handles the request to get recent activity/events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultEventLimit
	}
	writeJSON(w, http.StatusOK, h.feed.Latest(limit))
}
