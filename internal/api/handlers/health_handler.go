package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/isdelr/social-be/internal/services"
	"github.com/rs/zerolog/log"
)

// HealthHandler serves liveness and database connectivity checks.
type HealthHandler struct {
	service services.HealthServiceProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service services.HealthServiceProvider) *HealthHandler {
	return &HealthHandler{service: service}
}

// Root answers the bare "/" route.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Backend is running!")
}

// Ping reports that the process is up, with the server time in milliseconds.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"ts": time.Now().UnixMilli(),
	})
}

// TestDB reports the database clock, or 500 when the database is unreachable.
func (h *HealthHandler) TestDB(w http.ResponseWriter, r *http.Request) {
	now, err := h.service.DatabaseTime(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("DB test error")
		writeError(w, http.StatusInternalServerError, "Database connection failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"now": now})
}

// NotFound answers every unmatched route.
func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Route %s not found", r.URL.RequestURI()))
}

// Usage returns a handler that explains how to call a POST-only endpoint.
func Usage(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}
