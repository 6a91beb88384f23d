package handlers

import (
	"net/http"

	"github.com/aripbudiman/lingoecho/internal/service"
)

// ProgressHandler handles progress reporting endpoints
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Summary returns aggregate quiz statistics for the user
func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	summary, err := h.progressService.Summary(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load progress", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Scores returns the user's quiz history, newest first
func (h *ProgressHandler) Scores(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	scores, err := h.progressService.Scores(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load scores", err)
		return
	}
	respondJSON(w, http.StatusOK, scores)
}
