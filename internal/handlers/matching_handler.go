package handlers

import (
	"errors"
	"net/http"

	"github.com/aripbudiman/lingoecho/internal/service"
	"github.com/aripbudiman/lingoecho/internal/validation"
)

// MatchingHandler handles word matching game endpoints
type MatchingHandler struct {
	matchingService *service.MatchingService
}

// NewMatchingHandler creates a new matching handler
func NewMatchingHandler(matchingService *service.MatchingService) *MatchingHandler {
	return &MatchingHandler{matchingService: matchingService}
}

// Start generates a matching game for a theme
func (h *MatchingHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	view, err := h.matchingService.Start(r.Context(), user.ID, req.Theme)
	if err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Error(), nil)
			return
		}
		respondError(w, http.StatusBadGateway, "matching generation failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Pick selects a word from one column
func (h *MatchingHandler) Pick(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Side string `json:"side"`
		Word string `json:"word"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	view, err := h.matchingService.Pick(user.ID, req.Side, req.Word)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveGame):
			respondError(w, http.StatusNotFound, "no active game", nil)
		case errors.Is(err, service.ErrInvalidPick):
			respondError(w, http.StatusBadRequest, "invalid pick", nil)
		default:
			respondError(w, http.StatusInternalServerError, "failed to record pick", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Reset discards the current game
func (h *MatchingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	h.matchingService.Reset(user.ID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Get returns the current game state
func (h *MatchingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	view, err := h.matchingService.View(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveGame) {
			respondError(w, http.StatusNotFound, "no active game", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load game", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
