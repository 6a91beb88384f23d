package handlers

import (
	"errors"
	"net/http"

	"github.com/aripbudiman/lingoecho/internal/models"
	"github.com/aripbudiman/lingoecho/internal/service"
	"github.com/aripbudiman/lingoecho/internal/validation"
)

// TranslateHandler handles translation and chat history endpoints
type TranslateHandler struct {
	translateService *service.TranslateService
}

// NewTranslateHandler creates a new translate handler
func NewTranslateHandler(translateService *service.TranslateService) *TranslateHandler {
	return &TranslateHandler{translateService: translateService}
}

// Translate translates text and persists the result. When the request
// carries no session ID a new session is created. On failure the
// submitted text is echoed back so the client can restore the input.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
		Mode      string `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	mode, err := models.ParseMode(req.Mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, "mode must be casual or formal", nil)
		return
	}

	session, msg, err := h.translateService.Translate(r.Context(), user.ID, req.SessionID, req.Text, mode)
	if err != nil {
		var verr validation.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Error(), nil)
		case errors.Is(err, service.ErrTranslationPending):
			respondError(w, http.StatusConflict, "a translation is already in progress", nil)
		case errors.Is(err, service.ErrChatSessionNotFound):
			respondError(w, http.StatusNotFound, "session not found", nil)
		default:
			respondJSON(w, http.StatusBadGateway, map[string]any{
				"error": "translation failed",
				"text":  req.Text,
			})
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"message": msg,
	})
}

// ListSessions returns the user's chat sessions, newest first
func (h *TranslateHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	sessions, err := h.translateService.Sessions(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sessions", err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

// ListMessages returns the messages of one session, oldest first
func (h *TranslateHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	sessionID := r.PathValue("id")

	messages, err := h.translateService.Messages(user.ID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrChatSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to list messages", err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}
