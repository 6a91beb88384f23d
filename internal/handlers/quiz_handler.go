package handlers

import (
	"errors"
	"net/http"

	"github.com/aripbudiman/lingoecho/internal/service"
	"github.com/aripbudiman/lingoecho/internal/validation"
)

// QuizHandler handles quiz endpoints
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Start generates a quiz for a theme
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	view, err := h.quizService.Start(r.Context(), user.ID, req.Theme)
	if err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Error(), nil)
			return
		}
		respondError(w, http.StatusBadGateway, "quiz generation failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Answer records an answer for one question
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Question int    `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	view, err := h.quizService.Answer(user.ID, req.Question, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveQuiz):
			respondError(w, http.StatusNotFound, "no active quiz", nil)
		case errors.Is(err, service.ErrQuizFinished):
			respondError(w, http.StatusConflict, "quiz already finished", nil)
		case errors.Is(err, service.ErrInvalidQuestion):
			respondError(w, http.StatusBadRequest, "invalid question index", nil)
		default:
			respondError(w, http.StatusInternalServerError, "failed to record answer", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Finish scores the quiz and records the result
func (h *QuizHandler) Finish(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	view, err := h.quizService.Finish(r.Context(), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveQuiz):
			respondError(w, http.StatusNotFound, "no active quiz", nil)
		case errors.Is(err, service.ErrQuizIncomplete):
			respondError(w, http.StatusConflict, "not all questions are answered", nil)
		default:
			respondError(w, http.StatusInternalServerError, "failed to finish quiz", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Reset discards the current attempt
func (h *QuizHandler) Reset(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	h.quizService.Reset(user.ID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Get returns the current attempt state
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	view, err := h.quizService.View(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveQuiz) {
			respondError(w, http.StatusNotFound, "no active quiz", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load quiz", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}
