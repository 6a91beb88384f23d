package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/aripbudiman/lingoecho/internal/security"
	"github.com/aripbudiman/lingoecho/internal/service"
	"github.com/aripbudiman/lingoecho/internal/validation"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	streamTokens         *security.StreamTokenIssuer
	csrf                 *security.CSRFGenerator
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, streamTokens *security.StreamTokenIssuer, csrf *security.CSRFGenerator, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		streamTokens:         streamTokens,
		csrf:                 csrf,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

// Register creates a new account and logs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		var verr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(w, http.StatusConflict, "email already taken", nil)
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Error(), nil)
		default:
			respondError(w, http.StatusInternalServerError, "failed to register", err)
		}
		return
	}

	if h.emailService != nil && h.emailService.IsEnabled() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.emailService.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
				log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
			}
		}()
	}

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to start session", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusCreated, user)
}

// Login authenticates with email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to log in", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, user)
}

// Logout ends the session and closes open streams
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(cookie.Value); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to log out", err)
			return
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GetUserFromContext(r.Context()))
}

// CSRFToken returns the CSRF token bound to the current session
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	token, err := h.csrf.GenerateToken(cookie.Value)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

// StreamToken issues a short-lived token for stream connections
func (h *AuthHandler) StreamToken(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	token, err := h.streamTokens.Issue(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ForgotPassword starts the password reset flow. The response is the
// same whether or not the address belongs to an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to process request", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "if the address exists, an email has been sent"})
}

// ResetPassword completes the password reset flow
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		var verr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			respondError(w, http.StatusBadRequest, "invalid or expired reset token", nil)
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Error(), nil)
		default:
			respondError(w, http.StatusInternalServerError, "failed to reset password", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
