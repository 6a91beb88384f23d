package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/aripbudiman/lingoecho/internal/models"
	"github.com/aripbudiman/lingoecho/internal/security"
	"github.com/aripbudiman/lingoecho/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// SessionCookieName is the cookie carrying the login session ID
const SessionCookieName = "session_id"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService  *service.AuthService
	streamTokens *security.StreamTokenIssuer
	csrf         *security.CSRFGenerator
	limiter      *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, streamTokens *security.StreamTokenIssuer, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService:  authService,
		streamTokens: streamTokens,
		csrf:         csrf,
		limiter:      limiter,
	}
}

// RequireAuth requires a valid session cookie and puts the user on the
// request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		user, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			respondError(w, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireStreamAuth authorizes stream connections. EventSource clients
// cannot set headers, so a short-lived token in the query string is
// accepted as an alternative to the session cookie.
func (m *Middleware) RequireStreamAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if user, err := m.authService.ValidateSession(cookie.Value); err == nil {
				ctx := context.WithValue(r.Context(), UserContextKey, user)
				next(w, r.WithContext(ctx))
				return
			}
		}

		token := r.URL.Query().Get("token")
		if token != "" {
			if userID, err := m.streamTokens.Verify(token); err == nil {
				if user, err := m.authService.UserByID(userID); err == nil && user != nil {
					ctx := context.WithValue(r.Context(), UserContextKey, user)
					next(w, r.WithContext(ctx))
					return
				}
			}
		}

		respondError(w, http.StatusUnauthorized, "authentication required", nil)
	}
}

// CSRFProtect validates the X-CSRF-Token header on state-changing requests
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next(w, r)
			return
		}

		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			respondError(w, http.StatusForbidden, "invalid CSRF token", nil)
			return
		}
		token := r.Header.Get("X-CSRF-Token")
		if !m.csrf.ValidateToken(cookie.Value, token) {
			respondError(w, http.StatusForbidden, "invalid CSRF token", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit rejects clients that exceed the request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
