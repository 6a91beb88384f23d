package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aripbudiman/lingoecho/internal/security"
)

func TestRespondErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, http.StatusTeapot, "teapot", nil)

	if recorder.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["error"] != "teapot" {
		t.Fatalf("expected error 'teapot', got %q", body["error"])
	}
}

func TestRespondErrorLogsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	respondError(recorder, http.StatusInternalServerError, "something broke", errors.New("boom"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include cause, got %q", logOutput)
	}
}

func TestRespondErrorDoesNotLogClientErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	respondError(recorder, http.StatusBadRequest, "bad input", errors.New("detail"))

	if strings.Contains(buf.String(), "detail") {
		t.Fatal("client error causes should not be logged")
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	big := `{"text":"` + strings.Repeat("a", 2<<20) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var v struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &v); err == nil {
		t.Fatal("expected error for oversized body")
	}
}

func TestRequireAuthWithoutCookie(t *testing.T) {
	m := NewMiddleware(nil, nil, nil, nil)
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestCSRFProtect(t *testing.T) {
	csrf := security.NewCSRFGenerator("test-secret")
	m := NewMiddleware(nil, nil, csrf, nil)

	called := false
	handler := m.CSRFProtect(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	t.Run("GET passes without token", func(t *testing.T) {
		called = false
		recorder := httptest.NewRecorder()
		handler(recorder, httptest.NewRequest(http.MethodGet, "/api/quiz", nil))
		if !called {
			t.Fatal("expected handler to run")
		}
	})

	t.Run("POST without token rejected", func(t *testing.T) {
		called = false
		recorder := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/quiz/start", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-1"})
		handler(recorder, r)
		if called {
			t.Fatal("handler should not run")
		}
		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})

	t.Run("POST with valid token passes", func(t *testing.T) {
		called = false
		token, err := csrf.GenerateToken("session-1")
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		recorder := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/quiz/start", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-1"})
		r.Header.Set("X-CSRF-Token", token)
		handler(recorder, r)
		if !called {
			t.Fatalf("expected handler to run, got %d", recorder.Code)
		}
	})
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	limiter := security.NewRateLimiter(1, time.Hour, 2)
	m := NewMiddleware(nil, nil, nil, limiter)

	handler := m.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var last int
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		handler(recorder, r)
		last = recorder.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", last)
	}
}

func TestGetUserFromContextMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if user := GetUserFromContext(r.Context()); user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}
