package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// modelServer fakes the generateContent endpoint, returning the given
// text as the single candidate.
func modelServer(t *testing.T, candidateText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") == "" {
			t.Error("missing API key header")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("expected application/json mime type, got %s", req.GenerationConfig.ResponseMimeType)
		}

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": candidateText}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestTranslate(t *testing.T) {
	srv := modelServer(t, `{"translation":"I like fried rice","explanation":"Kalimat sederhana."}`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Translate(context.Background(), "Saya suka nasi goreng", "casual")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got.Translation != "I like fried rice" {
		t.Errorf("unexpected translation: %q", got.Translation)
	}
	if got.Explanation == "" {
		t.Error("expected explanation")
	}
}

func TestTranslateRejectsEmptyTranslation(t *testing.T) {
	srv := modelServer(t, `{"translation":"","explanation":"x"}`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Translate(context.Background(), "halo", "casual")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func quizJSON(n int) string {
	questions := make([]QuizQuestion, n)
	for i := range questions {
		questions[i] = QuizQuestion{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "b",
			Explanation:   "Penjelasan.",
		}
	}
	raw, _ := json.Marshal(questions)
	return string(raw)
}

func TestQuizQuestions(t *testing.T) {
	srv := modelServer(t, quizJSON(10))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	questions, err := c.QuizQuestions(context.Background(), "food", 10)
	if err != nil {
		t.Fatalf("QuizQuestions: %v", err)
	}
	if len(questions) != 10 {
		t.Errorf("expected 10 questions, got %d", len(questions))
	}
}

func TestQuizQuestionsRejectsWrongCount(t *testing.T) {
	srv := modelServer(t, quizJSON(7))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.QuizQuestions(context.Background(), "food", 10)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestQuizQuestionsRejectsAnswerNotInOptions(t *testing.T) {
	questions := []QuizQuestion{{
		Question:      "Q?",
		Options:       []string{"a", "b"},
		CorrectAnswer: "z",
		Explanation:   "x",
	}}
	raw, _ := json.Marshal(questions)

	srv := modelServer(t, string(raw))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.QuizQuestions(context.Background(), "food", 1)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestMatchingPairs(t *testing.T) {
	pairs := make([]MatchingPair, 8)
	for i := range pairs {
		pairs[i] = MatchingPair{
			Indonesian: fmt.Sprintf("kata%d", i),
			English:    fmt.Sprintf("word%d", i),
		}
	}
	raw, _ := json.Marshal(pairs)

	srv := modelServer(t, string(raw))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.MatchingPairs(context.Background(), "animals", 8)
	if err != nil {
		t.Fatalf("MatchingPairs: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("expected 8 pairs, got %d", len(got))
	}
}

func TestMatchingPairsRejectsEmptySide(t *testing.T) {
	srv := modelServer(t, `[{"indonesian":"kucing","english":""}]`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.MatchingPairs(context.Background(), "animals", 1)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Translate(context.Background(), "halo", "casual")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Translate(context.Background(), "halo", "casual")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}
