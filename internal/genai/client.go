// Package genai is a small client for the Gemini generateContent API.
// All requests ask for structured JSON output via a response schema and
// responses are validated before being returned to callers.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-3-flash-preview"
	defaultTimeout = 60 * time.Second
)

// ErrInvalidResponse indicates the model returned output that does not
// satisfy the expected shape.
var ErrInvalidResponse = errors.New("genai: invalid model response")

// Config holds client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the Gemini API over HTTP.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a client. The API key is required; other settings
// fall back to defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("genai: API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends a prompt and returns the concatenated text of the first
// candidate, which is expected to be a JSON document matching schema.
func (c *Client) generate(ctx context.Context, prompt string, schema map[string]any) ([]byte, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("genai: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("genai: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("genai: sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("genai: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("genai: API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("genai: decoding response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, fmt.Errorf("%w: empty candidate text", ErrInvalidResponse)
	}
	return []byte(text), nil
}

// Translate translates Indonesian text to English in the given tone
// ("casual" or "formal") and returns the translation with a short
// grammar explanation.
func (c *Client) Translate(ctx context.Context, text, tone string) (*Translation, error) {
	raw, err := c.generate(ctx, translatePrompt(text, tone), translationSchema)
	if err != nil {
		return nil, err
	}

	var t Translation
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if strings.TrimSpace(t.Translation) == "" {
		return nil, fmt.Errorf("%w: empty translation", ErrInvalidResponse)
	}
	return &t, nil
}

// QuizQuestions generates count multiple-choice questions for a theme.
// Every question must carry options including its correct answer.
func (c *Client) QuizQuestions(ctx context.Context, theme string, count int) ([]QuizQuestion, error) {
	raw, err := c.generate(ctx, quizPrompt(count, theme), quizSchema)
	if err != nil {
		return nil, err
	}

	var questions []QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(questions) != count {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ErrInvalidResponse, count, len(questions))
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: question %d is empty", ErrInvalidResponse, i)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: question %d has no options", ErrInvalidResponse, i)
		}
		if !contains(q.Options, q.CorrectAnswer) {
			return nil, fmt.Errorf("%w: question %d correct answer not among options", ErrInvalidResponse, i)
		}
	}
	return questions, nil
}

// MatchingPairs generates count Indonesian/English pairs for a theme.
func (c *Client) MatchingPairs(ctx context.Context, theme string, count int) ([]MatchingPair, error) {
	raw, err := c.generate(ctx, matchingPrompt(count, theme), matchingSchema)
	if err != nil {
		return nil, err
	}

	var pairs []MatchingPair
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(pairs) != count {
		return nil, fmt.Errorf("%w: expected %d pairs, got %d", ErrInvalidResponse, count, len(pairs))
	}
	for i, p := range pairs {
		if strings.TrimSpace(p.Indonesian) == "" || strings.TrimSpace(p.English) == "" {
			return nil, fmt.Errorf("%w: pair %d has an empty side", ErrInvalidResponse, i)
		}
	}
	return pairs, nil
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
