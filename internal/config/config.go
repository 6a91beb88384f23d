package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string        `env:"PORT" env-default:"8080"`
	DatabaseType   string        `env:"DB_TYPE" env-default:"sqlite"`
	DatabasePath   string        `env:"DB_PATH" env-default:"./lingoecho.db"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	MigrationsPath string        `env:"MIGRATIONS_PATH" env-default:"./migrations"`

	SessionDuration time.Duration `env:"SESSION_DURATION" env-default:"168h"`
	CSRFSecret      string        `env:"CSRF_SECRET" env-default:"lingoecho-dev-csrf"`

	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL     string        `env:"GEMINI_BASE_URL"`
	GeminiModel       string        `env:"GEMINI_MODEL" env-default:"gemini-3-flash-preview"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" env-default:"60s"`
	QuizQuestionCount int           `env:"QUIZ_QUESTION_COUNT" env-default:"10"`
	MatchingPairCount int           `env:"MATCHING_PAIR_COUNT" env-default:"8"`

	StreamTokenSecret string        `env:"STREAM_TOKEN_SECRET" env-default:"lingoecho-dev-stream"`
	StreamTokenTTL    time.Duration `env:"STREAM_TOKEN_TTL" env-default:"5m"`

	AWSRegion    string `env:"AWS_REGION" env-default:"ap-southeast-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" env-default:"LingoEcho"`

	AppBaseURL           string `env:"APP_BASE_URL" env-default:"http://localhost:8080"`
	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectBaseURL string `env:"OAUTH_REDIRECT_BASE_URL"`
}

// Load reads configuration from the environment, honouring a local .env file
// when one exists.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}
