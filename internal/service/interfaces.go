package service

import (
	"context"

	"github.com/aripbudiman/lingoecho/internal/genai"
	"github.com/aripbudiman/lingoecho/internal/models"
)

// Translator generates translations with grammar explanations.
type Translator interface {
	Translate(ctx context.Context, text, tone string) (*genai.Translation, error)
}

// QuizGenerator generates multiple-choice questions for a theme.
type QuizGenerator interface {
	QuizQuestions(ctx context.Context, theme string, count int) ([]genai.QuizQuestion, error)
}

// PairGenerator generates word pairs for a theme.
type PairGenerator interface {
	MatchingPairs(ctx context.Context, theme string, count int) ([]genai.MatchingPair, error)
}

// ChatStore persists chat sessions and their messages.
type ChatStore interface {
	CreateSessionWithMessage(userID int64, title string, msg *models.Message) (*models.ChatSession, *models.Message, error)
	AppendMessage(userID int64, sessionID string, msg *models.Message) (*models.Message, error)
	GetSession(userID int64, sessionID string) (*models.ChatSession, error)
	GetSessions(userID int64) ([]*models.ChatSession, error)
	GetMessages(userID int64, sessionID string) ([]*models.Message, error)
}

// ScoreStore persists quiz scores.
type ScoreStore interface {
	AppendScore(userID int64, theme string, score, total int) (*models.QuizScore, error)
	GetScores(userID int64) ([]*models.QuizScore, error)
}
