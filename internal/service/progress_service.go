package service

import (
	"fmt"
	"math"

	"github.com/aripbudiman/lingoecho/internal/models"
)

// ProgressSummary aggregates a user's quiz history.
type ProgressSummary struct {
	AveragePercent float64             `json:"averagePercent"`
	Count          int                 `json:"count"`
	TotalPoints    int                 `json:"totalPoints"`
	Empty          bool                `json:"empty"`
	Scores         []*models.QuizScore `json:"scores"`
}

// ProgressService reports aggregate quiz statistics.
type ProgressService struct {
	scores ScoreStore
}

// NewProgressService creates a new progress service
func NewProgressService(scores ScoreStore) *ProgressService {
	return &ProgressService{scores: scores}
}

// Summary computes the user's progress. The average is the mean of each
// quiz's percentage, rounded to one decimal place; newest scores first.
func (s *ProgressService) Summary(userID int64) (*ProgressSummary, error) {
	scores, err := s.scores.GetScores(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	summary := &ProgressSummary{Scores: scores, Count: len(scores)}
	if len(scores) == 0 {
		summary.Empty = true
		return summary, nil
	}

	var sum float64
	for _, sc := range scores {
		summary.TotalPoints += sc.Score
		if sc.Total > 0 {
			sum += float64(sc.Score) / float64(sc.Total) * 100
		}
	}
	summary.AveragePercent = math.Round(sum/float64(len(scores))*10) / 10
	return summary, nil
}

// Scores returns the user's quiz history, newest first
func (s *ProgressService) Scores(userID int64) ([]*models.QuizScore, error) {
	scores, err := s.scores.GetScores(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	return scores, nil
}
