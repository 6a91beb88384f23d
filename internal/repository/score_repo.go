package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aripbudiman/lingoecho/internal/database"
	"github.com/aripbudiman/lingoecho/internal/models"
)

// ScoreRepository handles database operations for quiz scores
type ScoreRepository struct {
	db *database.DB
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db *database.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// AppendScore records a completed quiz result
func (r *ScoreRepository) AppendScore(userID int64, theme string, score, total int) (*models.QuizScore, error) {
	record := &models.QuizScore{
		ID:        uuid.New().String(),
		UserID:    userID,
		Theme:     theme,
		Score:     score,
		Total:     total,
		CreatedAt: time.Now(),
	}
	_, err := r.db.Exec(
		`INSERT INTO quiz_scores (id, user_id, theme, score, total, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.Theme, record.Score, record.Total, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}
	return record, nil
}

// GetScores retrieves all quiz scores for a user, newest first
func (r *ScoreRepository) GetScores(userID int64) ([]*models.QuizScore, error) {
	query := `
		SELECT id, user_id, theme, score, total, created_at
		FROM quiz_scores
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	scores := []*models.QuizScore{}
	for rows.Next() {
		s := &models.QuizScore{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Theme, &s.Score, &s.Total, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
