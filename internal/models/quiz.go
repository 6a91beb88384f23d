package models

import "time"

// QuizScore records the outcome of one completed quiz attempt.
// Scores are append-only; score never exceeds total.
type QuizScore struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Theme     string    `json:"theme"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"timestamp"`
}
