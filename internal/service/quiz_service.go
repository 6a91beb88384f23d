package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aripbudiman/lingoecho/internal/events"
	"github.com/aripbudiman/lingoecho/internal/genai"
	"github.com/aripbudiman/lingoecho/internal/metrics"
	"github.com/aripbudiman/lingoecho/internal/validation"
)

var (
	ErrNoActiveQuiz    = errors.New("no active quiz")
	ErrQuizFinished    = errors.New("quiz already finished")
	ErrQuizIncomplete  = errors.New("not all questions are answered")
	ErrInvalidQuestion = errors.New("invalid question index")
)

// quizAttempt is the server-side state of one user's quiz in progress.
type quizAttempt struct {
	Theme     string
	Questions []genai.QuizQuestion
	Answers   map[int]string
	Finished  bool
	Score     int
}

// QuizQuestionView is a question as shown to the client. The correct
// answer and explanation are withheld until the question is answered.
type QuizQuestionView struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer,omitempty"`
	Answered      bool     `json:"answered"`
	Correct       bool     `json:"correct,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuizView is the client-facing state of a quiz attempt.
type QuizView struct {
	Theme     string             `json:"theme"`
	Questions []QuizQuestionView `json:"questions"`
	Answered  int                `json:"answered"`
	Total     int                `json:"total"`
	Finished  bool               `json:"finished"`
	Score     int                `json:"score"`
}

// QuizService manages themed quizzes. Attempts live in memory until
// finished; only the final score is persisted.
type QuizService struct {
	gen           QuizGenerator
	scores        ScoreStore
	broker        *events.Broker
	collector     *metrics.Collector
	questionCount int

	mu       sync.Mutex
	attempts map[int64]*quizAttempt
}

// NewQuizService creates a new quiz service
func NewQuizService(gen QuizGenerator, scores ScoreStore, broker *events.Broker, collector *metrics.Collector, questionCount int) *QuizService {
	return &QuizService{
		gen:           gen,
		scores:        scores,
		broker:        broker,
		collector:     collector,
		questionCount: questionCount,
		attempts:      make(map[int64]*quizAttempt),
	}
}

// Start generates a fresh quiz for the theme, replacing any attempt in
// progress.
func (s *QuizService) Start(ctx context.Context, userID int64, theme string) (*QuizView, error) {
	if err := validation.ValidateTheme(theme); err != nil {
		return nil, err
	}

	start := time.Now()
	questions, err := s.gen.QuizQuestions(ctx, theme, s.questionCount)
	s.collector.RecordGeneration("quiz", err, time.Since(start))
	if err != nil {
		log.Printf("Quiz generation failed for user %d: %v", userID, err)
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	attempt := &quizAttempt{
		Theme:     theme,
		Questions: questions,
		Answers:   make(map[int]string),
	}

	s.mu.Lock()
	s.attempts[userID] = attempt
	view := s.viewLocked(attempt)
	s.mu.Unlock()
	return view, nil
}

// Answer records the user's answer for a question. The first answer is
// binding: repeated answers to the same question are ignored.
func (s *QuizService) Answer(userID int64, questionIndex int, answer string) (*QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[userID]
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	if attempt.Finished {
		return nil, ErrQuizFinished
	}
	if questionIndex < 0 || questionIndex >= len(attempt.Questions) {
		return nil, ErrInvalidQuestion
	}

	if _, answered := attempt.Answers[questionIndex]; !answered {
		attempt.Answers[questionIndex] = answer
	}
	return s.viewLocked(attempt), nil
}

// Finish scores the quiz and persists the result. All questions must be
// answered first.
func (s *QuizService) Finish(ctx context.Context, userID int64) (*QuizView, error) {
	s.mu.Lock()
	attempt, ok := s.attempts[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoActiveQuiz
	}
	if attempt.Finished {
		view := s.viewLocked(attempt)
		s.mu.Unlock()
		return view, nil
	}
	if len(attempt.Answers) < len(attempt.Questions) {
		s.mu.Unlock()
		return nil, ErrQuizIncomplete
	}

	score := 0
	for i, q := range attempt.Questions {
		if attempt.Answers[i] == q.CorrectAnswer {
			score++
		}
	}
	attempt.Finished = true
	attempt.Score = score
	theme := attempt.Theme
	total := len(attempt.Questions)
	view := s.viewLocked(attempt)
	s.mu.Unlock()

	_, err := s.scores.AppendScore(userID, theme, score, total)
	s.collector.RecordWrite("score", err)
	if err != nil {
		log.Printf("Failed to persist quiz score for user %d: %v", userID, err)
		return nil, fmt.Errorf("failed to save score: %w", err)
	}
	s.broker.Publish(events.Topic{UserID: userID, Stream: events.StreamScores})

	return view, nil
}

// Reset discards the user's current attempt
func (s *QuizService) Reset(userID int64) {
	s.mu.Lock()
	delete(s.attempts, userID)
	s.mu.Unlock()
}

// View returns the current attempt state
func (s *QuizService) View(userID int64) (*QuizView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[userID]
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	return s.viewLocked(attempt), nil
}

// viewLocked must be called with s.mu held.
func (s *QuizService) viewLocked(attempt *quizAttempt) *QuizView {
	view := &QuizView{
		Theme:     attempt.Theme,
		Questions: make([]QuizQuestionView, len(attempt.Questions)),
		Answered:  len(attempt.Answers),
		Total:     len(attempt.Questions),
		Finished:  attempt.Finished,
		Score:     attempt.Score,
	}
	for i, q := range attempt.Questions {
		qv := QuizQuestionView{
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
		}
		if answer, ok := attempt.Answers[i]; ok {
			qv.Answered = true
			qv.Answer = answer
			qv.Correct = answer == q.CorrectAnswer
			qv.CorrectAnswer = q.CorrectAnswer
			qv.Explanation = q.Explanation
		}
		view.Questions[i] = qv
	}
	return view
}
