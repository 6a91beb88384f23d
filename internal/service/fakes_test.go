package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aripbudiman/lingoecho/internal/genai"
	"github.com/aripbudiman/lingoecho/internal/models"
)

var errGenerator = errors.New("generator unavailable")

type fakeGenerator struct {
	translation *genai.Translation
	questions   []genai.QuizQuestion
	pairs       []genai.MatchingPair
	fail        bool
	calls       int
}

func (f *fakeGenerator) Translate(ctx context.Context, text, tone string) (*genai.Translation, error) {
	f.calls++
	if f.fail {
		return nil, errGenerator
	}
	return f.translation, nil
}

func (f *fakeGenerator) QuizQuestions(ctx context.Context, theme string, count int) ([]genai.QuizQuestion, error) {
	f.calls++
	if f.fail {
		return nil, errGenerator
	}
	return f.questions, nil
}

func (f *fakeGenerator) MatchingPairs(ctx context.Context, theme string, count int) ([]genai.MatchingPair, error) {
	f.calls++
	if f.fail {
		return nil, errGenerator
	}
	return f.pairs, nil
}

type fakeChatStore struct {
	sessions map[string]*models.ChatSession
	messages map[string][]*models.Message
	nextID   int
	fail     bool
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		sessions: make(map[string]*models.ChatSession),
		messages: make(map[string][]*models.Message),
	}
}

func (f *fakeChatStore) newID() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeChatStore) CreateSessionWithMessage(userID int64, title string, msg *models.Message) (*models.ChatSession, *models.Message, error) {
	if f.fail {
		return nil, nil, errors.New("store unavailable")
	}
	session := &models.ChatSession{
		ID:        f.newID(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	f.sessions[session.ID] = session

	saved := *msg
	saved.ID = f.newID()
	saved.SessionID = session.ID
	saved.UserID = userID
	saved.CreatedAt = time.Now()
	f.messages[session.ID] = append(f.messages[session.ID], &saved)
	return session, &saved, nil
}

func (f *fakeChatStore) AppendMessage(userID int64, sessionID string, msg *models.Message) (*models.Message, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	session, ok := f.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, errors.New("session not found")
	}
	saved := *msg
	saved.ID = f.newID()
	saved.SessionID = sessionID
	saved.UserID = userID
	saved.CreatedAt = time.Now()
	f.messages[sessionID] = append(f.messages[sessionID], &saved)
	return &saved, nil
}

func (f *fakeChatStore) GetSession(userID int64, sessionID string) (*models.ChatSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, nil
	}
	return session, nil
}

func (f *fakeChatStore) GetSessions(userID int64) ([]*models.ChatSession, error) {
	var out []*models.ChatSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeChatStore) GetMessages(userID int64, sessionID string) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages[sessionID] {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeScoreStore struct {
	scores []*models.QuizScore
	nextID int
	fail   bool
}

func (f *fakeScoreStore) AppendScore(userID int64, theme string, score, total int) (*models.QuizScore, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	f.nextID++
	record := &models.QuizScore{
		ID:        fmt.Sprintf("score-%d", f.nextID),
		UserID:    userID,
		Theme:     theme,
		Score:     score,
		Total:     total,
		CreatedAt: time.Now(),
	}
	f.scores = append([]*models.QuizScore{record}, f.scores...)
	return record, nil
}

func (f *fakeScoreStore) GetScores(userID int64) ([]*models.QuizScore, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	var out []*models.QuizScore
	for _, s := range f.scores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func testQuestions(n int) []genai.QuizQuestion {
	questions := make([]genai.QuizQuestion, n)
	for i := range questions {
		questions[i] = genai.QuizQuestion{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "b",
			Explanation:   "Penjelasan.",
		}
	}
	return questions
}

func testPairs(n int) []genai.MatchingPair {
	pairs := make([]genai.MatchingPair, n)
	for i := range pairs {
		pairs[i] = genai.MatchingPair{
			Indonesian: fmt.Sprintf("kata%d", i),
			English:    fmt.Sprintf("word%d", i),
		}
	}
	return pairs
}
