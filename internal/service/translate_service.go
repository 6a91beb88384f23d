package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aripbudiman/lingoecho/internal/events"
	"github.com/aripbudiman/lingoecho/internal/metrics"
	"github.com/aripbudiman/lingoecho/internal/models"
	"github.com/aripbudiman/lingoecho/internal/validation"
)

var (
	ErrTranslationPending  = errors.New("a translation is already in progress")
	ErrChatSessionNotFound = errors.New("chat session not found")
)

// TranslateService turns Indonesian input into persisted chat messages.
// Each user has at most one translation in flight at a time.
type TranslateService struct {
	gen       Translator
	chats     ChatStore
	broker    *events.Broker
	collector *metrics.Collector

	mu       sync.Mutex
	inFlight map[int64]bool
}

// NewTranslateService creates a new translate service
func NewTranslateService(gen Translator, chats ChatStore, broker *events.Broker, collector *metrics.Collector) *TranslateService {
	return &TranslateService{
		gen:       gen,
		chats:     chats,
		broker:    broker,
		collector: collector,
		inFlight:  make(map[int64]bool),
	}
}

// Translate translates text and appends the result to the given session,
// creating a new session titled after the text when sessionID is empty.
// On failure nothing is persisted and the error is returned so the caller
// can restore the submitted text.
func (s *TranslateService) Translate(ctx context.Context, userID int64, sessionID, text string, mode models.Mode) (*models.ChatSession, *models.Message, error) {
	if err := validation.ValidateSourceText(text); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	if s.inFlight[userID] {
		s.mu.Unlock()
		return nil, nil, ErrTranslationPending
	}
	s.inFlight[userID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, userID)
		s.mu.Unlock()
	}()

	// Verify ownership before spending a generation call
	if sessionID != "" {
		session, err := s.chats.GetSession(userID, sessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check session: %w", err)
		}
		if session == nil {
			return nil, nil, ErrChatSessionNotFound
		}
	}

	start := time.Now()
	result, err := s.gen.Translate(ctx, text, string(mode))
	s.collector.RecordGeneration("translate", err, time.Since(start))
	if err != nil {
		log.Printf("Translation failed for user %d: %v", userID, err)
		return nil, nil, fmt.Errorf("translation failed: %w", err)
	}

	msg := &models.Message{
		SourceText:     text,
		TranslatedText: result.Translation,
		Explanation:    result.Explanation,
		Mode:           mode,
	}

	var session *models.ChatSession
	var saved *models.Message
	if sessionID == "" {
		title := models.DeriveSessionTitle(text)
		session, saved, err = s.chats.CreateSessionWithMessage(userID, title, msg)
		s.collector.RecordWrite("session", err)
		if err != nil {
			log.Printf("Failed to persist new session for user %d: %v", userID, err)
			return nil, nil, fmt.Errorf("failed to save translation: %w", err)
		}
		s.broker.Publish(events.Topic{UserID: userID, Stream: events.StreamSessions})
	} else {
		saved, err = s.chats.AppendMessage(userID, sessionID, msg)
		s.collector.RecordWrite("message", err)
		if err != nil {
			log.Printf("Failed to persist message for user %d: %v", userID, err)
			return nil, nil, fmt.Errorf("failed to save translation: %w", err)
		}
		session, err = s.chats.GetSession(userID, sessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	s.broker.Publish(events.Topic{UserID: userID, Stream: events.StreamMessages, SessionID: saved.SessionID})
	return session, saved, nil
}

// Sessions returns the user's chat sessions, newest first
func (s *TranslateService) Sessions(userID int64) ([]*models.ChatSession, error) {
	return s.chats.GetSessions(userID)
}

// Messages returns the messages of one of the user's sessions, oldest
// first. The session must exist and belong to the user.
func (s *TranslateService) Messages(userID int64, sessionID string) ([]*models.Message, error) {
	session, err := s.chats.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrChatSessionNotFound
	}
	return s.chats.GetMessages(userID, sessionID)
}
