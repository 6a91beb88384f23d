package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aripbudiman/lingoecho/internal/events"
	"github.com/aripbudiman/lingoecho/internal/genai"
	"github.com/aripbudiman/lingoecho/internal/models"
)

func newTranslateService(gen *fakeGenerator, store *fakeChatStore) (*TranslateService, *events.Broker) {
	broker := events.NewBroker()
	return NewTranslateService(gen, store, broker, nil), broker
}

func TestTranslateCreatesSessionOnFirstMessage(t *testing.T) {
	gen := &fakeGenerator{translation: &genai.Translation{Translation: "I like coffee", Explanation: "Kalimat sederhana."}}
	store := newFakeChatStore()
	svc, broker := newTranslateService(gen, store)

	sessionsSub, cancel := broker.Subscribe(events.Topic{UserID: 1, Stream: events.StreamSessions})
	defer cancel()

	session, msg, err := svc.Translate(context.Background(), 1, "", "Saya suka kopi", models.ModeCasual)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if session.Title != "Saya suka kopi" {
		t.Errorf("unexpected title %q", session.Title)
	}
	if msg.TranslatedText != "I like coffee" {
		t.Errorf("unexpected translation %q", msg.TranslatedText)
	}
	if msg.SessionID != session.ID {
		t.Error("message not attached to new session")
	}

	select {
	case <-sessionsSub.C:
	case <-time.After(time.Second):
		t.Error("expected sessions stream notification")
	}
}

func TestTranslateTruncatesLongTitle(t *testing.T) {
	gen := &fakeGenerator{translation: &genai.Translation{Translation: "x", Explanation: "y"}}
	store := newFakeChatStore()
	svc, _ := newTranslateService(gen, store)

	long := "Saya suka makan nasi goreng setiap hari"
	session, _, err := svc.Translate(context.Background(), 1, "", long, models.ModeCasual)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := "Saya suka makan nasi goreng se..."
	if session.Title != want {
		t.Errorf("title = %q, want %q", session.Title, want)
	}
}

func TestTranslateAppendsToExistingSession(t *testing.T) {
	gen := &fakeGenerator{translation: &genai.Translation{Translation: "one", Explanation: "e"}}
	store := newFakeChatStore()
	svc, broker := newTranslateService(gen, store)

	session, _, err := svc.Translate(context.Background(), 1, "", "satu", models.ModeCasual)
	if err != nil {
		t.Fatalf("first Translate: %v", err)
	}

	messagesSub, cancel := broker.Subscribe(events.Topic{UserID: 1, Stream: events.StreamMessages, SessionID: session.ID})
	defer cancel()

	if _, _, err := svc.Translate(context.Background(), 1, session.ID, "dua", models.ModeFormal); err != nil {
		t.Fatalf("second Translate: %v", err)
	}

	messages, err := svc.Messages(1, session.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	select {
	case <-messagesSub.C:
	case <-time.After(time.Second):
		t.Error("expected messages stream notification")
	}
}

func TestTranslateRejectsBlankInput(t *testing.T) {
	gen := &fakeGenerator{translation: &genai.Translation{Translation: "x", Explanation: "y"}}
	store := newFakeChatStore()
	svc, _ := newTranslateService(gen, store)

	if _, _, err := svc.Translate(context.Background(), 1, "", "   ", models.ModeCasual); err == nil {
		t.Error("expected error for blank input")
	}
	if gen.calls != 0 {
		t.Error("generator should not be called for blank input")
	}
}

func TestTranslateFailurePersistsNothing(t *testing.T) {
	gen := &fakeGenerator{fail: true}
	store := newFakeChatStore()
	svc, _ := newTranslateService(gen, store)

	_, _, err := svc.Translate(context.Background(), 1, "", "halo", models.ModeCasual)
	if !errors.Is(err, errGenerator) {
		t.Fatalf("expected generator error, got %v", err)
	}

	sessions, _ := svc.Sessions(1)
	if len(sessions) != 0 {
		t.Errorf("expected no sessions after failure, got %d", len(sessions))
	}
}

func TestTranslateUnknownSession(t *testing.T) {
	gen := &fakeGenerator{translation: &genai.Translation{Translation: "x", Explanation: "y"}}
	store := newFakeChatStore()
	svc, _ := newTranslateService(gen, store)

	_, _, err := svc.Translate(context.Background(), 1, "missing", "halo", models.ModeCasual)
	if !errors.Is(err, ErrChatSessionNotFound) {
		t.Errorf("expected ErrChatSessionNotFound, got %v", err)
	}
	if gen.calls != 0 {
		t.Error("generator should not be called for unknown session")
	}
}

func TestTranslateForeignSessionInvisible(t *testing.T) {
	gen := &fakeGenerator{translation: &genai.Translation{Translation: "x", Explanation: "y"}}
	store := newFakeChatStore()
	svc, _ := newTranslateService(gen, store)

	session, _, err := svc.Translate(context.Background(), 1, "", "milik saya", models.ModeCasual)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if _, _, err := svc.Translate(context.Background(), 2, session.ID, "bukan milik saya", models.ModeCasual); !errors.Is(err, ErrChatSessionNotFound) {
		t.Errorf("expected ErrChatSessionNotFound for foreign session, got %v", err)
	}
	if _, err := svc.Messages(2, session.ID); !errors.Is(err, ErrChatSessionNotFound) {
		t.Errorf("expected ErrChatSessionNotFound reading foreign messages, got %v", err)
	}
}

func TestTranslateConcurrentRequestRejected(t *testing.T) {
	gen := &fakeGenerator{translation: &genai.Translation{Translation: "x", Explanation: "y"}}
	store := newFakeChatStore()
	svc, _ := newTranslateService(gen, store)

	svc.mu.Lock()
	svc.inFlight[1] = true
	svc.mu.Unlock()

	_, _, err := svc.Translate(context.Background(), 1, "", "halo", models.ModeCasual)
	if !errors.Is(err, ErrTranslationPending) {
		t.Errorf("expected ErrTranslationPending, got %v", err)
	}

	// A different user is unaffected
	if _, _, err := svc.Translate(context.Background(), 2, "", "halo", models.ModeCasual); err != nil {
		t.Errorf("other user should translate fine, got %v", err)
	}
}
