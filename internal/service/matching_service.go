package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/aripbudiman/lingoecho/internal/genai"
	"github.com/aripbudiman/lingoecho/internal/metrics"
	"github.com/aripbudiman/lingoecho/internal/validation"
)

var (
	ErrNoActiveGame = errors.New("no active matching game")
	ErrInvalidPick  = errors.New("invalid pick")
)

// Pick sides for the matching game.
const (
	SideIndonesian = "indonesian"
	SideEnglish    = "english"
)

// matchingGame is the server-side state of one user's matching game.
// The two columns are shuffled independently so pairs never line up.
type matchingGame struct {
	Theme   string
	Pairs   []genai.MatchingPair
	Left    []string
	Right   []string
	Matched map[string]bool
	answers map[string]string

	LeftPick  string
	RightPick string
}

// MatchingEntry is one column entry as shown to the client.
type MatchingEntry struct {
	Word    string `json:"word"`
	Matched bool   `json:"matched"`
	Picked  bool   `json:"picked"`
}

// MatchingView is the client-facing state of a matching game. Result
// reports the outcome of the pick that completed an evaluation: "correct",
// "incorrect", or empty when no evaluation happened.
type MatchingView struct {
	Theme        string          `json:"theme"`
	Indonesian   []MatchingEntry `json:"indonesian"`
	English      []MatchingEntry `json:"english"`
	MatchedCount int             `json:"matchedCount"`
	Total        int             `json:"total"`
	Complete     bool            `json:"complete"`
	Result       string          `json:"result,omitempty"`
}

// MatchingService manages word matching games. Games live entirely in
// memory; nothing is persisted.
type MatchingService struct {
	gen       PairGenerator
	collector *metrics.Collector
	pairCount int

	mu    sync.Mutex
	games map[int64]*matchingGame
}

// NewMatchingService creates a new matching service
func NewMatchingService(gen PairGenerator, collector *metrics.Collector, pairCount int) *MatchingService {
	return &MatchingService{
		gen:       gen,
		collector: collector,
		pairCount: pairCount,
		games:     make(map[int64]*matchingGame),
	}
}

// Start generates a fresh game for the theme, replacing any game in
// progress.
func (s *MatchingService) Start(ctx context.Context, userID int64, theme string) (*MatchingView, error) {
	if err := validation.ValidateTheme(theme); err != nil {
		return nil, err
	}

	start := time.Now()
	pairs, err := s.gen.MatchingPairs(ctx, theme, s.pairCount)
	s.collector.RecordGeneration("matching", err, time.Since(start))
	if err != nil {
		log.Printf("Matching generation failed for user %d: %v", userID, err)
		return nil, fmt.Errorf("matching generation failed: %w", err)
	}

	game := &matchingGame{
		Theme:   theme,
		Pairs:   pairs,
		Left:    make([]string, len(pairs)),
		Right:   make([]string, len(pairs)),
		Matched: make(map[string]bool),
		answers: make(map[string]string, len(pairs)),
	}
	for i, p := range pairs {
		game.Left[i] = p.Indonesian
		game.Right[i] = p.English
		game.answers[p.Indonesian] = p.English
	}
	rand.Shuffle(len(game.Left), func(i, j int) {
		game.Left[i], game.Left[j] = game.Left[j], game.Left[i]
	})
	rand.Shuffle(len(game.Right), func(i, j int) {
		game.Right[i], game.Right[j] = game.Right[j], game.Right[i]
	})

	s.mu.Lock()
	s.games[userID] = game
	view := viewOf(game, "")
	s.mu.Unlock()
	return view, nil
}

// Pick selects a word from one column. When both columns have a pick the
// pair is evaluated: a correct pair is recorded as matched, an incorrect
// one is not, and both picks are cleared either way.
func (s *MatchingService) Pick(userID int64, side, word string) (*MatchingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[userID]
	if !ok {
		return nil, ErrNoActiveGame
	}

	switch side {
	case SideIndonesian:
		if !containsWord(game.Left, word) || game.Matched[word] {
			return nil, ErrInvalidPick
		}
		game.LeftPick = word
	case SideEnglish:
		if !containsWord(game.Right, word) || game.matchedEnglish(word) {
			return nil, ErrInvalidPick
		}
		game.RightPick = word
	default:
		return nil, ErrInvalidPick
	}

	result := ""
	if game.LeftPick != "" && game.RightPick != "" {
		if game.answers[game.LeftPick] == game.RightPick {
			game.Matched[game.LeftPick] = true
			result = "correct"
		} else {
			result = "incorrect"
		}
		game.LeftPick = ""
		game.RightPick = ""
	}

	return viewOf(game, result), nil
}

// Reset discards the user's current game
func (s *MatchingService) Reset(userID int64) {
	s.mu.Lock()
	delete(s.games, userID)
	s.mu.Unlock()
}

// View returns the current game state
func (s *MatchingService) View(userID int64) (*MatchingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[userID]
	if !ok {
		return nil, ErrNoActiveGame
	}
	return viewOf(game, ""), nil
}

func (g *matchingGame) matchedEnglish(word string) bool {
	for indonesian, english := range g.answers {
		if english == word && g.Matched[indonesian] {
			return true
		}
	}
	return false
}

func viewOf(game *matchingGame, result string) *MatchingView {
	view := &MatchingView{
		Theme:        game.Theme,
		Indonesian:   make([]MatchingEntry, len(game.Left)),
		English:      make([]MatchingEntry, len(game.Right)),
		MatchedCount: len(game.Matched),
		Total:        len(game.Pairs),
		Complete:     len(game.Matched) == len(game.Pairs),
		Result:       result,
	}
	for i, w := range game.Left {
		view.Indonesian[i] = MatchingEntry{
			Word:    w,
			Matched: game.Matched[w],
			Picked:  game.LeftPick == w,
		}
	}
	for i, w := range game.Right {
		view.English[i] = MatchingEntry{
			Word:    w,
			Matched: game.matchedEnglish(w),
			Picked:  game.RightPick == w,
		}
	}
	return view
}

func containsWord(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
