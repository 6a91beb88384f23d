package models

import (
	"fmt"
	"time"
)

// Mode is the tone selector applied to a translation request
type Mode string

const (
	ModeCasual Mode = "casual"
	ModeFormal Mode = "formal"
)

// ParseMode validates a tone selector received from a client. An empty
// value defaults to casual.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCasual, ModeFormal:
		return Mode(s), nil
	case "":
		return ModeCasual, nil
	}
	return "", fmt.Errorf("invalid mode %q", s)
}

// ChatSession is a titled thread grouping one user's translation turns.
// IDs are server-generated, titles derived from the first input.
type ChatSession struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"timestamp"`
}

// Message is one translation turn inside a session. Messages are append-only.
type Message struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"-"`
	UserID         int64     `json:"-"`
	SourceText     string    `json:"indonesian"`
	TranslatedText string    `json:"english"`
	Explanation    string    `json:"explanation"`
	Mode           Mode      `json:"mode"`
	CreatedAt      time.Time `json:"timestamp"`
}

// sessionTitleLimit is the maximum number of characters carried into a
// derived session title before truncation.
const sessionTitleLimit = 30

// DeriveSessionTitle builds a session title from the first submitted text:
// the first 30 characters, with an ellipsis when the input is longer.
func DeriveSessionTitle(source string) string {
	runes := []rune(source)
	if len(runes) <= sessionTitleLimit {
		return source
	}
	return string(runes[:sessionTitleLimit]) + "..."
}
