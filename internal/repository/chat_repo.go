package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aripbudiman/lingoecho/internal/database"
	"github.com/aripbudiman/lingoecho/internal/models"
)

// ChatRepository handles database operations for chat sessions and messages
type ChatRepository struct {
	db *database.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *database.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateSessionWithMessage creates a new chat session and its first message
// in a single transaction, so a session never exists without a message.
func (r *ChatRepository) CreateSessionWithMessage(userID int64, title string, msg *models.Message) (*models.ChatSession, *models.Message, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	session := &models.ChatSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
	}
	_, err = tx.Exec(
		`INSERT INTO chat_sessions (id, user_id, title, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.UserID, session.Title, session.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	saved := *msg
	saved.ID = uuid.New().String()
	saved.SessionID = session.ID
	saved.UserID = userID
	saved.CreatedAt = now
	_, err = tx.Exec(
		`INSERT INTO messages (id, session_id, user_id, source_text, translated_text, explanation, mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.SessionID, saved.UserID, saved.SourceText, saved.TranslatedText, saved.Explanation, saved.Mode, saved.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit: %w", err)
	}
	return session, &saved, nil
}

// AppendMessage adds a message to an existing session owned by the user
func (r *ChatRepository) AppendMessage(userID int64, sessionID string, msg *models.Message) (*models.Message, error) {
	session, err := r.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found for user", sessionID)
	}

	saved := *msg
	saved.ID = uuid.New().String()
	saved.SessionID = sessionID
	saved.UserID = userID
	saved.CreatedAt = time.Now()
	_, err = r.db.Exec(
		`INSERT INTO messages (id, session_id, user_id, source_text, translated_text, explanation, mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.SessionID, saved.UserID, saved.SourceText, saved.TranslatedText, saved.Explanation, saved.Mode, saved.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &saved, nil
}

// GetSession retrieves one chat session owned by the user
func (r *ChatRepository) GetSession(userID int64, sessionID string) (*models.ChatSession, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE id = ? AND user_id = ?
	`
	session := &models.ChatSession{}
	err := r.db.QueryRow(query, sessionID, userID).Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	return session, nil
}

// GetSessions retrieves all chat sessions for a user, newest first
func (r *ChatRepository) GetSessions(userID int64) ([]*models.ChatSession, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.ChatSession{}
	for rows.Next() {
		session := &models.ChatSession{}
		if err := rows.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetMessages retrieves the messages of a session owned by the user,
// oldest first.
func (r *ChatRepository) GetMessages(userID int64, sessionID string) ([]*models.Message, error) {
	query := `
		SELECT id, session_id, user_id, source_text, translated_text, explanation, mode, created_at
		FROM messages
		WHERE session_id = ? AND user_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.UserID,
			&msg.SourceText,
			&msg.TranslatedText,
			&msg.Explanation,
			&msg.Mode,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
