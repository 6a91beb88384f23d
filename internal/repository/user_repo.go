package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aripbudiman/lingoecho/internal/database"
	"github.com/aripbudiman/lingoecho/internal/models"
)

// UserRepository handles database operations for users and auth sessions
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user into the database
func (r *UserRepository) CreateUser(email, passwordHash, name string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// CreateOAuthUser inserts a user authenticated by an external provider
func (r *UserRepository) CreateOAuthUser(email, name, photoURL, provider, subject string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, photo_url, oauth_provider, oauth_subject)
		VALUES (?, '', ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, email, name, photoURL, provider, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	return &models.User{
		ID:            id,
		Email:         email,
		Name:          name,
		PhotoURL:      photoURL,
		OAuthProvider: provider,
		OAuthSubject:  subject,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

const userColumns = `id, email, password_hash, name, COALESCE(photo_url, ''), COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.PhotoURL,
		&user.OAuthProvider,
		&user.OAuthSubject,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRow(query, email))
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRow(query, id))
}

// GetUserByOAuth retrieves a user by external provider identity
func (r *UserRepository) GetUserByOAuth(provider, subject string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE oauth_provider = ? AND oauth_subject = ?`
	return scanUser(r.db.QueryRow(query, provider, subject))
}

// LinkOAuthProvider attaches an external identity to an existing user
func (r *UserRepository) LinkOAuthProvider(userID int64, provider, subject, photoURL string) error {
	query := `
		UPDATE users
		SET oauth_provider = ?, oauth_subject = ?, photo_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, provider, subject, photoURL, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth provider: %w", err)
	}
	return nil
}

// UpdatePassword sets a new password hash for a user
func (r *UserRepository) UpdatePassword(userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.Exec(query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// CreateAuthSession creates a new login session for a user
func (r *UserRepository) CreateAuthSession(sessionID string, userID int64, expiresAt time.Time) (*models.AuthSession, error) {
	query := `
		INSERT INTO auth_sessions (id, user_id, expires_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(query, sessionID, userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.AuthSession{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetAuthSession retrieves a login session by ID
func (r *UserRepository) GetAuthSession(sessionID string) (*models.AuthSession, error) {
	query := `
		SELECT id, user_id, expires_at, created_at
		FROM auth_sessions
		WHERE id = ?
	`
	session := &models.AuthSession{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteAuthSession removes a login session
func (r *UserRepository) DeleteAuthSession(sessionID string) error {
	query := `DELETE FROM auth_sessions WHERE id = ?`
	_, err := r.db.Exec(query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredAuthSessions removes all expired login sessions
func (r *UserRepository) DeleteExpiredAuthSessions() (int64, error) {
	query := `DELETE FROM auth_sessions WHERE expires_at < ?`
	result, err := r.db.Exec(query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

// CreatePasswordResetToken stores a reset token for a user
func (r *UserRepository) CreatePasswordResetToken(userID int64, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(query, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// GetPasswordResetToken retrieves an unused reset token
func (r *UserRepository) GetPasswordResetToken(token string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, used, created_at
		FROM password_reset_tokens
		WHERE token = ? AND used = ?
	`
	prt := &models.PasswordResetToken{}
	err := r.db.QueryRow(query, token, false).Scan(
		&prt.ID,
		&prt.UserID,
		&prt.Token,
		&prt.ExpiresAt,
		&prt.Used,
		&prt.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return prt, nil
}

// DeleteUserPasswordResetTokens removes all reset tokens for a user
func (r *UserRepository) DeleteUserPasswordResetTokens(userID int64) error {
	query := `DELETE FROM password_reset_tokens WHERE user_id = ?`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	return nil
}

// MarkPasswordResetTokenUsed invalidates a reset token after use
func (r *UserRepository) MarkPasswordResetTokenUsed(id int64) error {
	query := `UPDATE password_reset_tokens SET used = ? WHERE id = ?`
	_, err := r.db.Exec(query, true, id)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return nil
}
