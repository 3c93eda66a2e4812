package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"yatube/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrTokenGeneration = errors.New("failed to generate session token")
	ErrSessionCreation = errors.New("failed to create session")
	ErrSessionDeletion = errors.New("failed to delete session")
)

const (
	DefaultSessionDuration = 24 * time.Hour
	// TokenLength is in bytes; the hex token is twice as long.
	TokenLength = 32
)

type SessionService struct {
	db  *Database
	ttl time.Duration
	now func() time.Time
}

// NewSessionService creates sessions that live for ttl. A non-positive ttl
// falls back to DefaultSessionDuration.
func NewSessionService(db *Database, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionDuration
	}
	return &SessionService{db: db, ttl: ttl, now: time.Now}
}

// CreateSession replaces any existing sessions of the user with a new one.
func (ss *SessionService) CreateSession(ctx context.Context, userID int) (*models.Session, error) {
	if err := ss.DeleteUserSessions(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to drop old sessions: %v", err)
	}

	token, err := ss.generateToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	now := ss.now()
	expires := now.Add(ss.ttl)

	query := `INSERT INTO sessions (token, user_id, expires, created) VALUES (?, ?, ?, ?)`
	_, err = ss.db.DBConn.ExecContext(ctx, query, token, userID, toUnix(expires), toUnix(now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreation, err)
	}

	return &models.Session{
		Token:   token,
		UserID:  userID,
		Expires: expires,
		Created: now,
	}, nil
}

// GetSession returns a live session. Expired sessions are removed on sight.
func (ss *SessionService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	var expires, created int64

	query := `SELECT token, user_id, expires, created FROM sessions WHERE token = ?`
	err := ss.db.DBConn.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&expires,
		&created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	session.Expires = fromUnix(expires)
	session.Created = fromUnix(created)

	if ss.now().After(session.Expires) {
		_ = ss.DeleteSession(ctx, token)
		return nil, ErrSessionExpired
	}

	return &session, nil
}

func (ss *SessionService) GetUserBySession(ctx context.Context, token string) (*models.User, error) {
	session, err := ss.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	var user models.User
	var created int64
	query := `SELECT id, username, email, password, created FROM users WHERE id = ?`
	err = ss.db.DBConn.QueryRowContext(ctx, query, session.UserID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = ss.DeleteSession(ctx, token)
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Created = fromUnix(created)

	return &user, nil
}

func (ss *SessionService) DeleteSession(ctx context.Context, token string) error {
	result, err := ss.db.DBConn.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionDeletion, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (ss *SessionService) DeleteUserSessions(ctx context.Context, userID int) error {
	_, err := ss.db.DBConn.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionDeletion, err)
	}
	return nil
}

// CleanupExpiredSessions deletes every expired session and reports how many went.
func (ss *SessionService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	result, err := ss.db.DBConn.ExecContext(ctx, `DELETE FROM sessions WHERE expires < ?`, toUnix(ss.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up expired sessions: %v", err)
	}
	return result.RowsAffected()
}

func (ss *SessionService) generateToken() (string, error) {
	bytes := make([]byte, TokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
