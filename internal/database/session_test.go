package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, db, "author")
	ss := NewSessionService(db, time.Hour)

	session, err := ss.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, session.Token, TokenLength*2)

	got, err := ss.GetUserBySession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "author", got.Username)

	// A new login replaces the previous session.
	second, err := ss.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	_, err = ss.GetSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, ss.DeleteSession(ctx, second.Token))
	assert.ErrorIs(t, ss.DeleteSession(ctx, second.Token), ErrSessionNotFound)
}

func TestSessionService_Expiry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	now := time.Now()
	ss := NewSessionService(db, time.Minute)
	ss.now = func() time.Time { return now }

	stale, err := ss.CreateSession(ctx, alice.ID)
	require.NoError(t, err)
	swept, err := ss.CreateSession(ctx, bob.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	_, err = ss.GetSession(ctx, stale.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = ss.GetSession(ctx, stale.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	removed, err := ss.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = ss.GetSession(ctx, swept.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNewSessionService_DefaultTTL(t *testing.T) {
	ss := NewSessionService(nil, 0)
	assert.Equal(t, DefaultSessionDuration, ss.ttl)
}
