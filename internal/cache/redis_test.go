package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs-lzh/movie-booking/internal/testutil"
)

func TestSession_CreateGetDelete(t *testing.T) {
	client, _ := testutil.NewTestRedis(t)
	c := NewRedisCacheFromClient(client)
	ctx := context.Background()

	token, err := c.CreateSession(ctx, SessionData{UserID: 7, Username: "alice"}, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := c.GetSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.False(t, got.IsAdmin)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, c.DeleteSession(ctx, token))
	_, err = c.GetSession(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// second delete is harmless
	assert.NoError(t, c.DeleteSession(ctx, token))
}

func TestSession_TokensAreDistinct(t *testing.T) {
	client, _ := testutil.NewTestRedis(t)
	c := NewRedisCacheFromClient(client)
	ctx := context.Background()

	a, err := c.CreateSession(ctx, SessionData{UserID: 1, Username: "admin", IsAdmin: true}, time.Hour)
	require.NoError(t, err)
	b, err := c.CreateSession(ctx, SessionData{UserID: 1, Username: "admin", IsAdmin: true}, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSession_Expires(t *testing.T) {
	client, srv := testutil.NewTestRedis(t)
	c := NewRedisCacheFromClient(client)
	ctx := context.Background()

	token, err := c.CreateSession(ctx, SessionData{UserID: 1, Username: "bob"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, srv.Exists(MakeSessionKey(token)))

	srv.FastForward(2 * time.Minute)

	_, err = c.GetSession(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSession_UnknownToken(t *testing.T) {
	client, _ := testutil.NewTestRedis(t)
	c := NewRedisCacheFromClient(client)

	_, err := c.GetSession(context.Background(), "not-a-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = c.GetSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSession_StoredAsJSON(t *testing.T) {
	client, srv := testutil.NewTestRedis(t)
	c := NewRedisCacheFromClient(client)

	token, err := c.CreateSession(context.Background(), SessionData{UserID: 3, Username: "carol", IsAdmin: true}, time.Hour)
	require.NoError(t, err)

	raw, err := srv.Get(MakeSessionKey(token))
	require.NoError(t, err)
	assert.Contains(t, raw, `"user_id":3`)
	assert.Contains(t, raw, `"username":"carol"`)
	assert.Contains(t, raw, `"is_admin":true`)
}
