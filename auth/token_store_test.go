package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTokenStore(client), mr
}

func TestIssueAndResolve(t *testing.T) {
	store, _ := newTestTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, token, 2*tokenByteLength)

	userId, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userId)
}

func TestIssueReturnsFreshTokens(t *testing.T) {
	store, _ := newTestTokenStore(t)
	ctx := context.Background()

	first, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// both stay valid until they expire
	userId, err := store.Resolve(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userId)
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newTestTokenStore(t)

	_, err := store.Resolve(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestTokenExpiry(t *testing.T) {
	store, mr := newTestTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(25 * time.Hour)

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestRevoke(t *testing.T) {
	store, _ := newTestTokenStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, token))
	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnknownToken)

	// revoking twice is fine
	require.NoError(t, store.Revoke(ctx, token))
}
