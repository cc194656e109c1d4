package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	// Tokens are 20 random bytes hex encoded, same shape as the classic
	// DRF-style 40 char auth token.
	tokenByteLength = 20

	defaultTokenTTLHours = 24

	tokenKeyPrefix = "token__"
)

// ErrUnknownToken is returned when a token is expired or was never issued.
var ErrUnknownToken = errors.New("unknown token")

// TokenStore issues opaque bearer tokens and resolves them back to user ids.
// Tokens live in Redis under "token__<value>" with a TTL, so a restart of the
// api server does not invalidate sessions.
type TokenStore struct {
	inner *redis.Client
	ttl   time.Duration
}

func NewTokenStore(client *redis.Client) *TokenStore {
	ttlHours := defaultTokenTTLHours
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttlHours = parsed
		}
	}
	return &TokenStore{
		inner: client,
		ttl:   time.Duration(ttlHours) * time.Hour,
	}
}

// Issue creates a fresh token for the user and stores it with the TTL.
func (s *TokenStore) Issue(ctx context.Context, userId string) (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "fail to generate token")
	}
	token := hex.EncodeToString(buf)

	if err := s.inner.Set(ctx, tokenKey(token), userId, s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "fail to store token")
	}
	return token, nil
}

// Resolve maps a presented token back to the owning user id. Returns
// ErrUnknownToken for tokens that expired or were never issued.
func (s *TokenStore) Resolve(ctx context.Context, token string) (string, error) {
	userId, err := s.inner.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return "", ErrUnknownToken
	}
	if err != nil {
		return "", errors.Wrap(err, "fail to resolve token")
	}
	return userId, nil
}

// Revoke drops a token. Revoking an unknown token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.inner.Del(ctx, tokenKey(token)).Err()
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}
