package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mirojov/clubhub/pkg"

	"github.com/go-redis/redis/v8"
)

const resetTokenKeyPrefix = "clubhub-reset-token||"

var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// ResetTokenStore keeps short-lived password reset tokens in redis,
// mapping token -> user id
type ResetTokenStore struct {
	redisClient *redis.Client
	ttl         time.Duration

	RandStringFunc func(s int) (string, error)
}

func NewResetTokenStore(ttl time.Duration, redisClient *redis.Client) *ResetTokenStore {
	return &ResetTokenStore{
		redisClient:    redisClient,
		ttl:            ttl,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (s *ResetTokenStore) Issue(ctx context.Context, userID string) (string, time.Time, error) {
	token, err := s.RandStringFunc(32)
	if err != nil {
		return "", time.Time{}, err
	}

	key := resetTokenKeyPrefix + token
	if err := s.redisClient.Set(ctx, key, userID, s.ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("store reset token: %w", err)
	}

	return token, time.Now().Add(s.ttl), nil
}

// Consume invalidates the token and returns the user it was issued for.
// A token can be consumed exactly once.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	key := resetTokenKeyPrefix + token
	cmd := s.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetTokenInvalid
		}
		return "", err
	}

	userID := cmd.Val()
	if userID == "" {
		return "", ErrResetTokenInvalid
	}

	if err := s.redisClient.Del(ctx, key).Err(); err != nil {
		return "", fmt.Errorf("invalidate reset token: %w", err)
	}

	return userID, nil
}
