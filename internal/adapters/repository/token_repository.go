package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taskhive/core/internal/domain/entities"
	"github.com/taskhive/core/internal/ports"
)

// TokenRepositoryImpl stores refresh tokens in Redis. Each token maps to its
// owner's id, and a reverse key per user allows revoking the active token on
// logout. Expiry is handled by the key TTL.
type TokenRepositoryImpl struct {
	client *redis.Client
}

// NewTokenRepository creates a new Redis-backed token repository
func NewTokenRepository(client *redis.Client) ports.TokenRepository {
	return &TokenRepositoryImpl{client: client}
}

func tokenKey(token string) string {
	return "refresh_token:" + token
}

func userTokenKey(userID uuid.UUID) string {
	return "user_token:" + userID.String()
}

func (r *TokenRepositoryImpl) Store(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tokenKey(token), userID.String(), ttl)
	pipe.Set(ctx, userTokenKey(userID), token, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}

	return nil
}

func (r *TokenRepositoryImpl) UserFor(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return uuid.Nil, entities.ErrInvalidToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, entities.ErrInvalidToken
	}

	return userID, nil
}

func (r *TokenRepositoryImpl) Revoke(ctx context.Context, userID uuid.UUID) error {
	token, err := r.client.Get(ctx, userTokenKey(userID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	pipe.Del(ctx, userTokenKey(userID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}
