package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Skotchmaster/noteet/internal/models"
)

const refreshKeyPrefix = "token:refresh:"

// RedisTokens keeps issued pairs in redis keyed by refresh token, with the
// access token as the value. Keys carry no TTL: refresh tokens never expire.
type RedisTokens struct {
	client *redis.Client
}

func NewRedisTokens(ctx context.Context, redisURL string) (*RedisTokens, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisTokens{client: client}, nil
}

func NewRedisTokensFromClient(client *redis.Client) *RedisTokens {
	return &RedisTokens{client: client}
}

func (r *RedisTokens) SaveTokenPair(ctx context.Context, access, refresh string) error {
	ok, err := r.client.SetNX(ctx, refreshKeyPrefix+refresh, access, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (r *RedisTokens) FindTokenPair(ctx context.Context, refresh string) (*models.TokenPair, error) {
	access, err := r.client.Get(ctx, refreshKeyPrefix+refresh).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ConsumeRefreshToken relies on GETDEL so that read and delete are one
// server-side step.
func (r *RedisTokens) ConsumeRefreshToken(ctx context.Context, refresh string) (bool, error) {
	_, err := r.client.GetDel(ctx, refreshKeyPrefix+refresh).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisTokens) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisTokens) Close() error {
	return r.client.Close()
}
