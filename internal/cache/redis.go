package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(url string) (*RedisCache, error) {
	client := redis.NewClient(
		&redis.Options{
			Addr:     url,
			Password: "",
			DB:       0,
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", url, err)
	}

	return &RedisCache{Client: client}, nil
}

func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func (r *RedisCache) Close() error {
	return r.Client.Close()
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string, dest any) error {
	data, err := r.Client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

/*
* login sessions
 */

// create a session under a fresh random token, the session expires after ttl
func (r *RedisCache) CreateSession(ctx context.Context, data SessionData, ttl time.Duration) (token string, err error) {
	token = uuid.NewString()
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	if err := r.Set(ctx, MakeSessionKey(token), data, ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (r *RedisCache) GetSession(ctx context.Context, token string) (*SessionData, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	var data SessionData
	if err := r.Get(ctx, MakeSessionKey(token), &data); err != nil {
		// expired or never issued
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &data, nil
}

// deleting a missing session is not an error
func (r *RedisCache) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.Client.Del(ctx, MakeSessionKey(token)).Err()
}
