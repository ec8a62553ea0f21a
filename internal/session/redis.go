package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "ajo:session:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Activate(ctx context.Context, userID uint, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, key(userID), tokenID, ttl).Err()
}

func (s *RedisStore) IsActive(ctx context.Context, userID uint, tokenID string) (bool, error) {
	current, err := s.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return current == tokenID, nil
}

func (s *RedisStore) Revoke(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, key(userID)).Err()
}

func key(userID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}
