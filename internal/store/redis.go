package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/marco/popcorn/internal/config"
)

// RedisSlot implements Slot as a single Redis string key.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot connects to Redis and verifies the connection.
func NewRedisSlot(ctx context.Context, cfg config.RedisConfig, key string) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Debug("connected to Redis", "addr", cfg.Addr)
	return &RedisSlot{client: client, key: cfg.KeyPrefix + key}, nil
}

// Get returns the stored value.
func (s *RedisSlot) Get(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	return data, nil
}

// Put stores data with no expiry.
func (s *RedisSlot) Put(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisSlot) Close() error {
	return s.client.Close()
}
