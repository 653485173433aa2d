package syncdoc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RedisStore implements Store on Redis. The document lives under a
// regular key; change notification rides a pub/sub channel derived from
// the same path. Messages are wakeups only: on each one the subscriber
// reads the stored key, so writes that pile up before a slow delivery
// collapse to the latest document instead of replaying every version.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisStoreConfig holds Redis document store settings
type RedisStoreConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// DocumentTTL bounds how long an untouched session document survives.
	// Zero means no expiry.
	DocumentTTL time.Duration
}

// NewRedisStore creates a Redis-backed document store
func NewRedisStore(cfg RedisStoreConfig, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		keyPrefix: "syncdoc:",
		ttl:       cfg.DocumentTTL,
		logger:    logger,
	}, nil
}

// NewRedisStoreWithClient creates a store with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisStoreWithClient(client *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: "syncdoc:",
		logger:    logger,
	}
}

func (s *RedisStore) key(path string) string {
	return s.keyPrefix + path
}

func (s *RedisStore) channel(path string) string {
	return s.keyPrefix + "notify:" + path
}

// Write replaces the document and wakes subscribers
func (s *RedisStore) Write(ctx context.Context, path string, doc []byte) error {
	if err := s.client.Set(ctx, s.key(path), doc, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	if err := s.client.Publish(ctx, s.channel(path), path).Err(); err != nil {
		return fmt.Errorf("failed to notify subscribers of %s: %w", path, err)
	}
	return nil
}

// Read returns the current document at path
func (s *RedisStore) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return data, nil
}

// Subscribe listens on the path's notification channel. Each wakeup
// delivers the key's content at read time, never the message payload,
// so the subscriber always observes the latest write. The returned
// Unsubscribe blocks until the delivery goroutine has stopped, so no
// callback runs after it returns.
func (s *RedisStore) Subscribe(ctx context.Context, path string, onChange func(doc []byte)) (Unsubscribe, error) {
	pubsub := s.client.Subscribe(ctx, s.channel(path))

	// Force the subscription to be established before returning so a
	// publish immediately after Subscribe cannot be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", path, err)
	}

	var mu sync.Mutex
	closed := false
	done := make(chan struct{})

	go func() {
		defer close(done)
		for range pubsub.Channel() {
			mu.Lock()
			if closed {
				mu.Unlock()
				return
			}
			doc, err := s.client.Get(ctx, s.key(path)).Bytes()
			if err != nil {
				if !errors.Is(err, redis.Nil) {
					s.logger.Warn("failed to read document on wakeup",
						zap.String("path", path),
						zap.Error(err),
					)
				}
				mu.Unlock()
				continue
			}
			onChange(doc)
			mu.Unlock()
		}
	}()

	unsubscribe := func() {
		mu.Lock()
		if closed {
			mu.Unlock()
			return
		}
		closed = true
		mu.Unlock()

		if err := pubsub.Close(); err != nil {
			s.logger.Warn("failed to close document subscription",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		<-done
	}

	return unsubscribe, nil
}

// Delete removes the document at path
func (s *RedisStore) Delete(ctx context.Context, path string) error {
	if err := s.client.Del(ctx, s.key(path)).Err(); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}
	return nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)
