package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "intents-agent:session:"

// RedisStore is a durable session store backed by Redis. It is a drop-in
// substitution for MemoryStore when sessions must survive process restarts;
// capacity bounding is delegated to the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at addr.
func NewRedisStore(addr string, db int, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl:    ttl,
	}
}

// Get returns the session for the conversation, or nil when none exists.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &s, nil
}

// Put stores the session with the configured TTL.
func (r *RedisStore) Put(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Delete removes a session.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
