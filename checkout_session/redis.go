package checkout_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "checkout"

type redisProvider struct {
	client redis.Cmdable
	// ttl of zero keeps entries until they are removed.
	ttl time.Duration
}

func NewRedisProvider(client redis.Cmdable, ttl time.Duration) Provider {
	return &redisProvider{client: client, ttl: ttl}
}

func (p *redisProvider) Open(sessionID string) Store {
	return &redisStore{client: p.client, ttl: p.ttl, sessionID: sessionID}
}

type redisStore struct {
	client    redis.Cmdable
	ttl       time.Duration
	sessionID string
}

func (s *redisStore) redisKey(key Key) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, s.sessionID, key)
}

func (s *redisStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	value, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key Key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.redisKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

func (s *redisStore) Remove(ctx context.Context, key Key) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s from redis: %w", key, err)
	}
	return nil
}

func (s *redisStore) ClearAll(ctx context.Context) error {
	keys := make([]string, 0, len(Keys))
	for _, key := range Keys {
		keys = append(keys, s.redisKey(key))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear checkout state in redis: %w", err)
	}
	return nil
}
