// Package blacklist stores revoked access tokens until they would have
// expired anyway.
package blacklist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

type Store interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// key hashes the token so raw credentials never sit in the store.
func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RedisStore shares revocations between every instance of the service.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "token:blacklist:"}
}

func (s *RedisStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+key(token), 1, ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryStore is the single-instance fallback used when redis is not configured.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(time.Hour, 10*time.Minute)}
}

func (s *MemoryStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.c.Set(key(token), struct{}{}, ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, token string) (bool, error) {
	_, found := s.c.Get(key(token))
	return found, nil
}
