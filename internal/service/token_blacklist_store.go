package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records access tokens revoked before their natural expiry.
// Entries age out on their own; nothing sweeps them actively.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type RedisTokenBlacklist struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisTokenBlacklist(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisTokenBlacklist {
	if prefix == "" {
		prefix = "token_blacklist"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisTokenBlacklist{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisTokenBlacklist) Revoke(ctx context.Context, token string) error {
	if s.client == nil {
		return nil
	}
	return s.client.Set(ctx, s.key(token), "1", s.ttl).Err()
}

func (s *RedisTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	_, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisTokenBlacklist) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%s:%s", s.prefix, hex.EncodeToString(sum[:]))
}
