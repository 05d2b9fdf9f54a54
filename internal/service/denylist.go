package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist remembers revoked token ids until the tokens would have
// expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisDenylist struct {
	redis  *redis.Client
	prefix string
}

var _ TokenDenylist = (*RedisDenylist)(nil)

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{
		redis:  client,
		prefix: "revoked_token",
	}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.redis.Set(ctx, d.key(jti), 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.redis.Get(ctx, d.key(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *RedisDenylist) key(jti string) string {
	return d.prefix + ":" + jti
}
