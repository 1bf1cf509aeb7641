package tokens

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the token keys.
const DefaultRedisPrefix = "courtbook:session:"

// RedisStore keeps the token pair as two keys whose TTL is the cookie max
// age. Expired keys vanish on their own.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisStore(rdb redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) AccessToken(ctx context.Context) (string, error) {
	return s.value(ctx, AccessTokenCookie)
}

func (s *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	return s.value(ctx, RefreshTokenCookie)
}

func (s *RedisStore) SetTokens(ctx context.Context, access, refresh string) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(AccessTokenCookie), access, MaxAge)
		p.Set(ctx, s.key(RefreshTokenCookie), refresh, MaxAge)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set tokens: %w", err)
	}
	return nil
}

func (s *RedisStore) RemoveTokens(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key(AccessTokenCookie), s.key(RefreshTokenCookie)).Err(); err != nil {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

// Cookies rebuilds the entries from the keys; Expires comes from the
// remaining TTL.
func (s *RedisStore) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	names := []string{AccessTokenCookie, RefreshTokenCookie}
	values := make([]*redis.StringCmd, len(names))
	ttls := make([]*redis.DurationCmd, len(names))

	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, name := range names {
			values[i] = p.Get(ctx, s.key(name))
			ttls[i] = p.PTTL(ctx, s.key(name))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list cookies: %w", err)
	}

	now := time.Now()
	var out []*http.Cookie
	for i, name := range names {
		v, err := values[i].Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", name, err)
		}
		c := NewCookie(name, v, now)
		if ttl := ttls[i].Val(); ttl > 0 {
			c.Expires = now.Add(ttl).UTC()
			c.MaxAge = int(ttl / time.Second)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func (s *RedisStore) value(ctx context.Context, name string) (string, error) {
	v, err := s.rdb.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", name, err)
	}
	return v, nil
}
