package cache

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// KV is the slice of pkg/redis.Client the store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RedisStore keeps envelopes as JSON strings. Keys expire after the retention
// period so an abandoned dataset does not linger forever.
type RedisStore struct {
	kv        KV
	retention time.Duration
	logg      *logger.Logger
}

func NewRedisStore(kv KV, retention time.Duration, logg *logger.Logger) *RedisStore {
	if logg == nil {
		logg = logger.Nop()
	}
	return &RedisStore{kv: kv, retention: retention, logg: logg}
}

func (s *RedisStore) Read(ctx context.Context, key string) (Envelope, bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logg.WarnErr(s.logg.WithField(ctx, "cache_key", key), "cache.redis.read_failed", err)
		}
		return Envelope{}, false
	}
	env, err := decode([]byte(raw))
	if err != nil {
		s.logg.WarnErr(s.logg.WithField(ctx, "cache_key", key), "cache.redis.decode_failed", err)
		return Envelope{}, false
	}
	return env, true
}

func (s *RedisStore) Write(ctx context.Context, key string, env Envelope) error {
	body, err := encode(env)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(body), s.retention)
}
