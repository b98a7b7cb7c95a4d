package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultKey           = "helpscout:token"
	DefaultLockKey       = "helpscout:token:refresh"
	DefaultLockTTL       = 15 * time.Second
	DefaultRetryInterval = 100 * time.Millisecond
)

type Redis struct {
	client redis.UniversalClient
	key    string
}

var _ Store = (*Redis)(nil)

type RedisOption func(*Redis)

func WithKey(key string) RedisOption {
	return func(r *Redis) {
		if key != "" {
			r.key = key
		}
	}
}

func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		key:    DefaultKey,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Redis) Load(ctx context.Context) (Token, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Token{}, ErrNotFound //nolint:exhaustruct
		}

		return Token{}, fmt.Errorf("tokenstore: failed to load %q: %w", r.key, err) //nolint:exhaustruct
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrDecodeToken, err) //nolint:exhaustruct
	}

	return token, nil
}

// Save stores the token until it expires. Tokens that are already expired
// remove the key instead.
func (r *Redis) Save(ctx context.Context, token Token) error {
	var ttl time.Duration

	if !token.ExpiresAt.IsZero() {
		ttl = time.Until(token.ExpiresAt)
		if ttl <= 0 {
			return r.Delete(ctx)
		}
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeToken, err)
	}

	if err := r.client.Set(ctx, r.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("tokenstore: failed to save %q: %w", r.key, err)
	}

	return nil
}

func (r *Redis) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("tokenstore: failed to delete %q: %w", r.key, err)
	}

	return nil
}

type RedisLocker struct {
	client        *redislock.Client
	key           string
	ttl           time.Duration
	retryInterval time.Duration
}

var _ Locker = (*RedisLocker)(nil)

type LockerOption func(*RedisLocker)

func WithLockKey(key string) LockerOption {
	return func(l *RedisLocker) {
		if key != "" {
			l.key = key
		}
	}
}

func WithLockTTL(ttl time.Duration) LockerOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

func WithRetryInterval(interval time.Duration) LockerOption {
	return func(l *RedisLocker) {
		if interval > 0 {
			l.retryInterval = interval
		}
	}
}

func NewRedisLocker(client redis.UniversalClient, opts ...LockerOption) *RedisLocker {
	l := &RedisLocker{
		client:        redislock.New(client),
		key:           DefaultLockKey,
		ttl:           DefaultLockTTL,
		retryInterval: DefaultRetryInterval,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithLock waits for the refresh lock, polling until ctx is done (or the
// lock TTL elapses when ctx has no deadline), then runs fn while holding it.
func (l *RedisLocker) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	lock, err := l.client.Obtain(ctx, l.key, l.ttl, &redislock.Options{ //nolint:exhaustruct
		RetryStrategy: redislock.LinearBackoff(l.retryInterval),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			return ErrLockNotObtained
		}

		return fmt.Errorf("tokenstore: failed to obtain lock %q: %w", l.key, err)
	}

	defer func() {
		if releaseErr := lock.Release(context.WithoutCancel(ctx)); releaseErr != nil {
			log.Warn().
				Err(releaseErr).
				Str("key", l.key).
				Msg("Failed to release token refresh lock")
		}
	}()

	return fn(ctx)
}
