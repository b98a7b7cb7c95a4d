package tokenstore_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andyle182810/helpscout/testutil"
	"github.com/andyle182810/helpscout/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errHandlerFailed = errors.New("handler failed")

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		token    tokenstore.Token
		buffer   time.Duration
		expected bool
	}{
		{
			name:     "empty access token",
			token:    tokenstore.Token{AccessToken: "", ExpiresAt: now.Add(time.Hour)},
			buffer:   0,
			expected: false,
		},
		{
			name:     "no expiry",
			token:    tokenstore.Token{AccessToken: "abc", ExpiresAt: time.Time{}},
			buffer:   time.Minute,
			expected: true,
		},
		{
			name:     "expires later",
			token:    tokenstore.Token{AccessToken: "abc", ExpiresAt: now.Add(time.Hour)},
			buffer:   30 * time.Second,
			expected: true,
		},
		{
			name:     "expires inside buffer",
			token:    tokenstore.Token{AccessToken: "abc", ExpiresAt: now.Add(10 * time.Second)},
			buffer:   30 * time.Second,
			expected: false,
		},
		{
			name:     "already expired",
			token:    tokenstore.Token{AccessToken: "abc", ExpiresAt: now.Add(-time.Second)},
			buffer:   0,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.token.Valid(now, tt.buffer))
		})
	}
}

func TestMemory_LoadEmpty(t *testing.T) {
	t.Parallel()

	store := tokenstore.NewMemory()

	_, err := store.Load(t.Context())

	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestMemory_SaveLoadDelete(t *testing.T) {
	t.Parallel()

	store := tokenstore.NewMemory()
	token := tokenstore.Token{AccessToken: "abc", ExpiresAt: time.Now().Add(time.Hour)}

	require.NoError(t, store.Save(t.Context(), token))

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, token, loaded)

	require.NoError(t, store.Delete(t.Context()))

	_, err = store.Load(t.Context())
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestRedis_SaveLoadDelete(t *testing.T) {
	t.Parallel()

	client := testutil.NewRedisClient(t)
	store := tokenstore.NewRedis(client, tokenstore.WithKey("test:token:roundtrip"))

	_, err := store.Load(t.Context())
	require.ErrorIs(t, err, tokenstore.ErrNotFound)

	token := tokenstore.Token{
		AccessToken: "redis-token",
		ExpiresAt:   time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(t.Context(), token))

	loaded, err := store.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, token.AccessToken, loaded.AccessToken)
	require.True(t, token.ExpiresAt.Equal(loaded.ExpiresAt))

	ttl, err := client.TTL(t.Context(), "test:token:roundtrip").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.Delete(t.Context()))

	_, err = store.Load(t.Context())
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestRedis_SaveExpiredTokenRemovesKey(t *testing.T) {
	t.Parallel()

	client := testutil.NewRedisClient(t)
	store := tokenstore.NewRedis(client, tokenstore.WithKey("test:token:expired"))

	require.NoError(t, store.Save(t.Context(), tokenstore.Token{
		AccessToken: "fresh",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	require.NoError(t, store.Save(t.Context(), tokenstore.Token{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}))

	_, err := store.Load(t.Context())
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestRedisLocker_RunsHandlerAndReleases(t *testing.T) {
	t.Parallel()

	client := testutil.NewRedisClient(t)
	locker := tokenstore.NewRedisLocker(client, tokenstore.WithLockKey("test:lock:release"))

	var calls atomic.Int32

	for range 2 {
		err := locker.WithLock(t.Context(), func(_ context.Context) error {
			calls.Add(1)

			return nil
		})
		require.NoError(t, err)
	}

	require.Equal(t, int32(2), calls.Load())

	exists, err := client.Exists(t.Context(), "test:lock:release").Result()
	require.NoError(t, err)
	require.Zero(t, exists)
}

func TestRedisLocker_PropagatesHandlerError(t *testing.T) {
	t.Parallel()

	client := testutil.NewRedisClient(t)
	locker := tokenstore.NewRedisLocker(client, tokenstore.WithLockKey("test:lock:error"))

	err := locker.WithLock(t.Context(), func(_ context.Context) error {
		return errHandlerFailed
	})

	require.ErrorIs(t, err, errHandlerFailed)
}

func TestRedisLocker_NotObtainedWhileHeld(t *testing.T) {
	t.Parallel()

	client := testutil.NewRedisClient(t)
	holder := tokenstore.NewRedisLocker(client,
		tokenstore.WithLockKey("test:lock:held"),
		tokenstore.WithLockTTL(10*time.Second),
	)
	waiter := tokenstore.NewRedisLocker(client,
		tokenstore.WithLockKey("test:lock:held"),
		tokenstore.WithRetryInterval(20*time.Millisecond),
	)

	err := holder.WithLock(t.Context(), func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()

		return waiter.WithLock(waitCtx, func(_ context.Context) error {
			t.Error("waiter must not obtain a held lock")

			return nil
		})
	})

	require.ErrorIs(t, err, tokenstore.ErrLockNotObtained)
}
