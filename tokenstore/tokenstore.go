// Package tokenstore holds Help Scout access tokens between refreshes.
//
// A [Store] keeps the most recent token. [Memory] serves a single process;
// [Redis] lets several processes share one token so that only one of them
// talks to the OAuth2 endpoint at a time (see [RedisLocker]).
package tokenstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("tokenstore: token not found")
	ErrLockNotObtained = errors.New("tokenstore: lock not obtained")
	ErrEncodeToken     = errors.New("tokenstore: failed to encode token")
	ErrDecodeToken     = errors.New("tokenstore: failed to decode token")
)

//nolint:tagliatelle
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the token can still be used at now, treating it as
// expired buffer early. A zero ExpiresAt never expires.
func (t Token) Valid(now time.Time, buffer time.Duration) bool {
	if t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return now.Add(buffer).Before(t.ExpiresAt)
}

type Store interface {
	Load(ctx context.Context) (Token, error)
	Save(ctx context.Context, token Token) error
	Delete(ctx context.Context) error
}

// Locker serializes token refreshes across processes.
type Locker interface {
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error
}
