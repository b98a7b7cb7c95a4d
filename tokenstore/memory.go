package tokenstore

import (
	"context"
	"sync"
)

type Memory struct {
	mu    sync.RWMutex
	token Token
	set   bool
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		mu:    sync.RWMutex{},
		token: Token{}, //nolint:exhaustruct
		set:   false,
	}
}

func (m *Memory) Load(_ context.Context) (Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.set {
		return Token{}, ErrNotFound //nolint:exhaustruct
	}

	return m.token, nil
}

func (m *Memory) Save(_ context.Context, token Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	m.set = true

	return nil
}

func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = Token{} //nolint:exhaustruct
	m.set = false

	return nil
}
