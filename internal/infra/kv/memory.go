// Package kv provides the key-value backends the stores persist through.
package kv

import (
	"context"
	"sync"

	"github.com/grillmate/pos/internal/pos/core/ports"
)

var _ ports.KV = (*Memory)(nil)

// Memory is an in-process KV backend. State is lost on exit, which is
// exactly what tests and throwaway demo runs want.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Load returns (nil, nil) for keys that were never written.
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := make([]byte, len(value))
	copy(b, value)
	m.data[key] = b
	return nil
}
