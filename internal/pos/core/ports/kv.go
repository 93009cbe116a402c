package ports

import "context"

// KV is the persistence port the stores write through. Each store owns
// one key and persists its whole collection as a single JSON snapshot on
// every mutation, so the contract is deliberately small: load a value by
// key, save a value by key.
//
// Load returns (nil, nil) when the key has never been written — the
// stores treat that as first run and seed themselves. Implementations:
// in-memory (tests), JSON file (single machine), Redis (shared backend).
type KV interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
