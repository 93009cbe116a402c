// Package redis backs the KV port with a Redis instance so several
// registers can share one set of ledgers.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/grillmate/pos/internal/pos/core/ports"
)

var _ ports.KV = (*KV)(nil)

// KV stores each ledger snapshot under a namespaced Redis key with no
// expiry, matching the persistence model of the other backends.
type KV struct {
	client    *redis.Client
	namespace string
}

// New connects to the Redis instance at addr. namespace prefixes every
// key so several deployments can share one instance.
func New(addr, namespace string) *KV {
	return &KV{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		namespace: namespace,
	}
}

// Ping verifies the connection; call it once at startup.
func (k *KV) Ping(ctx context.Context) error {
	return k.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (k *KV) Close() error {
	return k.client.Close()
}

// Load returns (nil, nil) for keys that were never written.
func (k *KV) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := k.client.Get(ctx, k.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (k *KV) Save(ctx context.Context, key string, value []byte) error {
	// 0 TTL: ledger snapshots never expire.
	return k.client.Set(ctx, k.namespaced(key), value, 0).Err()
}

func (k *KV) namespaced(key string) string {
	return fmt.Sprintf("%s:%s", k.namespace, key)
}
