// Package auth holds the token denylist backing the session gateway.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:"

// RedisDenylist stores revoked tokens in Redis. Each entry carries a TTL
// equal to the remaining token lifetime, so the set never outlives the
// tokens it guards.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(addr, password string, db int) *RedisDenylist {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; validation rejects it without our help.
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+token, "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *RedisDenylist) Close() error {
	return d.client.Close()
}

// MemoryDenylist is an in-process denylist used in tests and single-node
// development setups.
type MemoryDenylist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *MemoryDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[token] = expiresAt
	return nil
}

func (d *MemoryDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	expiresAt, ok := d.revoked[token]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		return false, nil
	}
	return true, nil
}
