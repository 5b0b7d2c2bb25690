// Package cache memoizes forecast results. The engine works without a
// facade, and every facade failure is equivalent to a miss — caching
// changes latency, never answers.
package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sarishc/Heliox-AI-sub000/logger"
)

//go:generate mockery --name Facade --output ./mocks --outpkg mocks --case=underscore
type Facade interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Key derives a deterministic cache key from forecast query parameters.
// The layout is a canonical sorted-key JSON document hashed with md5,
// matching the key scheme of existing deployments.
func Key(kind, provider, gpuType string, horizonDays int) string {
	if provider == "" {
		provider = "all"
	}

	if gpuType == "" {
		gpuType = "all"
	}

	canonical := fmt.Sprintf(
		`{"gpu_type": %q, "horizon": %d, "provider": %q, "type": %q}`,
		gpuType, horizonDays, provider, kind,
	)

	return fmt.Sprintf("forecast:%x", md5.Sum([]byte(canonical)))
}

// Redis is the production facade.
type Redis struct {
	loggerProvider logger.Provider
	client         *redis.Client
}

func NewRedis(addr string, loggerProvider logger.Provider) *Redis {
	return &Redis{
		loggerProvider: loggerProvider,
		client:         redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}

	if err != nil {
		r.loggerProvider(ctx).Warningf("cache read error for %s: %v", key, err)
		return nil, false
	}

	return value, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.loggerProvider(ctx).Warningf("cache write error for %s: %v", key, err)
	}
}

// Memory is a process-local facade for tests and single-node setups.
type Memory struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}

	if m.now().After(entry.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}

	return entry.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: m.now().Add(ttl),
	}
}
