package paymentgateway

import (
	"context"
	"sync"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/pkg/kvstore"
)

// TokenCache keeps the OAuth token between STK pushes. Daraja tokens live for an hour.
type TokenCache interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string, ttl time.Duration)
}

type memoryTokenCache struct {
	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time
}

func NewMemoryTokenCache() TokenCache {
	return &memoryTokenCache{now: time.Now}
}

func (m *memoryTokenCache) Get(_ context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" || !m.now().Before(m.expires) {
		return "", false
	}
	return m.token, true
}

func (m *memoryTokenCache) Set(_ context.Context, token string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.expires = m.now().Add(ttl)
}

// redisTokenCache shares the token across server replicas.
type redisTokenCache struct {
	store kvstore.KVStore
	key   string
}

func NewRedisTokenCache(store kvstore.KVStore, shortCode string) TokenCache {
	return &redisTokenCache{store: store, key: "mpesa:access_token:" + shortCode}
}

func (r *redisTokenCache) Get(ctx context.Context) (string, bool) {
	token, err := r.store.Get(ctx, r.key)
	if err != nil {
		return "", false
	}
	return token, token != ""
}

func (r *redisTokenCache) Set(ctx context.Context, token string, ttl time.Duration) {
	// a cache write failure only costs one extra token request
	_ = r.store.Set(ctx, r.key, token, ttl)
}
