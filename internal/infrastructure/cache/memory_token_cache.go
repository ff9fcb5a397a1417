package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/gre-api/internal/infrastructure/sunat"
)

var _ sunat.TokenCache = (*MemoryTokenCache)(nil)

type memEntry struct {
	value   string
	expires time.Time
}

// MemoryTokenCache caché del proceso, usada cuando no hay Redis configurado.
type MemoryTokenCache struct {
	mu    sync.Mutex
	items map[string]memEntry
	now   func() time.Time
}

// NewMemoryTokenCache crea la caché vacía.
func NewMemoryTokenCache() *MemoryTokenCache {
	return &MemoryTokenCache{items: map[string]memEntry{}, now: time.Now}
}

// Get devuelve el token si no ha vencido.
func (c *MemoryTokenCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.items, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set guarda el token con TTL.
func (c *MemoryTokenCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memEntry{value: value, expires: c.now().Add(ttl)}
	return nil
}
