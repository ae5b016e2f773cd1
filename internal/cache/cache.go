package cache

import (
	"sync"
	"time"
)

// TTL constants for different data types
const (
	// Platform tables loaded from disk; only change when the file is edited
	TTLSlow = 1 * time.Hour

	// Enumeration results served over HTTP; boards come and go quickly
	TTLBoards = 2 * time.Second
)

// Entry holds a cached value with expiration
type Entry struct {
	Value     any
	ExpiresAt time.Time
	FetchedAt time.Time
}

// IsExpired returns true if the entry has expired
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns how long ago the entry was fetched
func (e *Entry) Age() time.Duration {
	return time.Since(e.FetchedAt)
}

// Cache provides thread-safe TTL-based caching
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates a new cache instance
func New() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
	}
}

// Get retrieves a value from cache, returns nil if expired or not found
func (c *Cache) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || entry.IsExpired() {
		return nil
	}
	return entry.Value
}

// GetEntry retrieves the full cache entry (for checking age, etc.)
func (c *Cache) GetEntry(key string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	return entry
}

// Set stores a value with the given TTL
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.entries[key] = &Entry{
		Value:     value,
		ExpiresAt: now.Add(ttl),
		FetchedAt: now,
	}
}

// SetSlow stores slow-moving data
func (c *Cache) SetSlow(key string, value any) {
	c.Set(key, value, TTLSlow)
}

// Delete removes an entry from cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Cleanup removes expired entries
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range c.entries {
		if v.IsExpired() {
			delete(c.entries, k)
		}
	}
}

// Global cache instance
var global *Cache
var once sync.Once

// Global returns the global cache instance
func Global() *Cache {
	once.Do(func() {
		global = New()
	})
	return global
}
