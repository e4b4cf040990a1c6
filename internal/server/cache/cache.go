// Package cache provides the in-memory file cache of the serving endpoint.
// It uses patrickmn/go-cache for TTL-based expiry. Entries are keyed by
// path, modification time and size, so a file replaced by an atomic rename
// misses the cache on the next request without any read lock.
package cache

import (
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache wraps go-cache for file contents.
type Cache struct {
	store *gocache.Cache
}

// Entry is one cached file.
type Entry struct {
	Path    string
	Data    []byte
	ModTime time.Time
}

// New creates a new cache with the given TTL and cleanup interval.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Key returns the cache key of a file version.
func Key(path string, info os.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
}

// ReadFile returns the current contents of path, from the cache when the
// file is unchanged. The second result reports a cache hit.
func (c *Cache) ReadFile(path string) (*Entry, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	key := Key(path, info)
	if v, ok := c.store.Get(key); ok {
		if entry, ok := v.(*Entry); ok {
			return entry, true, nil
		}
	}

	data, err := os.ReadFile(path) //nolint:gosec // served path comes from configuration
	if err != nil {
		return nil, false, err
	}
	entry := &Entry{Path: path, Data: data, ModTime: info.ModTime()}
	c.store.Set(key, entry, gocache.DefaultExpiration)
	return entry, false, nil
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of cached file versions.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
