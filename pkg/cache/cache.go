// Package cache persists extracted regions between invocations so
// unchanged files skip tokenization entirely. The store is one JSON
// document keyed by "path:contentHash", loaded in full at start and
// written in full at the end of a scan; there is no background writer.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/clonegate/clonegate/pkg/models"
	"github.com/zeebo/blake3"
)

// Entry is one cached extraction result.
type Entry struct {
	Regions   []models.Region `json:"regions"`
	Timestamp time.Time       `json:"timestamp"`
}

// Cache is a content-hash-keyed store of extracted regions with a fixed
// TTL. Entries older than the TTL are invalid even when the content hash
// still matches, forcing a periodic refresh.
type Cache struct {
	path    string
	ttl     time.Duration
	enabled bool

	mu      sync.RWMutex
	entries map[string]Entry
	dirty   bool

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a cache backed by the given file. A disabled cache ignores
// every operation.
func New(path string, ttlHours int, enabled bool) *Cache {
	return &Cache{
		path:    path,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: enabled,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// HashBytes computes the BLAKE3 content hash used in cache keys.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key builds the store key for a file at a specific content hash.
func Key(path, hash string) string {
	return path + ":" + hash
}

// Load reads the full store from disk, dropping expired entries. A
// missing or malformed store is treated as empty and never fails a scan.
func (c *Cache) Load() {
	if !c.enabled {
		return
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return
	}

	cutoff := c.now().Add(-c.ttl)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range raw {
		if entry.Timestamp.Before(cutoff) {
			// Dropping an expired entry shrinks the persisted map.
			c.dirty = true
			continue
		}
		c.entries[key] = entry
	}
}

// Get returns the cached regions for a file at a content hash, if present
// and within the TTL.
func (c *Cache) Get(path, hash string) ([]models.Region, bool) {
	if !c.enabled {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[Key(path, hash)]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.Timestamp) > c.ttl {
		return nil, false
	}
	return entry.Regions, true
}

// Put stores freshly extracted regions under the file's content hash.
func (c *Cache) Put(path, hash string, regions []models.Region) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(path, hash)] = Entry{
		Regions:   regions,
		Timestamp: c.now(),
	}
	c.dirty = true
}

// Save writes the full store back to disk if anything changed since Load.
func (c *Cache) Save() error {
	if !c.enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes the on-disk store and empties the in-memory map.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Entry)
	c.dirty = false
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Stats describes the current store for the cache subcommand.
type Stats struct {
	Path      string    `json:"path"`
	Entries   int       `json:"entries"`
	Regions   int       `json:"regions"`
	SizeBytes int64     `json:"size_bytes"`
	Oldest    time.Time `json:"oldest,omitempty"`
	Newest    time.Time `json:"newest,omitempty"`
}

// GetStats summarizes the live entries.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{Path: c.path, Entries: len(c.entries)}
	if info, err := os.Stat(c.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	for _, e := range c.entries {
		stats.Regions += len(e.Regions)
		if stats.Oldest.IsZero() || e.Timestamp.Before(stats.Oldest) {
			stats.Oldest = e.Timestamp
		}
		if stats.Newest.IsZero() || e.Timestamp.After(stats.Newest) {
			stats.Newest = e.Timestamp
		}
	}
	return stats
}
