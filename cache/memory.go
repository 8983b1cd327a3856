package cache

import (
	"sort"
	"sync"
)

// Memory is a thread-safe in-memory cache that lives as long as the process.
// It never expires or evicts entries.
type Memory struct {
	entries map[Key]string
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[Key]string),
	}
}

// Get retrieves a value from the cache.
func (c *Memory) Get(key Key) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Put stores a value in the cache. An existing entry is kept as is.
func (c *Memory) Put(key Key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.entries[key] = value
	}
	return nil
}

// Has reports whether key is cached.
func (c *Memory) Has(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of entries in the cache.
func (c *Memory) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entry is a key with its cached translation.
type Entry struct {
	Key   Key
	Value string
}

// Entries returns a snapshot of all entries, ordered by source language,
// target language and text.
func (c *Memory) Entries() []Entry {
	c.mu.RLock()
	result := make([]Entry, 0, len(c.entries))
	for key, value := range c.entries {
		result = append(result, Entry{Key: key, Value: value})
	}
	c.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Key, result[j].Key
		if a.SourceLang != b.SourceLang {
			return a.SourceLang < b.SourceLang
		}
		if a.TargetLang != b.TargetLang {
			return a.TargetLang < b.TargetLang
		}
		return a.Text < b.Text
	})
	return result
}

// Verify Memory implements Cache
var _ Cache = (*Memory)(nil)
