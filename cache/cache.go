// Package cache provides translation caching implementations.
//
// Entries are keyed by the full (source language, target language, text)
// tuple and are insert-only: once a key holds a translation, later writes
// for the same key are ignored.
package cache

// Cache is the interface for translation caching.
type Cache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found.
	Get(key Key) (string, bool)

	// Put stores a translation unless the key already holds one.
	Put(key Key, value string) error

	// Has reports whether a translation is cached for key.
	Has(key Key) bool
}
