// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

// Package cache provides a thread-safe in-memory cache with optional TTL
// and hit/miss statistics. The recommendation engine uses it as the
// per-user result cache: entries live for the process lifetime (or the
// configured TTL) unless explicitly invalidated by a rating mutation.
package cache

import (
	"sync"
	"time"
)

// entry is a cached value with an optional expiry.
type entry struct {
	data      interface{}
	expiresAt time.Time // zero = never expires
}

// Cache is a thread-safe in-memory key-value cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	statsMu   sync.Mutex
	hits      int64
	misses    int64
	evictions int64
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int
}

// New creates a cache. A zero ttl means entries never expire and no
// background cleanup runs; a positive ttl starts a cleanup goroutine
// that sweeps expired entries every few minutes.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}

	if ttl > 0 {
		go c.cleanupLoop()
	}

	return c
}

// Get retrieves a value by key. An expired entry counts as a miss and is
// removed.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.recordMiss()
		return nil, false
	}

	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return nil, false
	}

	c.recordHit()
	return e.data, true
}

// Set stores a value under key with the cache's default TTL.
func (c *Cache) Set(key string, data interface{}) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry{data: data, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete removes a key. This is the invalidation primitive: a rating
// mutation for a user deletes that user's entry before any subsequent
// read is allowed to proceed.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if existed {
		c.recordEviction()
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.statsMu.Lock()
	s := Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions}
	c.statsMu.Unlock()

	s.Keys = c.Len()
	return s
}

// cleanupLoop sweeps expired entries periodically. Runs only when the
// cache has a TTL.
func (c *Cache) cleanupLoop() {
	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.sweep()
	}
}

// sweep removes all expired entries.
func (c *Cache) sweep() {
	now := time.Now()

	c.mu.Lock()
	removed := 0
	for key, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	for i := 0; i < removed; i++ {
		c.recordEviction()
	}
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.hits++
	c.statsMu.Unlock()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.misses++
	c.statsMu.Unlock()
}

func (c *Cache) recordEviction() {
	c.statsMu.Lock()
	c.evictions++
	c.statsMu.Unlock()
}
