// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go provides an in-memory cache of rendered published pages.
// This is the L1 cache in front of the Valkey page cache. Entries are keyed
// by website revision, so any write to a website produces a cache miss
// without explicit invalidation; stale revisions are evicted as newer ones
// are stored.
package render

import (
	"context"
	"log/slog"
	"sync"
)

// memoKey identifies one rendered page of one website revision.
type memoKey struct {
	websiteID string
	pageID    string
	revision  int64
}

// Memo is a concurrency-safe in-memory cache of rendered pages.
type Memo struct {
	mu      sync.RWMutex
	entries map[memoKey][]byte
	limit   int
}

// NewMemo creates an empty cache holding at most limit pages. A limit of
// zero or less means 1024.
func NewMemo(limit int) *Memo {
	if limit <= 0 {
		limit = 1024
	}
	return &Memo{entries: make(map[memoKey][]byte), limit: limit}
}

// Get retrieves a rendered page. Returns nil on miss.
func (c *Memo) Get(websiteID, pageID string, revision int64) []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[memoKey{websiteID, pageID, revision}]
}

// Put stores a rendered page and drops older revisions of the same website.
func (c *Memo) Put(websiteID, pageID string, revision int64, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.websiteID == websiteID && k.revision < revision {
			delete(c.entries, k)
		}
	}
	if len(c.entries) >= c.limit {
		c.entries = make(map[memoKey][]byte)
		slog.Debug("render memo full, cleared", "limit", c.limit)
	}
	c.entries[memoKey{websiteID, pageID, revision}] = html
}

// InvalidateWebsite removes every cached page of a website.
func (c *Memo) InvalidateWebsite(_ context.Context, websiteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.websiteID == websiteID {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached pages.
func (c *Memo) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
