// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sort"
	"sync"

	"sitebuilder/internal/models"
)

// MemoryStore keeps websites in process memory. Documents are stored in
// encoded form so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]string)}
}

// Get retrieves a website by id. Returns nil if not found.
func (s *MemoryStore) Get(_ context.Context, id string) (*models.Website, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeWebsite(doc)
}

// List returns all websites, most recently updated first.
func (s *MemoryStore) List(_ context.Context) ([]models.Website, error) {
	s.mu.RLock()
	items := make([]models.Website, 0, len(s.docs))
	for _, doc := range s.docs {
		w, err := decodeWebsite(doc)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		items = append(items, *w)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// Put inserts or replaces the whole website document.
func (s *MemoryStore) Put(_ context.Context, w *models.Website) error {
	doc, err := encodeWebsite(w)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[w.ID] = doc
	s.mu.Unlock()
	return nil
}

// Delete removes a website. Deleting a missing website is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
	return nil
}
