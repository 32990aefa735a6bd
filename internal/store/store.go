// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists website aggregates. Every backend stores the whole
// website as one JSON document keyed by id; there are no partial updates.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"sitebuilder/internal/models"
)

// WebsiteRepository is the persistence boundary of the document store.
// Get returns (nil, nil) when the website does not exist.
type WebsiteRepository interface {
	Get(ctx context.Context, id string) (*models.Website, error)
	List(ctx context.Context) ([]models.Website, error)
	Put(ctx context.Context, w *models.Website) error
	Delete(ctx context.Context, id string) error
}

// encodeWebsite renders the stored form of a website.
func encodeWebsite(w *models.Website) (string, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("encode website %s: %w", w.ID, err)
	}
	return string(data), nil
}

// decodeWebsite parses a stored document.
func decodeWebsite(doc string) (*models.Website, error) {
	var w models.Website
	if err := json.Unmarshal([]byte(doc), &w); err != nil {
		return nil, fmt.Errorf("decode website: %w", err)
	}
	return &w, nil
}
