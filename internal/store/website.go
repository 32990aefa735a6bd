// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sitebuilder/internal/database"
	"sitebuilder/internal/models"
)

// WebsiteStore handles website persistence on a SQL database. The same
// queries run on PostgreSQL and SQLite; only placeholders differ.
type WebsiteStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewWebsiteStore creates a new WebsiteStore.
func NewWebsiteStore(db *sql.DB, dialect database.Dialect) *WebsiteStore {
	return &WebsiteStore{db: db, dialect: dialect}
}

// rebind rewrites ? placeholders into $N for PostgreSQL.
func (s *WebsiteStore) rebind(query string) string {
	if s.dialect != database.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Get retrieves a website by id. Returns nil if not found.
func (s *WebsiteStore) Get(ctx context.Context, id string) (*models.Website, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT document FROM websites WHERE id = ?`), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find website by id: %w", err)
	}
	return decodeWebsite(doc)
}

// List returns all websites, most recently updated first.
func (s *WebsiteStore) List(ctx context.Context) ([]models.Website, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document FROM websites ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	defer rows.Close()

	var items []models.Website
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan website: %w", err)
		}
		w, err := decodeWebsite(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

// Put inserts or replaces the whole website document.
func (s *WebsiteStore) Put(ctx context.Context, w *models.Website) error {
	doc, err := encodeWebsite(w)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO websites (id, name, revision, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			revision = excluded.revision,
			document = excluded.document,
			updated_at = excluded.updated_at
	`), w.ID, w.Name, w.Revision, doc, w.CreatedAt.UTC(), w.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("put website: %w", err)
	}
	return nil
}

// Delete removes a website. Deleting a missing website is not an error.
func (s *WebsiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM websites WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete website: %w", err)
	}
	return nil
}
