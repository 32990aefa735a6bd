// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sites owns the website aggregate lifecycle: websites own pages,
// pages own layouts, and every change is a read-modify-write of the whole
// website through the repository.
//
// Writes to one website are applied strictly in the order they were
// submitted; writes to different websites proceed in parallel.
package sites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/ident"
	"sitebuilder/internal/layout"
	"sitebuilder/internal/models"
	"sitebuilder/internal/slug"
	"sitebuilder/internal/store"
	"sitebuilder/internal/templates"
)

var (
	ErrWebsiteNotFound   = errors.New("website not found")
	ErrPageNotFound      = errors.New("page not found")
	ErrLastPageProtected = errors.New("cannot delete the only page of a website")
	ErrBlockTypePresent  = errors.New("block type already present on page")
	ErrRevisionMismatch  = errors.New("website was modified by another write")
	ErrDuplicatePath     = errors.New("page path already in use")
	ErrInvalidWebsite    = errors.New("invalid website")
)

// Invalidator is notified after every successful write or delete of a
// website. The published-page cache implements it.
type Invalidator interface {
	InvalidateWebsite(ctx context.Context, websiteID string)
}

// Invalidators notifies each of its members in order.
type Invalidators []Invalidator

// InvalidateWebsite implements Invalidator.
func (is Invalidators) InvalidateWebsite(ctx context.Context, websiteID string) {
	for _, inv := range is {
		if inv != nil {
			inv.InvalidateWebsite(ctx, websiteID)
		}
	}
}

// Service is the document store.
type Service struct {
	repo        store.WebsiteRepository
	registry    *blocks.Registry
	uniqueness  blocks.Uniqueness
	invalidator Invalidator
	now         func() time.Time
	queue       *writeQueue
}

// Option configures a Service.
type Option func(*Service)

// WithInvalidator registers a cache to clear after writes.
func WithInvalidator(inv Invalidator) Option {
	return func(s *Service) { s.invalidator = inv }
}

// WithUniqueness sets the one-block-per-type policy used by AddBlock.
func WithUniqueness(u blocks.Uniqueness) Option {
	return func(s *Service) { s.uniqueness = u }
}

// WithRegistry replaces the stock block registry.
func WithRegistry(r *blocks.Registry) Option {
	return func(s *Service) { s.registry = r }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over repo.
func New(repo store.WebsiteRepository, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		registry:   blocks.DefaultRegistry(),
		uniqueness: blocks.UniqueAll,
		now:        time.Now,
		queue:      newWriteQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the block registry the service builds blocks from.
func (s *Service) Registry() *blocks.Registry { return s.registry }

// Uniqueness returns the configured one-block-per-type policy.
func (s *Service) Uniqueness() blocks.Uniqueness { return s.uniqueness }

// NewWebsite holds the fields of a website to create. Colors and Fonts
// default to the stock theme.
type NewWebsite struct {
	Name   string         `json:"name"`
	Domain string         `json:"domain,omitempty"`
	DNS    string         `json:"dns,omitempty"`
	Colors *models.Colors `json:"colors,omitempty"`
	Fonts  *models.Fonts  `json:"fonts,omitempty"`
}

// WebsiteUpdate lists the website fields to change. Nil fields are kept.
type WebsiteUpdate struct {
	Name   *string        `json:"name,omitempty"`
	Domain *string        `json:"domain,omitempty"`
	DNS    *string        `json:"dns,omitempty"`
	Colors *models.Colors `json:"colors,omitempty"`
	Fonts  *models.Fonts  `json:"fonts,omitempty"`
}

// NewPage holds the fields of a page to create. Path defaults to a slug of
// the name; Template names a canned layout, empty for an empty page.
type NewPage struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Template string `json:"template,omitempty"`
}

// CreateWebsite creates a website with a single "Home" page at "/" laid out
// from the landing template.
func (s *Service) CreateWebsite(ctx context.Context, in NewWebsite) (*models.Website, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidWebsite)
	}

	now := s.now().UTC()
	colors, fonts := in.Colors, in.Fonts
	if colors == nil {
		c := models.DefaultColors()
		colors = &c
	}
	if fonts == nil {
		f := models.DefaultFonts()
		fonts = &f
	}

	w := &models.Website{
		ID:     ident.New(),
		Name:   name,
		Domain: strings.TrimSpace(in.Domain),
		DNS:    strings.TrimSpace(in.DNS),
		Colors: colors,
		Fonts:  fonts,
		Pages: []models.Page{{
			ID:     ident.New(),
			Name:   "Home",
			Path:   "/",
			Layout: templates.Landing(),
		}},
		CreatedAt: now,
	}

	err := s.queue.do(ctx, w.ID, func(ctx context.Context) error {
		return s.persist(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("website created", "website_id", w.ID, "name", w.Name)
	return w, nil
}

// GetWebsite loads a website.
func (s *Service) GetWebsite(ctx context.Context, id string) (*models.Website, error) {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load website %s: %w", id, err)
	}
	if w == nil {
		return nil, ErrWebsiteNotFound
	}
	return w, nil
}

// ListWebsites returns every website, most recently updated first.
func (s *Service) ListWebsites(ctx context.Context) ([]models.Website, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	return items, nil
}

// GetPage loads one page of a website.
func (s *Service) GetPage(ctx context.Context, websiteID, pageID string) (*models.Page, error) {
	w, err := s.GetWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	p := w.Page(pageID)
	if p == nil {
		return nil, ErrPageNotFound
	}
	return p, nil
}

// UpdateWebsite changes the website's name, domain or theme.
func (s *Service) UpdateWebsite(ctx context.Context, id string, in WebsiteUpdate) (*models.Website, error) {
	var out *models.Website
	err := s.mutate(ctx, id, func(w *models.Website) error {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: name is required", ErrInvalidWebsite)
			}
			w.Name = name
		}
		if in.Domain != nil {
			w.Domain = strings.TrimSpace(*in.Domain)
		}
		if in.DNS != nil {
			w.DNS = strings.TrimSpace(*in.DNS)
		}
		if in.Colors != nil {
			c := *in.Colors
			w.Colors = &c
		}
		if in.Fonts != nil {
			f := *in.Fonts
			w.Fonts = &f
		}
		out = w
		return nil
	})
	return out, err
}

// CreatePage adds a page to a website.
func (s *Service) CreatePage(ctx context.Context, websiteID string, in NewPage) (*models.Page, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: page name is required", ErrInvalidWebsite)
	}

	l := layout.Layout{}
	if in.Template != "" {
		var err error
		if l, err = templates.ByName(in.Template); err != nil {
			return nil, err
		}
	}

	var page models.Page
	err := s.mutate(ctx, websiteID, func(w *models.Website) error {
		taken := func(p string) bool {
			for _, existing := range w.Pages {
				if existing.Path == p {
					return true
				}
			}
			return false
		}

		path := slug.PagePath(name)
		if in.Path != "" {
			path = slug.NormalizePath(in.Path)
			if taken(path) {
				return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
			}
		}
		path = slug.Unique(path, taken)

		page = models.Page{ID: ident.New(), Name: name, Path: path, Layout: l}
		w.Pages = append(w.Pages, page)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("page created", "website_id", websiteID, "page_id", page.ID, "path", page.Path)
	return &page, nil
}

// DeletePage removes a page. The only page of a website cannot be deleted.
// Links to the deleted page held by other pages are left in place.
func (s *Service) DeletePage(ctx context.Context, websiteID, pageID string) error {
	err := s.mutate(ctx, websiteID, func(w *models.Website) error {
		idx := -1
		for i, p := range w.Pages {
			if p.ID == pageID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrPageNotFound
		}
		if len(w.Pages) == 1 {
			return ErrLastPageProtected
		}
		w.Pages = append(w.Pages[:idx:idx], w.Pages[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("page deleted", "website_id", websiteID, "page_id", pageID)
	return nil
}

// UpdatePageLayout replaces a page's layout after validating it.
func (s *Service) UpdatePageLayout(ctx context.Context, websiteID, pageID string, l layout.Layout) (*models.Website, error) {
	return s.updatePageLayout(ctx, websiteID, pageID, l, -1)
}

// UpdatePageLayoutIfMatch is UpdatePageLayout guarded by the website
// revision the caller last saw. A different current revision fails with
// ErrRevisionMismatch.
func (s *Service) UpdatePageLayoutIfMatch(ctx context.Context, websiteID, pageID string, l layout.Layout, revision int64) (*models.Website, error) {
	return s.updatePageLayout(ctx, websiteID, pageID, l, revision)
}

func (s *Service) updatePageLayout(ctx context.Context, websiteID, pageID string, l layout.Layout, revision int64) (*models.Website, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", layout.ErrInvalidLayout, err)
	}
	if l == nil {
		l = layout.Layout{}
	}

	var out *models.Website
	err := s.mutate(ctx, websiteID, func(w *models.Website) error {
		if revision >= 0 && w.Revision != revision {
			return fmt.Errorf("%w: have %d, want %d", ErrRevisionMismatch, w.Revision, revision)
		}
		p := w.Page(pageID)
		if p == nil {
			return ErrPageNotFound
		}
		p.Layout = l
		out = w
		return nil
	})
	return out, err
}

// AddBlock instantiates a block of type t from the registry defaults and
// places it on the page: a navbar goes first, a footer last, anything else
// before the first footer.
func (s *Service) AddBlock(ctx context.Context, websiteID, pageID string, t blocks.BlockType) (blocks.Block, error) {
	if _, err := blocks.ParseBlockType(string(t)); err != nil {
		return blocks.Block{}, err
	}

	var added blocks.Block
	err := s.mutate(ctx, websiteID, func(w *models.Website) error {
		p := w.Page(pageID)
		if p == nil {
			return ErrPageNotFound
		}
		b, err := s.registry.NewBlock(t, ident.New())
		if err != nil {
			return err
		}
		next, err := s.PlaceBlock(p.Layout, b)
		if err != nil {
			return err
		}
		p.Layout = next
		added = b
		return nil
	})
	if err != nil {
		return blocks.Block{}, err
	}

	slog.Debug("block added", "website_id", websiteID, "page_id", pageID, "block_id", added.ID(), "type", t)
	return added, nil
}

// PlaceBlock inserts b into l following the placement and uniqueness
// policies, without persisting anything.
func (s *Service) PlaceBlock(l layout.Layout, b blocks.Block) (layout.Layout, error) {
	if s.uniqueness.Restricts(b.Type) && layout.HasType(l, b.Type) {
		return nil, fmt.Errorf("%w: %s", ErrBlockTypePresent, b.Type)
	}
	switch b.Type {
	case blocks.Navbar:
		return layout.InsertAt(l, b, 0)
	case blocks.Footer:
		return layout.Add(l, b)
	default:
		return layout.InsertBefore(l, b, blocks.Footer)
	}
}

// DeleteWebsite removes a website with all its pages. Deleting a website
// that does not exist is not an error.
func (s *Service) DeleteWebsite(ctx context.Context, id string) error {
	err := s.queue.do(ctx, id, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete website %s: %w", id, err)
		}
		s.invalidate(ctx, id)
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("website deleted", "website_id", id)
	return nil
}

// mutate applies fn to the current website inside the website's write
// queue and persists the result. Nothing is written when fn fails.
func (s *Service) mutate(ctx context.Context, id string, fn func(*models.Website) error) error {
	return s.queue.do(ctx, id, func(ctx context.Context) error {
		w, err := s.GetWebsite(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(w); err != nil {
			return err
		}
		return s.persist(ctx, w)
	})
}

// persist bumps the revision and writes the whole aggregate.
func (s *Service) persist(ctx context.Context, w *models.Website) error {
	w.Revision++
	w.UpdatedAt = s.now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = w.UpdatedAt
	}
	if err := s.repo.Put(ctx, w); err != nil {
		w.Revision--
		return fmt.Errorf("save website %s: %w", w.ID, err)
	}
	s.invalidate(ctx, w.ID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateWebsite(ctx, id)
	}
}
