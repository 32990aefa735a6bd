// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"sitebuilder/internal/layout"
)

// Colors is the palette of a website theme. The values are opaque to the
// builder and handed to the renderer as-is.
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Fonts holds the font stacks of a website theme.
type Fonts struct {
	Heading string `json:"heading"`
}

// DefaultColors is the palette given to websites created without one.
func DefaultColors() Colors {
	return Colors{Primary: "#0f172a", Secondary: "#f8fafc", Accent: "#10b981"}
}

// DefaultFonts is the font set given to websites created without one.
func DefaultFonts() Fonts {
	return Fonts{Heading: "Inter, system-ui, sans-serif"}
}

// Page is one routable page of a website. The layout is owned exclusively by
// the page.
type Page struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Layout layout.Layout `json:"layout"`
}

// Website is the aggregate root: a website owns its pages, and pages own
// their layouts. It is read and written as a whole.
type Website struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	DNS       string    `json:"dns,omitempty"`
	Colors    *Colors   `json:"colors,omitempty"`
	Fonts     *Fonts    `json:"fonts,omitempty"`
	Pages     []Page    `json:"pages"`
	Revision  int64     `json:"revision"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Page returns the page with the given id, or nil.
func (w *Website) Page(id string) *Page {
	for i := range w.Pages {
		if w.Pages[i].ID == id {
			return &w.Pages[i]
		}
	}
	return nil
}

// PageIDs returns the ids of all pages in order.
func (w *Website) PageIDs() []string {
	ids := make([]string, len(w.Pages))
	for i, p := range w.Pages {
		ids[i] = p.ID
	}
	return ids
}

// Theme returns the website colors and fonts, with defaults filled in for
// anything unset.
func (w *Website) Theme() (Colors, Fonts) {
	colors, fonts := DefaultColors(), DefaultFonts()
	if w.Colors != nil {
		colors = *w.Colors
	}
	if w.Fonts != nil {
		fonts = *w.Fonts
	}
	return colors, fonts
}

// WebsiteSummary is the listing view of a website.
type WebsiteSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	PageCount int       `json:"pageCount"`
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary returns the listing view of w.
func (w *Website) Summary() WebsiteSummary {
	return WebsiteSummary{
		ID:        w.ID,
		Name:      w.Name,
		Domain:    w.Domain,
		PageCount: len(w.Pages),
		Revision:  w.Revision,
		UpdatedAt: w.UpdatedAt,
	}
}
