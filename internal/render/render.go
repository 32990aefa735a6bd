// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render turns a page layout into HTML. Each block is rendered by
// the embedded template of its type; the page template then frames the
// blocks with the website theme. Published pages link to /render/...,
// previews to /preview/... and carry block markers for the editor.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/models"
)

//go:embed templates/*.html templates/blocks/*.html
var templateFS embed.FS

// Mode selects published or preview output.
type Mode int

const (
	ModePublished Mode = iota
	ModePreview
)

// String returns the URL segment for the mode.
func (m Mode) String() string {
	if m == ModePreview {
		return "preview"
	}
	return "render"
}

// Input is everything needed to render one page.
type Input struct {
	Website *models.Website
	Page    *models.Page
	Mode    Mode

	// SelectedBlockID marks a block as selected in preview output.
	SelectedBlockID string
}

// PageData holds the variables available to the page template.
type PageData struct {
	Title       string
	SiteName    string
	Lang        string
	Colors      models.Colors
	Fonts       models.Fonts
	Preview     bool
	WebsiteID   string
	PageID      string
	Blocks      []RenderedBlock
	GeneratedAt time.Time
}

// RenderedBlock is one block's HTML with the markers the page template
// wraps it in.
type RenderedBlock struct {
	ID       string
	Type     blocks.BlockType
	Index    int
	Variant  string
	Selected bool
	HTML     template.HTML
}

// Renderer holds the parsed page and block templates. It is safe for
// concurrent use.
type Renderer struct {
	tmpl *template.Template
	now  func() time.Time
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"price": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	}
	tmpl, err := template.New("page.html").Funcs(funcMap).ParseFS(templateFS,
		"templates/*.html", "templates/blocks/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, now: time.Now}, nil
}

// Render returns the page HTML.
func (r *Renderer) Render(in Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderPage(&buf, in); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPage writes the page HTML to w. A block that fails to render is
// replaced by a placeholder; only a failure of the page frame is returned.
func (r *Renderer) RenderPage(w io.Writer, in Input) error {
	if in.Website == nil || in.Page == nil {
		return fmt.Errorf("render page: website and page are required")
	}
	colors, fonts := in.Website.Theme()
	links := newLinker(in.Website, in.Mode)
	now := r.now()

	data := PageData{
		Title:       in.Page.Name + " | " + in.Website.Name,
		SiteName:    in.Website.Name,
		Lang:        "en",
		Colors:      colors,
		Fonts:       fonts,
		Preview:     in.Mode == ModePreview,
		WebsiteID:   in.Website.ID,
		PageID:      in.Page.ID,
		GeneratedAt: now,
		Blocks:      make([]RenderedBlock, 0, len(in.Page.Layout)),
	}

	for i, b := range in.Page.Layout {
		rb := RenderedBlock{
			ID:       b.ID(),
			Type:     b.Type,
			Index:    i,
			Selected: in.SelectedBlockID != "" && b.ID() == in.SelectedBlockID,
		}
		if b.Config != nil {
			rb.Variant = b.Config.Variant()
		}
		if rb.Variant == "" {
			rb.Variant = "variant-1"
		}
		rb.HTML = r.renderBlock(b, links, now)
		data.Blocks = append(data.Blocks, rb)
	}

	if err := r.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		return fmt.Errorf("render page %s: %w", in.Page.ID, err)
	}
	return nil
}

func (r *Renderer) renderBlock(b blocks.Block, links *linker, now time.Time) template.HTML {
	name, view := buildView(b, links, now)
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, view); err != nil {
		slog.Warn("block render failed, using placeholder", "block_id", b.ID(), "type", b.Type, "error", err)
		buf.Reset()
		if err := r.tmpl.ExecuteTemplate(&buf, placeholderTemplate, placeholderView{Type: string(b.Type)}); err != nil {
			return ""
		}
	}
	return template.HTML(buf.String())
}

// linker resolves page ids to URLs within one website.
type linker struct {
	websiteID string
	mode      Mode
	pages     map[string]bool
}

func newLinker(w *models.Website, mode Mode) *linker {
	pages := make(map[string]bool, len(w.Pages))
	for _, p := range w.Pages {
		pages[p.ID] = true
	}
	return &linker{websiteID: w.ID, mode: mode, pages: pages}
}

// page returns the URL of a page of the website, or false when the page
// does not exist.
func (l *linker) page(pageID string) (string, bool) {
	if !l.pages[pageID] {
		return "", false
	}
	return "/" + l.mode.String() + "/" + l.websiteID + "/" + pageID, true
}

// button resolves a button target. Page links that do not resolve leave the
// button inert.
func (l *linker) button(link, linkType string) (href string, inert bool) {
	if link == "" {
		return "", true
	}
	if linkType == blocks.LinkTypePage {
		href, ok := l.page(link)
		return href, !ok
	}
	return link, false
}

// navigation resolves navigation links, dropping those to missing pages.
func (l *linker) navigation(in []blocks.Link) []LinkView {
	out := make([]LinkView, 0, len(in))
	for _, link := range in {
		if href, ok := l.page(link.PageID); ok {
			out = append(out, LinkView{Label: link.Label, URL: href})
		}
	}
	return out
}
