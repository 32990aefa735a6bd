// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/blake2b"

	"sitebuilder/internal/cache"
	"sitebuilder/internal/editor"
	"sitebuilder/internal/models"
	"sitebuilder/internal/render"
	"sitebuilder/internal/sites"
)

// PageCache stores rendered published pages between requests.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidatePage(ctx context.Context, websiteID, pageID string)
}

var _ PageCache = (*cache.PageCache)(nil)

// Public groups the handlers that render pages as HTML. Published pages
// go through two caches: the L2 Valkey page cache, checked before the
// website is loaded, and the L1 in-process memo keyed by revision.
// Previews are never cached.
type Public struct {
	sites     *sites.Service
	renderer  *render.Renderer
	memo      *render.Memo
	pageCache PageCache
	editor    *editor.Manager
}

// NewPublic creates the Public handler group. pageCache may be nil when
// Valkey is not configured, and manager may be nil to disable session
// previews.
func NewPublic(svc *sites.Service, renderer *render.Renderer, memo *render.Memo, pageCache PageCache, manager *editor.Manager) *Public {
	return &Public{
		sites:     svc,
		renderer:  renderer,
		memo:      memo,
		pageCache: pageCache,
		editor:    manager,
	}
}

// Render serves the published HTML of a page.
func (p *Public) Render(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wid, pid := chi.URLParam(r, "wid"), chi.URLParam(r, "pid")
	key := cache.PageKey(wid, pid)

	// Check L2 cache first.
	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			writeHTML(w, r, cached, true)
			return
		}
	}

	site, page, ok := p.load(w, r, wid, pid)
	if !ok {
		return
	}

	html := p.memo.Get(wid, pid, site.Revision)
	if html == nil {
		var err error
		html, err = p.renderer.Render(render.Input{Website: site, Page: page, Mode: render.ModePublished})
		if err != nil {
			slog.Error("render page failed", "website_id", wid, "page_id", pid, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		p.memo.Put(wid, pid, site.Revision, html)
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, html)
		// A write committed during the render has already invalidated the
		// website, so the entry just stored may be stale.
		if !p.current(ctx, wid, site.Revision) {
			p.pageCache.InvalidatePage(ctx, wid, pid)
		}
	}
	writeHTML(w, r, html, true)
}

// Preview serves the editable preview of a page. With a session query
// parameter the session's working copy and selection are shown instead of
// the stored layout.
func (p *Public) Preview(w http.ResponseWriter, r *http.Request) {
	wid, pid := chi.URLParam(r, "wid"), chi.URLParam(r, "pid")
	site, page, ok := p.load(w, r, wid, pid)
	if !ok {
		return
	}

	in := render.Input{Website: site, Page: page, Mode: render.ModePreview}
	if sid := r.URL.Query().Get("session"); sid != "" && p.editor != nil {
		s, err := p.editor.Get(r.Context(), sid)
		if err != nil {
			if errors.Is(err, editor.ErrSessionNotFound) {
				http.NotFound(w, r)
				return
			}
			slog.Error("load editing session failed", "session_id", sid, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if s.WebsiteID != wid || s.PageID != pid {
			http.Error(w, "Session belongs to another page", http.StatusBadRequest)
			return
		}
		working := *page
		working.Layout = s.Layout
		in.Page = &working
		in.SelectedBlockID = s.SelectedBlockID
	}

	html, err := p.renderer.Render(in)
	if err != nil {
		slog.Error("render preview failed", "website_id", wid, "page_id", pid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, r, html, false)
}

// load reads the website and page of a render request, answering the
// request itself when that fails.
func (p *Public) load(w http.ResponseWriter, r *http.Request, wid, pid string) (*models.Website, *models.Page, bool) {
	site, err := p.sites.GetWebsite(r.Context(), wid)
	if err != nil {
		if errors.Is(err, sites.ErrWebsiteNotFound) {
			http.NotFound(w, r)
			return nil, nil, false
		}
		slog.Error("load website failed", "website_id", wid, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, nil, false
	}
	page := site.Page(pid)
	if page == nil {
		http.NotFound(w, r)
		return nil, nil, false
	}
	return site, page, true
}

// current reports whether the stored website is still at revision.
func (p *Public) current(ctx context.Context, wid string, revision int64) bool {
	site, err := p.sites.GetWebsite(ctx, wid)
	if err != nil {
		if !errors.Is(err, sites.ErrWebsiteNotFound) {
			slog.Warn("revision check failed", "website_id", wid, "error", err)
		}
		return false
	}
	return site.Revision == revision
}

// InvalidateWebsite drops the in-process renders of a website. It lets the
// handler group be registered with the document store next to the Valkey
// page cache.
func (p *Public) InvalidateWebsite(ctx context.Context, websiteID string) {
	p.memo.InvalidateWebsite(ctx, websiteID)
}

// writeHTML writes a rendered page. Cacheable responses carry a content
// hash ETag and answer a matching If-None-Match with 304.
func writeHTML(w http.ResponseWriter, r *http.Request, html []byte, cacheable bool) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !cacheable {
		w.Header().Set("Cache-Control", "no-store")
		w.Write(html)
		return
	}

	tag := contentTag(html)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Write(html)
}

// contentTag returns a strong entity tag for a response body.
func contentTag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// etagMatches reports whether an If-None-Match header lists tag.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}
