// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"sitebuilder/internal/catalog"
	"sitebuilder/internal/layout"
	"sitebuilder/internal/models"
	"sitebuilder/internal/sites"
	"sitebuilder/internal/storage"
	"sitebuilder/internal/templates"
)

// maxUploadSize is the largest asset accepted by AssetUpload.
const maxUploadSize = 10 << 20

// allowedAssetTypes lists the content types accepted for block images.
var allowedAssetTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// AssetStore stores uploaded block images.
type AssetStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
}

var _ AssetStore = (*storage.Client)(nil)

// API groups the JSON handlers over websites, pages and the component
// catalogue.
type API struct {
	sites   *sites.Service
	assets  AssetStore
	baseURL string
}

// NewAPI creates the API handler group. assets may be nil when object
// storage is not configured. baseURL prefixes published page URLs.
func NewAPI(svc *sites.Service, assets AssetStore, baseURL string) *API {
	return &API{sites: svc, assets: assets, baseURL: strings.TrimRight(baseURL, "/")}
}

// --------------------------------------------------------------------------
// Catalogue
// --------------------------------------------------------------------------

// Components lists the component palette. With websiteId and pageId set,
// entries are marked as present on that page and unavailable when the
// uniqueness policy forbids another one.
func (a *API) Components(w http.ResponseWriter, r *http.Request) {
	var existing layout.Layout
	wid, pid := r.URL.Query().Get("websiteId"), r.URL.Query().Get("pageId")
	if wid != "" && pid != "" {
		p, err := a.sites.GetPage(r.Context(), wid, pid)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		existing = p.Layout
	}
	writeJSON(w, http.StatusOK, a.sites.Registry().Palette(existing, a.sites.Uniqueness()))
}

// Templates lists the page templates.
func (a *API) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templates.List())
}

// Data returns the sample content a data-driven block renders.
func (a *API) Data(w http.ResponseWriter, r *http.Request) {
	data, err := catalog.Lookup(chi.URLParam(r, "component"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// --------------------------------------------------------------------------
// Websites
// --------------------------------------------------------------------------

// ListWebsites returns a summary of every website.
func (a *API) ListWebsites(w http.ResponseWriter, r *http.Request) {
	list, err := a.sites.ListWebsites(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]models.WebsiteSummary, len(list))
	for i := range list {
		out[i] = list[i].Summary()
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateWebsite creates a website with its home page.
func (a *API) CreateWebsite(w http.ResponseWriter, r *http.Request) {
	var in sites.NewWebsite
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := validateWebsite(&in.Name, &in.Domain, &in.DNS); msg != "" {
		writeError(w, msg, http.StatusUnprocessableEntity)
		return
	}
	if msg := themeError(in.Colors, in.Fonts); msg != "" {
		writeError(w, msg, http.StatusUnprocessableEntity)
		return
	}

	site, err := a.sites.CreateWebsite(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

// GetWebsite returns a website with all its pages.
func (a *API) GetWebsite(w http.ResponseWriter, r *http.Request) {
	site, err := a.sites.GetWebsite(r.Context(), chi.URLParam(r, "wid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("ETag", revisionTag(site.Revision))
	writeJSON(w, http.StatusOK, site)
}

// UpdateWebsite changes the name, domain or theme of a website.
func (a *API) UpdateWebsite(w http.ResponseWriter, r *http.Request) {
	var in sites.WebsiteUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := validateWebsite(in.Name, in.Domain, in.DNS); msg != "" {
		writeError(w, msg, http.StatusUnprocessableEntity)
		return
	}
	if msg := themeError(in.Colors, in.Fonts); msg != "" {
		writeError(w, msg, http.StatusUnprocessableEntity)
		return
	}

	site, err := a.sites.UpdateWebsite(r.Context(), chi.URLParam(r, "wid"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("ETag", revisionTag(site.Revision))
	writeJSON(w, http.StatusOK, site)
}

// DeleteWebsite removes a website and all its pages.
func (a *API) DeleteWebsite(w http.ResponseWriter, r *http.Request) {
	wid := chi.URLParam(r, "wid")
	if err := a.sites.DeleteWebsite(r.Context(), wid); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// References reports the page links of every page that point at no page of
// the website.
func (a *API) References(w http.ResponseWriter, r *http.Request) {
	site, err := a.sites.GetWebsite(r.Context(), chi.URLParam(r, "wid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type pageRefs struct {
		PageID   string             `json:"pageId"`
		Dangling []layout.Reference `json:"dangling"`
	}
	ids := site.PageIDs()
	out := []pageRefs{}
	for _, p := range site.Pages {
		if refs := layout.DanglingReferences(p.Layout, ids); len(refs) > 0 {
			out = append(out, pageRefs{PageID: p.ID, Dangling: refs})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// --------------------------------------------------------------------------
// Pages
// --------------------------------------------------------------------------

// CreatePage adds a page, optionally laid out from a template.
func (a *API) CreatePage(w http.ResponseWriter, r *http.Request) {
	var in sites.NewPage
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := validatePage(in.Name, in.Path); msg != "" {
		writeError(w, msg, http.StatusUnprocessableEntity)
		return
	}

	wid := chi.URLParam(r, "wid")
	p, err := a.sites.CreatePage(r.Context(), wid, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// DeletePage removes a page. The last page of a website cannot be removed.
func (a *API) DeletePage(w http.ResponseWriter, r *http.Request) {
	wid, pid := chi.URLParam(r, "wid"), chi.URLParam(r, "pid")
	if err := a.sites.DeletePage(r.Context(), wid, pid); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportLayout returns the serialized layout of a page.
func (a *API) ExportLayout(w http.ResponseWriter, r *http.Request) {
	site, err := a.sites.GetWebsite(r.Context(), chi.URLParam(r, "wid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p := site.Page(chi.URLParam(r, "pid"))
	if p == nil {
		writeServiceError(w, r, sites.ErrPageNotFound)
		return
	}

	data, err := layout.Serialize(p.Layout)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("ETag", revisionTag(site.Revision))
	w.Write(data)
}

// ImportLayout replaces the layout of a page with the request body. With
// an If-Match header the write only happens when the website is still at
// that revision.
func (a *API) ImportLayout(w http.ResponseWriter, r *http.Request) {
	revision := int64(-1)
	if h := r.Header.Get("If-Match"); h != "" {
		rev, ok := parseRevisionTag(h)
		if !ok {
			writeError(w, "If-Match must hold a website revision.", http.StatusBadRequest)
			return
		}
		revision = rev
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLayoutSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "Layout is too large (max 2 MB).", http.StatusRequestEntityTooLarge)
		return
	}
	l, err := layout.Deserialize(data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	wid, pid := chi.URLParam(r, "wid"), chi.URLParam(r, "pid")
	site, err := a.sites.UpdatePageLayoutIfMatch(r.Context(), wid, pid, l, revision)
	if err != nil {
		if errors.Is(err, sites.ErrRevisionMismatch) {
			writeError(w, err.Error(), http.StatusPreconditionFailed)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("ETag", revisionTag(site.Revision))
	writeJSON(w, http.StatusOK, site.Page(pid))
}

// QRCode returns a PNG QR code of the published URL of a page.
func (a *API) QRCode(w http.ResponseWriter, r *http.Request) {
	wid, pid := chi.URLParam(r, "wid"), chi.URLParam(r, "pid")
	if _, err := a.sites.GetPage(r.Context(), wid, pid); err != nil {
		writeServiceError(w, r, err)
		return
	}

	png, err := qrcode.Encode(a.PublishedURL(wid, pid), qrcode.Medium, 256)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("encode qr code: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

// PublishedURL returns the public URL of a rendered page.
func (a *API) PublishedURL(websiteID, pageID string) string {
	return a.baseURL + "/render/" + websiteID + "/" + pageID
}

// --------------------------------------------------------------------------
// Assets
// --------------------------------------------------------------------------

// AssetUpload stores an image for use in a block (logo, hero image) and
// returns its public URL.
func (a *API) AssetUpload(w http.ResponseWriter, r *http.Request) {
	if a.assets == nil {
		writeError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}
	wid := chi.URLParam(r, "wid")
	if _, err := a.sites.GetWebsite(r.Context(), wid); err != nil {
		writeServiceError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, "File too large. Maximum size is 10 MB.", http.StatusRequestEntityTooLarge)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "No file provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "Failed to read file.", http.StatusInternalServerError)
		return
	}

	contentType := http.DetectContentType(data)
	// DetectContentType reports SVGs as text/xml or text/plain.
	if strings.EqualFold(path.Ext(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}
	ext, ok := allowedAssetTypes[contentType]
	if !ok {
		writeError(w, fmt.Sprintf("File type %q is not allowed.", contentType), http.StatusBadRequest)
		return
	}

	name := header.Filename
	if path.Ext(name) == "" {
		name += ext
	}
	key := storage.AssetKey(wid, name)
	if err := a.assets.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("asset uploaded", "website_id", wid, "key", key, "size", len(data))
	writeJSON(w, http.StatusCreated, map[string]any{
		"key":      key,
		"url":      a.assets.FileURL(key),
		"filename": header.Filename,
		"type":     contentType,
		"size":     len(data),
	})
}

// AssetDelete removes an uploaded image given its public URL. Blocks that
// still point at the URL keep it and render a broken image.
func (a *API) AssetDelete(w http.ResponseWriter, r *http.Request) {
	if a.assets == nil {
		writeError(w, "Object storage is not configured.", http.StatusServiceUnavailable)
		return
	}
	wid := chi.URLParam(r, "wid")
	key, ok := a.assets.ExtractKey(r.URL.Query().Get("url"))
	if !ok || !strings.HasPrefix(key, "websites/"+wid+"/") {
		writeError(w, "URL is not an asset of this website.", http.StatusBadRequest)
		return
	}
	if err := a.assets.Delete(r.Context(), key); err != nil {
		writeServiceError(w, r, err)
		return
	}
	slog.Info("asset deleted", "website_id", wid, "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// themeError validates the optional theme of a create or update request.
func themeError(c *models.Colors, f *models.Fonts) string {
	var colors []string
	if c != nil {
		colors = []string{c.Primary, c.Secondary, c.Accent}
	}
	var heading string
	if f != nil {
		heading = f.Heading
	}
	return validateTheme(colors, heading)
}

// revisionTag formats a website revision as an entity tag.
func revisionTag(rev int64) string {
	return `"r` + strconv.FormatInt(rev, 10) + `"`
}

// parseRevisionTag accepts an entity tag from revisionTag or a bare number.
func parseRevisionTag(tag string) (int64, bool) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
	tag = strings.Trim(tag, `"`)
	tag = strings.TrimPrefix(tag, "r")
	rev, err := strconv.ParseInt(tag, 10, 64)
	if err != nil || rev < 0 {
		return 0, false
	}
	return rev, true
}
