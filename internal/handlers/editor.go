// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/editor"
	"sitebuilder/internal/layout"
)

// Editor groups the handlers of the page editor. Every action answers with
// the full session so the client can redraw from it.
type Editor struct {
	manager *editor.Manager
}

// NewEditor creates the editor handler group.
func NewEditor(manager *editor.Manager) *Editor {
	return &Editor{manager: manager}
}

type openRequest struct {
	WebsiteID string `json:"websiteId"`
	PageID    string `json:"pageId"`
}

type selectRequest struct {
	BlockID string `json:"blockId"`
}

type addBlockRequest struct {
	Type string `json:"type"`
}

type indexRequest struct {
	Index int `json:"index"`
}

// blockResponse is returned by actions that create a block.
type blockResponse struct {
	Session *editor.Session `json:"session"`
	Block   blocks.Block    `json:"block"`
}

// Open starts an editing session on a page.
func (e *Editor) Open(w http.ResponseWriter, r *http.Request) {
	var in openRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if in.WebsiteID == "" || in.PageID == "" {
		writeError(w, "websiteId and pageId are required.", http.StatusBadRequest)
		return
	}

	s, err := e.manager.Open(r.Context(), in.WebsiteID, in.PageID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// Get returns a session.
func (e *Editor) Get(w http.ResponseWriter, r *http.Request) {
	s, err := e.manager.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Close discards a session.
func (e *Editor) Close(w http.ResponseWriter, r *http.Request) {
	if err := e.manager.Close(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reload drops unsaved changes and reloads the stored layout.
func (e *Editor) Reload(w http.ResponseWriter, r *http.Request) {
	s, err := e.manager.Reload(r.Context(), chi.URLParam(r, "sid"))
	writeSession(w, r, s, nil, err)
}

// Select changes the selected block. An empty blockId clears it.
func (e *Editor) Select(w http.ResponseWriter, r *http.Request) {
	var in selectRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := e.manager.Select(r.Context(), chi.URLParam(r, "sid"), in.BlockID)
	writeSession(w, r, s, nil, err)
}

// AddBlock adds a block of the requested type to the page.
func (e *Editor) AddBlock(w http.ResponseWriter, r *http.Request) {
	var in addBlockRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := blocks.ParseBlockType(in.Type)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	s, b, err := e.manager.AddBlock(r.Context(), chi.URLParam(r, "sid"), t)
	writeSession(w, r, s, &b, err)
}

// PatchBlock merges the request body into a block's config.
func (e *Editor) PatchBlock(w http.ResponseWriter, r *http.Request) {
	var patch layout.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := e.manager.PatchBlock(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "bid"), patch)
	writeSession(w, r, s, nil, err)
}

// RemoveBlock removes a block from the page.
func (e *Editor) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	s, err := e.manager.RemoveBlock(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "bid"))
	writeSession(w, r, s, nil, err)
}

// DuplicateBlock inserts a copy of a block after it.
func (e *Editor) DuplicateBlock(w http.ResponseWriter, r *http.Request) {
	s, b, err := e.manager.DuplicateBlock(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "bid"))
	writeSession(w, r, s, &b, err)
}

// DragStart begins dragging the block at the given index.
func (e *Editor) DragStart(w http.ResponseWriter, r *http.Request) {
	var in indexRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := e.manager.DragStart(r.Context(), chi.URLParam(r, "sid"), in.Index)
	writeSession(w, r, s, nil, err)
}

// DragOver moves the dragged block to the given index.
func (e *Editor) DragOver(w http.ResponseWriter, r *http.Request) {
	var in indexRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := e.manager.DragOver(r.Context(), chi.URLParam(r, "sid"), in.Index)
	writeSession(w, r, s, nil, err)
}

// DragEnd drops the dragged block and saves the layout.
func (e *Editor) DragEnd(w http.ResponseWriter, r *http.Request) {
	s, err := e.manager.DragEnd(r.Context(), chi.URLParam(r, "sid"))
	writeSession(w, r, s, nil, err)
}

// writeSession answers an editor action. When the action succeeded on the
// working copy but saving the layout failed, the session is still returned,
// marked dirty, alongside the error.
func writeSession(w http.ResponseWriter, r *http.Request, s *editor.Session, b *blocks.Block, err error) {
	if err != nil && s == nil {
		writeServiceError(w, r, err)
		return
	}

	var body any = s
	status := http.StatusOK
	if b != nil && b.Config != nil {
		body = blockResponse{Session: s, Block: *b}
	}
	if err != nil {
		msg := err.Error()
		status = errorStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("layout save failed", "session_id", s.ID, "error", err)
			msg = "Saving the layout failed. Changes are kept in the session."
			status = http.StatusServiceUnavailable
		}
		body = map[string]any{"error": msg, "session": s}
	}
	writeJSON(w, status, body)
}
