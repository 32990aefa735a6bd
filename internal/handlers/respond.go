// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the site builder: the JSON
// API over websites and pages, the editor API and the rendered pages.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/catalog"
	"sitebuilder/internal/editor"
	"sitebuilder/internal/layout"
	"sitebuilder/internal/sites"
	"sitebuilder/internal/templates"
)

// maxJSONBody caps request bodies other than layout imports and uploads.
const maxJSONBody = 64 << 10

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps an error from the domain packages to a status code.
// Unexpected errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, "Internal server error.", status)
		return
	}
	writeError(w, err.Error(), status)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, sites.ErrWebsiteNotFound),
		errors.Is(err, sites.ErrPageNotFound),
		errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, editor.ErrBlockNotFound),
		errors.Is(err, catalog.ErrUnknownComponent):
		return http.StatusNotFound
	case errors.Is(err, layout.ErrInvalidLayout),
		errors.Is(err, layout.ErrInvalidPatch),
		errors.Is(err, layout.ErrDuplicateBlockID),
		errors.Is(err, sites.ErrInvalidWebsite):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sites.ErrDuplicatePath),
		errors.Is(err, sites.ErrLastPageProtected),
		errors.Is(err, sites.ErrBlockTypePresent),
		errors.Is(err, sites.ErrRevisionMismatch),
		errors.Is(err, editor.ErrDragActive),
		errors.Is(err, editor.ErrNoDrag):
		return http.StatusConflict
	case errors.Is(err, blocks.ErrUnknownBlockType),
		errors.Is(err, templates.ErrUnknownTemplate),
		errors.Is(err, layout.ErrIndexOutOfRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON request body into v. Unknown fields are rejected
// so that typos in field names surface as errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
