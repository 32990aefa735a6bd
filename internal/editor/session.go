// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor holds the state of one person editing one page: a working
// copy of the layout, the selected block and an in-progress drag. The state
// is ephemeral and never stored in the website document; only the layout is
// written back, through the document store.
package editor

import (
	"errors"
	"fmt"
	"time"

	"sitebuilder/internal/layout"
)

var (
	ErrSessionNotFound = errors.New("editing session not found")
	ErrBlockNotFound   = errors.New("block not on page")
	ErrNoDrag          = errors.New("no drag in progress")
	ErrDragActive      = errors.New("drag already in progress")
)

// DragState tracks a block being dragged. Index is the block's current
// position in the working layout, updated on every DragOver.
type DragState struct {
	Active bool `json:"active"`
	Index  int  `json:"index"`
}

// Session is the editing state for one page.
type Session struct {
	ID              string        `json:"id"`
	WebsiteID       string        `json:"websiteId"`
	PageID          string        `json:"pageId"`
	Layout          layout.Layout `json:"layout"`
	SelectedBlockID string        `json:"selectedBlockId,omitempty"`
	Drag            DragState     `json:"drag"`

	// Revision is the website revision the working copy was last
	// synchronised with.
	Revision int64 `json:"revision"`

	// Dirty is set when the last write of the working copy failed, so the
	// layout shown differs from the stored one.
	Dirty bool `json:"dirty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Select marks a block as selected. An empty id clears the selection.
func (s *Session) Select(id string) error {
	if id != "" && layout.Find(s.Layout, id) < 0 {
		return fmt.Errorf("select %s: %w", id, ErrBlockNotFound)
	}
	s.SelectedBlockID = id
	return nil
}

// Remove drops a block from the working layout and clears the selection if
// it pointed at that block.
func (s *Session) Remove(id string) {
	s.Layout = layout.Remove(s.Layout, id)
	if s.SelectedBlockID == id {
		s.SelectedBlockID = ""
	}
}

// DragStart begins dragging the block at index.
func (s *Session) DragStart(index int) error {
	if s.Drag.Active {
		return ErrDragActive
	}
	if index < 0 || index >= len(s.Layout) {
		return fmt.Errorf("drag start %d of %d: %w", index, len(s.Layout), layout.ErrIndexOutOfRange)
	}
	s.Drag = DragState{Active: true, Index: index}
	return nil
}

// DragOver moves the dragged block to index in the working layout. The
// target is clamped to the layout bounds.
func (s *Session) DragOver(index int) error {
	if !s.Drag.Active {
		return ErrNoDrag
	}
	next, err := layout.Reorder(s.Layout, s.Drag.Index, index)
	if err != nil {
		return err
	}
	s.Layout = next
	s.Drag.Index = min(max(index, 0), len(next)-1)
	return nil
}

// DragEnd finishes the drag and returns the layout to persist.
func (s *Session) DragEnd() (layout.Layout, error) {
	if !s.Drag.Active {
		return nil, ErrNoDrag
	}
	s.Drag = DragState{}
	return s.Layout, nil
}
