// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/ident"
	"sitebuilder/internal/layout"
	"sitebuilder/internal/sites"
)

// SessionStore keeps editing sessions between requests.
type SessionStore interface {
	// Get returns the session, or nil when it does not exist or expired.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// lockStripes is the number of mutexes sessions are hashed onto.
const lockStripes = 64

// Manager applies editing actions to sessions. Structural edits change the
// working layout first and then write it through the document store; a drag
// only writes once, when it ends.
type Manager struct {
	sites    *sites.Service
	sessions SessionStore
	now      func() time.Time
	locks    [lockStripes]sync.Mutex
}

// NewManager creates a Manager.
func NewManager(svc *sites.Service, sessions SessionStore) *Manager {
	return &Manager{sites: svc, sessions: sessions, now: time.Now}
}

// Open starts a session on a page, with the stored layout as working copy.
func (m *Manager) Open(ctx context.Context, websiteID, pageID string) (*Session, error) {
	w, err := m.sites.GetWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	p := w.Page(pageID)
	if p == nil {
		return nil, sites.ErrPageNotFound
	}

	now := m.now().UTC()
	s := &Session{
		ID:        ident.New(),
		WebsiteID: websiteID,
		PageID:    pageID,
		Layout:    p.Layout,
		Revision:  w.Revision,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.Layout == nil {
		s.Layout = layout.Layout{}
	}
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	slog.Debug("editing session opened", "session_id", s.ID, "website_id", websiteID, "page_id", pageID)
	return s, nil
}

// Get loads a session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close discards a session. Closing an unknown session is not an error.
func (m *Manager) Close(ctx context.Context, id string) error {
	if err := m.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("close session %s: %w", id, err)
	}
	return nil
}

// Reload replaces the working copy with the stored layout, discarding
// unsaved changes.
func (m *Manager) Reload(ctx context.Context, id string) (*Session, error) {
	return m.update(ctx, id, false, func(s *Session) error {
		w, err := m.sites.GetWebsite(ctx, s.WebsiteID)
		if err != nil {
			return err
		}
		p := w.Page(s.PageID)
		if p == nil {
			return sites.ErrPageNotFound
		}
		s.Layout = p.Layout
		s.Revision = w.Revision
		s.Dirty = false
		s.Drag = DragState{}
		if s.SelectedBlockID != "" && layout.Find(s.Layout, s.SelectedBlockID) < 0 {
			s.SelectedBlockID = ""
		}
		return nil
	})
}

// Select changes the selected block.
func (m *Manager) Select(ctx context.Context, id, blockID string) (*Session, error) {
	return m.update(ctx, id, false, func(s *Session) error {
		return s.Select(blockID)
	})
}

// AddBlock places a new block of type t on the page and selects it.
func (m *Manager) AddBlock(ctx context.Context, id string, t blocks.BlockType) (*Session, blocks.Block, error) {
	var added blocks.Block
	s, err := m.update(ctx, id, true, func(s *Session) error {
		b, err := m.sites.Registry().NewBlock(t, ident.New())
		if err != nil {
			return err
		}
		next, err := m.sites.PlaceBlock(s.Layout, b)
		if err != nil {
			return err
		}
		s.Layout = next
		s.SelectedBlockID = b.ID()
		added = b
		return nil
	})
	return s, added, err
}

// PatchBlock merges patch into a block's config.
func (m *Manager) PatchBlock(ctx context.Context, id, blockID string, patch layout.Patch) (*Session, error) {
	return m.update(ctx, id, true, func(s *Session) error {
		if layout.Find(s.Layout, blockID) < 0 {
			return fmt.Errorf("patch %s: %w", blockID, ErrBlockNotFound)
		}
		next, err := layout.UpdateConfig(s.Layout, blockID, patch)
		if err != nil {
			return err
		}
		s.Layout = next
		return nil
	})
}

// RemoveBlock removes a block. Removing a block that is not on the page
// changes nothing.
func (m *Manager) RemoveBlock(ctx context.Context, id, blockID string) (*Session, error) {
	return m.update(ctx, id, true, func(s *Session) error {
		if layout.Find(s.Layout, blockID) < 0 {
			return errUnchanged
		}
		s.Remove(blockID)
		return nil
	})
}

// DuplicateBlock inserts a copy of a block right after it and selects the
// copy. Types limited to one per page cannot be duplicated.
func (m *Manager) DuplicateBlock(ctx context.Context, id, blockID string) (*Session, blocks.Block, error) {
	var dup blocks.Block
	s, err := m.update(ctx, id, true, func(s *Session) error {
		i := layout.Find(s.Layout, blockID)
		if i < 0 {
			return fmt.Errorf("duplicate %s: %w", blockID, ErrBlockNotFound)
		}
		src := s.Layout[i]
		if m.sites.Uniqueness().Restricts(src.Type) {
			return fmt.Errorf("%w: %s", sites.ErrBlockTypePresent, src.Type)
		}
		b, err := layout.CloneBlock(src)
		if err != nil {
			return err
		}
		next, err := layout.InsertAt(s.Layout, b, i+1)
		if err != nil {
			return err
		}
		s.Layout = next
		s.SelectedBlockID = b.ID()
		dup = b
		return nil
	})
	return s, dup, err
}

// DragStart begins dragging the block at index.
func (m *Manager) DragStart(ctx context.Context, id string, index int) (*Session, error) {
	return m.update(ctx, id, false, func(s *Session) error {
		return s.DragStart(index)
	})
}

// DragOver moves the dragged block in the working copy only.
func (m *Manager) DragOver(ctx context.Context, id string, index int) (*Session, error) {
	return m.update(ctx, id, false, func(s *Session) error {
		return s.DragOver(index)
	})
}

// DragEnd finishes the drag and writes the resulting layout.
func (m *Manager) DragEnd(ctx context.Context, id string) (*Session, error) {
	return m.update(ctx, id, true, func(s *Session) error {
		_, err := s.DragEnd()
		return err
	})
}

// errUnchanged tells update that fn made no change worth saving.
var errUnchanged = errors.New("unchanged")

// update loads the session, applies fn and saves it. With persist set the
// working layout is then written to the document store; a failed write
// leaves the working copy in place and marks the session dirty.
func (m *Manager) update(ctx context.Context, id string, persist bool, fn func(*Session) error) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		if errors.Is(err, errUnchanged) {
			return s, nil
		}
		return nil, err
	}
	s.UpdatedAt = m.now().UTC()

	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	if !persist {
		return s, nil
	}

	w, werr := m.sites.UpdatePageLayout(ctx, s.WebsiteID, s.PageID, s.Layout)
	if werr != nil {
		s.Dirty = true
		slog.Warn("layout write failed, working copy kept",
			"session_id", id, "website_id", s.WebsiteID, "page_id", s.PageID, "error", werr)
	} else {
		s.Dirty = false
		s.Revision = w.Revision
	}
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	if werr != nil {
		return s, werr
	}
	return s, nil
}

func (m *Manager) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &m.locks[h.Sum32()%lockStripes]
}
