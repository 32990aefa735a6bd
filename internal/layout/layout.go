// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package layout implements the structural operations on a page layout: an
// ordered sequence of typed blocks with unique ids.
//
// Every operation takes a layout and returns a new one; the input slice is
// never modified. Blocks that an operation does not touch are shared between
// input and output, so callers must treat block configs as read-only and go
// through UpdateConfig to change them.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/ident"
)

var (
	// ErrDuplicateBlockID is returned when a block id is already present.
	ErrDuplicateBlockID = errors.New("duplicate block id")
	// ErrInvalidLayout is returned for malformed or structurally invalid documents.
	ErrInvalidLayout = errors.New("invalid layout")
	// ErrIndexOutOfRange is returned by Reorder for a source index outside the layout.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidPatch is returned when a config patch does not fit the block's type.
	ErrInvalidPatch = errors.New("invalid config patch")
)

// Layout is the ordered list of blocks on a page. Order is render order.
type Layout []blocks.Block

// Patch is a partial config: top-level keys replace the block's values.
type Patch map[string]json.RawMessage

// Add appends b to the end of l.
func Add(l Layout, b blocks.Block) (Layout, error) {
	return InsertAt(l, b, len(l))
}

// InsertBefore places b immediately before the first block of type anchor,
// or appends it when no such block exists.
func InsertBefore(l Layout, b blocks.Block, anchor blocks.BlockType) (Layout, error) {
	for i, existing := range l {
		if existing.Type == anchor {
			return InsertAt(l, b, i)
		}
	}
	return Add(l, b)
}

// InsertAt places b at index, clamped into [0, len(l)].
func InsertAt(l Layout, b blocks.Block, index int) (Layout, error) {
	if b.Config == nil || b.ID() == "" {
		return nil, fmt.Errorf("insert block: %w: block has no id", ErrInvalidLayout)
	}
	if Find(l, b.ID()) >= 0 {
		return nil, fmt.Errorf("insert block %s: %w", b.ID(), ErrDuplicateBlockID)
	}
	index = clamp(index, 0, len(l))

	out := make(Layout, 0, len(l)+1)
	out = append(out, l[:index]...)
	out = append(out, b)
	out = append(out, l[index:]...)
	return out, nil
}

// Remove drops the block with the given id. Removing an absent id returns an
// equal copy of l.
func Remove(l Layout, id string) Layout {
	out := make(Layout, 0, len(l))
	for _, b := range l {
		if b.ID() != id {
			out = append(out, b)
		}
	}
	return out
}

// UpdateConfig shallow-merges patch into the config of the block with the
// given id. The "id" key of the patch is ignored. An absent id leaves the
// layout as it is.
func UpdateConfig(l Layout, id string, patch Patch) (Layout, error) {
	i := Find(l, id)
	if i < 0 || len(patch) == 0 {
		return copyOf(l), nil
	}
	target := l[i]

	fields, err := blocks.ConfigFields(target.Config)
	if err != nil {
		return nil, fmt.Errorf("update block %s: %w", id, err)
	}
	for k, v := range patch {
		// Keys match case-insensitively on decode, so "ID" would reach the id too.
		if strings.EqualFold(k, "id") {
			continue
		}
		for existing := range fields {
			if existing != k && strings.EqualFold(existing, k) {
				delete(fields, existing)
			}
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("update block %s: %w: %v", id, ErrInvalidPatch, err)
	}
	cfg, err := blocks.DecodeConfig(target.Type, merged)
	if err != nil {
		return nil, fmt.Errorf("update block %s: %w: %v", id, ErrInvalidPatch, err)
	}

	out := copyOf(l)
	out[i] = blocks.Block{Type: target.Type, Config: cfg, Extra: target.Extra}
	return out, nil
}

// Reorder moves the block at from to position to, where to is an index into
// the layout after removal. to is clamped into [0, len(l)-1].
func Reorder(l Layout, from, to int) (Layout, error) {
	if from < 0 || from >= len(l) {
		return nil, fmt.Errorf("reorder from %d of %d: %w", from, len(l), ErrIndexOutOfRange)
	}
	to = clamp(to, 0, len(l)-1)

	moved := l[from]
	rest := make(Layout, 0, len(l))
	rest = append(rest, l[:from]...)
	rest = append(rest, l[from+1:]...)

	out := make(Layout, 0, len(l))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out, nil
}

// CloneBlock returns a deep copy of b with a freshly generated id.
func CloneBlock(b blocks.Block) (blocks.Block, error) {
	cfg, err := blocks.WithID(b.Config, ident.New())
	if err != nil {
		return blocks.Block{}, fmt.Errorf("clone block %s: %w", b.ID(), err)
	}
	return blocks.Block{Type: b.Type, Config: cfg, Extra: cloneExtra(b.Extra)}, nil
}

// Find returns the index of the block with the given id, or -1.
func Find(l Layout, id string) int {
	for i, b := range l {
		if b.ID() == id {
			return i
		}
	}
	return -1
}

// IDs returns the block ids in order.
func IDs(l Layout) []string {
	ids := make([]string, len(l))
	for i, b := range l {
		ids[i] = b.ID()
	}
	return ids
}

// HasType reports whether l contains a block of type t.
func HasType(l Layout, t blocks.BlockType) bool {
	for _, b := range l {
		if b.Type == t {
			return true
		}
	}
	return false
}

func copyOf(l Layout) Layout {
	out := make(Layout, len(l))
	copy(out, l)
	return out
}

func cloneExtra(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
