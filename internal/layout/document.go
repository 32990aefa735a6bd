// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"encoding/json"
	"errors"
	"fmt"

	"sitebuilder/internal/blocks"
)

// Validate reports whether v is a valid layout document: an array of
// objects, each with a registered "type" and a "config" object holding a
// non-empty string "id", with no id repeated, and every known config field
// of the type its block expects. v is either a value produced by
// json.Unmarshal into an interface{} or a typed Layout. It accepts exactly
// the documents Deserialize accepts.
//
// Page references are not checked; see DanglingReferences.
func Validate(v any) bool {
	if l, ok := v.(Layout); ok {
		return l.Validate() == nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	_, err = decode(v, data)
	return err == nil
}

// decode checks the structure of raw, then decodes data, the encoding of
// raw, into a typed Layout.
func decode(raw any, data []byte) (Layout, error) {
	if err := validateValue(raw); err != nil {
		return nil, err
	}
	l := Layout{}
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func validateValue(v any) error {
	switch doc := v.(type) {
	case []any:
		seen := make(map[string]bool, len(doc))
		for i, el := range doc {
			obj, ok := el.(map[string]any)
			if !ok {
				return fmt.Errorf("block %d is not an object", i)
			}
			tag, _ := obj["type"].(string)
			if tag == "" {
				return fmt.Errorf("block %d has no type", i)
			}
			if !blocks.Known(blocks.BlockType(tag)) {
				return fmt.Errorf("block %d: %w: %q", i, blocks.ErrUnknownBlockType, tag)
			}
			cfg, ok := obj["config"].(map[string]any)
			if !ok {
				return fmt.Errorf("block %d: %w", i, blocks.ErrMissingConfig)
			}
			id, _ := cfg["id"].(string)
			if id == "" {
				return fmt.Errorf("block %d has no id", i)
			}
			if seen[id] {
				return fmt.Errorf("block %d: %w: %s", i, ErrDuplicateBlockID, id)
			}
			seen[id] = true
		}
		return nil
	default:
		return errors.New("document is not an array")
	}
}

// Validate checks the typed layout: every block has a config of its own type,
// a non-empty id and a registered type, and ids are unique.
func (l Layout) Validate() error {
	seen := make(map[string]bool, len(l))
	for i, b := range l {
		if !blocks.Known(b.Type) {
			return fmt.Errorf("block %d: %w: %q", i, blocks.ErrUnknownBlockType, string(b.Type))
		}
		if b.Config == nil {
			return fmt.Errorf("block %d: %w", i, blocks.ErrMissingConfig)
		}
		if b.Config.Kind() != b.Type {
			return fmt.Errorf("block %d: %s config on a %s block", i, b.Config.Kind(), b.Type)
		}
		id := b.ID()
		if id == "" {
			return fmt.Errorf("block %d has no id", i)
		}
		if seen[id] {
			return fmt.Errorf("block %d: %w: %s", i, ErrDuplicateBlockID, id)
		}
		seen[id] = true
	}
	return nil
}

// Serialize encodes l as a JSON array indented with two spaces.
func Serialize(l Layout) ([]byte, error) {
	if l == nil {
		l = Layout{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize layout: %w", err)
	}
	return data, nil
}

// Deserialize decodes and validates a layout document. Every failure wraps
// ErrInvalidLayout.
func Deserialize(data []byte) (Layout, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	l, err := decode(raw, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return l, nil
}

// Reference is a page link held by a block.
type Reference struct {
	BlockID   string           `json:"blockId"`
	BlockType blocks.BlockType `json:"blockType"`
	PageID    string           `json:"pageId"`
}

// References lists every page link in l, in block order.
func References(l Layout) []Reference {
	var refs []Reference
	for _, b := range l {
		if b.Config == nil {
			continue
		}
		for _, pid := range blocks.PageLinks(b.Config) {
			refs = append(refs, Reference{BlockID: b.ID(), BlockType: b.Type, PageID: pid})
		}
	}
	return refs
}

// DanglingReferences lists the page links in l that point at none of pageIDs.
// Dangling links are tolerated on write and skipped at render time.
func DanglingReferences(l Layout, pageIDs []string) []Reference {
	known := make(map[string]bool, len(pageIDs))
	for _, id := range pageIDs {
		known[id] = true
	}
	var out []Reference
	for _, ref := range References(l) {
		if !known[ref.PageID] {
			out = append(out, ref)
		}
	}
	return out
}
