// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import "fmt"

// Uniqueness controls how many blocks of one type a page may hold.
type Uniqueness string

const (
	// UniqueAll allows at most one block of every type per page.
	UniqueAll Uniqueness = "all"
	// UniqueContent only restricts the navbar and footer.
	UniqueContent Uniqueness = "content"
	// UniqueNone places no restriction.
	UniqueNone Uniqueness = "none"
)

// ParseUniqueness reads a policy name. An empty string means UniqueAll.
func ParseUniqueness(s string) (Uniqueness, error) {
	switch Uniqueness(s) {
	case "", UniqueAll:
		return UniqueAll, nil
	case UniqueContent:
		return UniqueContent, nil
	case UniqueNone:
		return UniqueNone, nil
	}
	return "", fmt.Errorf("unknown uniqueness policy %q (want all, content or none)", s)
}

// Restricts reports whether the policy allows only one block of type t.
func (u Uniqueness) Restricts(t BlockType) bool {
	switch u {
	case UniqueNone:
		return false
	case UniqueContent:
		return !t.IsContent()
	default:
		return true
	}
}

// PaletteEntry is one row of the component palette shown by the editor.
type PaletteEntry struct {
	Type      BlockType `json:"type"`
	Metadata  Metadata  `json:"metadata"`
	Present   bool      `json:"present"`
	Available bool      `json:"available"`
}

// Palette lists every registered type with its metadata, marking the types
// already present in existing and whether another one may still be added.
func (r *Registry) Palette(existing []Block, u Uniqueness) []PaletteEntry {
	present := make(map[BlockType]bool, len(existing))
	for _, b := range existing {
		present[b.Type] = true
	}

	var out []PaletteEntry
	for _, t := range r.Types() {
		def, err := r.Lookup(t)
		if err != nil {
			continue
		}
		out = append(out, PaletteEntry{
			Type:      t,
			Metadata:  def.Metadata,
			Present:   present[t],
			Available: !(present[t] && u.Restricts(t)),
		})
	}
	return out
}

// Palette lists the stock registry's palette.
func Palette(existing []Block, u Uniqueness) []PaletteEntry {
	return std.Palette(existing, u)
}
