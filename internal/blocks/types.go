// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks defines the closed set of block types a page can be built
// from, the typed configuration record of each type, and the registry that
// maps every type to its default configuration and palette metadata.
package blocks

import (
	"errors"
	"fmt"
)

// ErrUnknownBlockType is returned for any tag outside the enumeration.
// Renderers treat it as recoverable and draw a placeholder instead.
var ErrUnknownBlockType = errors.New("unknown block type")

// BlockType tags a block. The set is closed: a block's type never changes
// after creation, a different type means removing the block and adding a new one.
type BlockType string

const (
	Navbar       BlockType = "NAVBAR"
	Hero         BlockType = "HERO"
	TextSection  BlockType = "TEXT_SECTION"
	ServiceGrid  BlockType = "SERVICE_GRID"
	ProductList  BlockType = "PRODUCT_LIST"
	Testimonials BlockType = "TESTIMONIALS"
	ContactForm  BlockType = "CONTACT_FORM"
	Stats        BlockType = "STATS"
	CTA          BlockType = "CTA"
	Footer       BlockType = "FOOTER"
)

// all lists every block type in palette order.
var all = []BlockType{
	Navbar, Hero, TextSection, ServiceGrid, ProductList,
	Testimonials, ContactForm, Stats, CTA, Footer,
}

// All returns every block type in palette order.
func All() []BlockType {
	out := make([]BlockType, len(all))
	copy(out, all)
	return out
}

// Valid reports whether t is a member of the enumeration.
func (t BlockType) Valid() bool {
	for _, known := range all {
		if t == known {
			return true
		}
	}
	return false
}

// IsContent reports whether t is a content block, as opposed to the
// navigation chrome (navbar and footer) that frames a page.
func (t BlockType) IsContent() bool {
	return t.Valid() && t != Navbar && t != Footer
}

// String returns the tag.
func (t BlockType) String() string {
	return string(t)
}

// ParseBlockType converts a tag into a BlockType.
func ParseBlockType(s string) (BlockType, error) {
	t := BlockType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBlockType, s)
	}
	return t, nil
}
