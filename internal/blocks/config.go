// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"encoding/json"
	"fmt"
)

// Link types for buttons on HERO and CTA blocks.
const (
	LinkTypePage     = "page"
	LinkTypeExternal = "external"
)

// Config is the configuration of one block. It is a closed sum type: only
// the record types in this file implement it.
type Config interface {
	// BlockID returns the block's identifier, stable for its lifetime.
	BlockID() string
	// Variant returns the visual sub-template selector ("variant-1"...).
	Variant() string
	// Kind returns the block type this record configures.
	Kind() BlockType

	base() *Base
}

// Base carries the fields shared by every block configuration.
type Base struct {
	ID     string `json:"id"`
	Layout string `json:"layout,omitempty"`

	// Extra holds config keys this version does not know about. They are
	// kept verbatim and written back on encode.
	Extra map[string]json.RawMessage `json:"-"`
}

// BlockID returns the block identifier.
func (b *Base) BlockID() string { return b.ID }

// Variant returns the layout variant selector.
func (b *Base) Variant() string { return b.Layout }

func (b *Base) base() *Base { return b }

// Link points a navigation entry at a page of the same website.
type Link struct {
	Label  string `json:"label"`
	PageID string `json:"pageId"`
}

// NavbarConfig configures the top navigation bar.
type NavbarConfig struct {
	Base
	BrandName string `json:"brandName"`
	Logo      string `json:"logo,omitempty"`
	Links     []Link `json:"links"`
}

// HeroConfig configures the large header section.
type HeroConfig struct {
	Base
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	Image          string `json:"image,omitempty"`
	ShowButton     *bool  `json:"showButton,omitempty"`
	ButtonText     string `json:"buttonText,omitempty"`
	ButtonLink     string `json:"buttonLink,omitempty"`
	ButtonLinkType string `json:"buttonLinkType,omitempty"`
}

// TextSectionConfig configures a heading with a paragraph of text.
type TextSectionConfig struct {
	Base
	Heading   string `json:"heading"`
	Content   string `json:"content"`
	Alignment string `json:"alignment,omitempty"`
}

// ServiceGridConfig configures the services grid.
type ServiceGridConfig struct {
	Base
	Limit   *int `json:"limit,omitempty"`
	Columns *int `json:"columns,omitempty"`
}

// ProductListConfig configures the product list.
type ProductListConfig struct {
	Base
	Limit     *int  `json:"limit,omitempty"`
	ShowPrice *bool `json:"showPrice,omitempty"`
}

// TestimonialsConfig configures customer testimonials.
type TestimonialsConfig struct {
	Base
	Limit    *int  `json:"limit,omitempty"`
	Autoplay *bool `json:"autoplay,omitempty"`
}

// ContactFormConfig configures the visitor inquiry form.
type ContactFormConfig struct {
	Base
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SubmitText  string `json:"submitText,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// StatsConfig configures the key-metrics section.
type StatsConfig struct {
	Base
	ShowIcons *bool `json:"showIcons,omitempty"`
}

// CTAConfig configures a call-to-action section.
type CTAConfig struct {
	Base
	Title          string `json:"title"`
	Description    string `json:"description"`
	ButtonText     string `json:"buttonText"`
	Style          string `json:"variant,omitempty"`
	ButtonLink     string `json:"buttonLink,omitempty"`
	ButtonLinkType string `json:"buttonLinkType,omitempty"`
}

// FooterConfig configures the page footer.
type FooterConfig struct {
	Base
	CompanyName string `json:"companyName"`
	Description string `json:"description,omitempty"`
	ShowLinks   *bool  `json:"showLinks,omitempty"`
	Links       []Link `json:"links,omitempty"`
}

func (*NavbarConfig) Kind() BlockType       { return Navbar }
func (*HeroConfig) Kind() BlockType         { return Hero }
func (*TextSectionConfig) Kind() BlockType  { return TextSection }
func (*ServiceGridConfig) Kind() BlockType  { return ServiceGrid }
func (*ProductListConfig) Kind() BlockType  { return ProductList }
func (*TestimonialsConfig) Kind() BlockType { return Testimonials }
func (*ContactFormConfig) Kind() BlockType  { return ContactForm }
func (*StatsConfig) Kind() BlockType        { return Stats }
func (*CTAConfig) Kind() BlockType          { return CTA }
func (*FooterConfig) Kind() BlockType       { return Footer }

// newConfig returns an empty record of the concrete type for t.
func newConfig(t BlockType) (Config, error) {
	switch t {
	case Navbar:
		return &NavbarConfig{}, nil
	case Hero:
		return &HeroConfig{}, nil
	case TextSection:
		return &TextSectionConfig{}, nil
	case ServiceGrid:
		return &ServiceGridConfig{}, nil
	case ProductList:
		return &ProductListConfig{}, nil
	case Testimonials:
		return &TestimonialsConfig{}, nil
	case ContactForm:
		return &ContactFormConfig{}, nil
	case Stats:
		return &StatsConfig{}, nil
	case CTA:
		return &CTAConfig{}, nil
	case Footer:
		return &FooterConfig{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, string(t))
}

// PageLinks returns every page reference held by cfg: navigation links on
// NAVBAR and FOOTER, and the button target on HERO and CTA when the button
// links to a page.
func PageLinks(cfg Config) []string {
	var ids []string
	switch c := cfg.(type) {
	case *NavbarConfig:
		for _, l := range c.Links {
			ids = append(ids, l.PageID)
		}
	case *FooterConfig:
		for _, l := range c.Links {
			ids = append(ids, l.PageID)
		}
	case *HeroConfig:
		if c.ButtonLinkType == LinkTypePage && c.ButtonLink != "" {
			ids = append(ids, c.ButtonLink)
		}
	case *CTAConfig:
		if c.ButtonLinkType == LinkTypePage && c.ButtonLink != "" {
			ids = append(ids, c.ButtonLink)
		}
	}
	return ids
}

// Bool returns a pointer to v, for optional config fields.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for optional config fields.
func Int(v int) *int { return &v }
