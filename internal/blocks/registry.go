// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"errors"
	"fmt"
	"sync"
)

// Variant is a named visual sub-template of a block type, selected through
// the config's "layout" field.
type Variant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PreviewImage string `json:"previewImage"`
}

// Metadata describes a block type in the component palette. It is purely
// descriptive and never changes at runtime.
type Metadata struct {
	DisplayName string    `json:"displayName"`
	Category    string    `json:"category"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Definition is what the registry knows about one block type.
type Definition struct {
	Metadata Metadata
	// Default builds a fully populated config without an id. It must
	// return a new value on every call.
	Default func() Config
}

// Registry maps block types to their definitions. The set of keys is bounded
// by the BlockType enumeration; Register can replace a definition but never
// add a new tag.
type Registry struct {
	mu   sync.RWMutex
	defs map[BlockType]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[BlockType]Definition)}
}

// DefaultRegistry returns a registry populated with the stock definitions of all
// ten block types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for t, def := range builtinDefinitions() {
		r.defs[t] = def
	}
	return r
}

// Register installs def for t. Unknown tags are rejected so the enumeration
// stays closed.
func (r *Registry) Register(t BlockType, def Definition) error {
	if !t.Valid() {
		return fmt.Errorf("register: %w: %q", ErrUnknownBlockType, string(t))
	}
	if def.Default == nil {
		return errors.New("register: definition has no default config")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[t] = def
	return nil
}

// Lookup returns the definition for t.
func (r *Registry) Lookup(t BlockType) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[t]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownBlockType, string(t))
	}
	return def, nil
}

// Has reports whether t has a definition.
func (r *Registry) Has(t BlockType) bool {
	_, err := r.Lookup(t)
	return err == nil
}

// Types returns the registered types in palette order.
func (r *Registry) Types() []BlockType {
	var out []BlockType
	for _, t := range all {
		if r.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// NewBlock instantiates a block of type t from its default config with the
// caller-supplied id.
func (r *Registry) NewBlock(t BlockType, id string) (Block, error) {
	def, err := r.Lookup(t)
	if err != nil {
		return Block{}, err
	}
	cfg := def.Default()
	if cfg == nil || cfg.Kind() != t {
		return Block{}, fmt.Errorf("default config for %s has the wrong type", t)
	}
	cfg.base().ID = id
	return Block{Type: t, Config: cfg}, nil
}

// std is the stock registry behind the package-level helpers.
var std = DefaultRegistry()

// Lookup returns the stock definition for t.
func Lookup(t BlockType) (Definition, error) { return std.Lookup(t) }

// NewBlock instantiates a block from the stock default config for t.
func NewBlock(t BlockType, id string) (Block, error) { return std.NewBlock(t, id) }

// Known reports whether t is registered in the stock registry.
func Known(t BlockType) bool { return std.Has(t) }

func variants(prefix string, names ...string) []Variant {
	out := make([]Variant, len(names))
	for i, name := range names {
		out[i] = Variant{
			ID:           fmt.Sprintf("variant-%d", i+1),
			Name:         name,
			PreviewImage: fmt.Sprintf("/%s/variant%d.png", prefix, i+1),
		}
	}
	return out
}

func builtinDefinitions() map[BlockType]Definition {
	return map[BlockType]Definition{
		Navbar: {
			Metadata: Metadata{
				DisplayName: "Navigation Bar",
				Category:    "Navigation",
				Icon:        "🧭",
				Description: "Top navigation with links to pages",
			},
			Default: func() Config {
				return &NavbarConfig{
					Base:      Base{Layout: "variant-1"},
					BrandName: "My Website",
					Links:     []Link{},
				}
			},
		},
		Hero: {
			Metadata: Metadata{
				DisplayName: "Hero Section",
				Category:    "Header",
				Icon:        "🎯",
				Description: "Large header section with title and call-to-action",
				Variants:    variants("hero", "Simple Hero", "Modern Hero"),
			},
			Default: func() Config {
				return &HeroConfig{
					Base:           Base{Layout: "variant-1"},
					Title:          "Welcome to Our Website",
					Subtitle:       "Build amazing experiences with our platform",
					ShowButton:     Bool(true),
					ButtonText:     "Get Started",
					ButtonLinkType: LinkTypePage,
				}
			},
		},
		TextSection: {
			Metadata: Metadata{
				DisplayName: "Text Section",
				Category:    "Content",
				Icon:        "📝",
				Description: "Simple text content with heading",
				Variants:    variants("text", "Simple Text Section", "Modern Text Section"),
			},
			Default: func() Config {
				return &TextSectionConfig{
					Base:      Base{Layout: "variant-1"},
					Heading:   "Heading Text",
					Content:   "Your content goes here. Edit this text to match your needs.",
					Alignment: "left",
				}
			},
		},
		ServiceGrid: {
			Metadata: Metadata{
				DisplayName: "Service Grid",
				Category:    "Content",
				Icon:        "⚡",
				Description: "Grid layout displaying services",
				Variants:    variants("service", "Modern Service Grid", "Service Columns"),
			},
			Default: func() Config {
				return &ServiceGridConfig{
					Base:    Base{Layout: "variant-1"},
					Limit:   Int(6),
					Columns: Int(3),
				}
			},
		},
		ProductList: {
			Metadata: Metadata{
				DisplayName: "Product List",
				Category:    "E-commerce",
				Icon:        "🛍️",
				Description: "Display products with pricing",
				Variants:    variants("product", "Grid Cards", "List without Image"),
			},
			Default: func() Config {
				return &ProductListConfig{
					Base:      Base{Layout: "variant-1"},
					Limit:     Int(6),
					ShowPrice: Bool(true),
				}
			},
		},
		Testimonials: {
			Metadata: Metadata{
				DisplayName: "Testimonials",
				Category:    "Social Proof",
				Icon:        "💬",
				Description: "Customer reviews and feedback",
				Variants:    variants("testimonials", "Card Grid", "Column List"),
			},
			Default: func() Config {
				return &TestimonialsConfig{
					Base:     Base{Layout: "variant-1"},
					Limit:    Int(3),
					Autoplay: Bool(false),
				}
			},
		},
		ContactForm: {
			Metadata: Metadata{
				DisplayName: "Contact Form",
				Category:    "Forms",
				Icon:        "✉️",
				Description: "Form for visitor inquiries",
				Variants:    variants("contact", "Image + Form", "Centered Form"),
			},
			Default: func() Config {
				return &ContactFormConfig{
					Base:        Base{Layout: "variant-1"},
					Title:       "Contact Us",
					Description: "We would love to hear from you",
					SubmitText:  "Send Message",
				}
			},
		},
		Stats: {
			Metadata: Metadata{
				DisplayName: "Statistics",
				Category:    "Content",
				Icon:        "📊",
				Description: "Display key metrics and numbers",
				Variants:    variants("stats", "Simple Grid", "Icon Cards"),
			},
			Default: func() Config {
				return &StatsConfig{
					Base:      Base{Layout: "variant-1"},
					ShowIcons: Bool(true),
				}
			},
		},
		CTA: {
			Metadata: Metadata{
				DisplayName: "Call to Action",
				Category:    "Conversion",
				Icon:        "🎬",
				Description: "Prominent call-to-action section",
				Variants:    variants("cta", "Centered CTA", "Split CTA"),
			},
			Default: func() Config {
				return &CTAConfig{
					Base:           Base{Layout: "variant-1"},
					Title:          "Ready to Get Started?",
					Description:    "Join thousands of satisfied customers today",
					ButtonText:     "Start Now",
					Style:          "default",
					ButtonLinkType: LinkTypePage,
				}
			},
		},
		Footer: {
			Metadata: Metadata{
				DisplayName: "Footer",
				Category:    "Navigation",
				Icon:        "📍",
				Description: "Bottom section with company info and links",
			},
			Default: func() Config {
				return &FooterConfig{
					Base:        Base{Layout: "variant-1"},
					CompanyName: "My Company",
					Description: "Building amazing digital experiences",
					ShowLinks:   Bool(true),
				}
			},
		},
	}
}
