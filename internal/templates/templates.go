// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package templates provides the canned layouts a new page can start from.
// Every call builds a fresh layout with freshly generated block ids, so two
// pages created from the same template never share ids.
package templates

import (
	"errors"
	"fmt"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/ident"
	"sitebuilder/internal/layout"
)

// ErrUnknownTemplate is returned by ByName for names outside the library.
var ErrUnknownTemplate = errors.New("unknown template")

// Template names.
const (
	NameLanding  = "landing"
	NameAbout    = "about"
	NameServices = "services"
)

// Info describes a template for listings.
type Info struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"displayName"`
	Blocks      []blocks.BlockType `json:"blocks"`
}

type template struct {
	displayName string
	build       func() layout.Layout
}

var library = map[string]template{
	NameLanding:  {displayName: "Landing Page", build: Landing},
	NameAbout:    {displayName: "About Page", build: About},
	NameServices: {displayName: "Services Page", build: Services},
}

// order is the listing order of the library.
var order = []string{NameLanding, NameAbout, NameServices}

// Landing returns HERO, SERVICE_GRID, TESTIMONIALS, CTA.
func Landing() layout.Layout {
	hero := newBlock(blocks.Hero).(*blocks.HeroConfig)
	hero.Title = "Welcome to Our Platform"
	hero.Subtitle = "Build amazing websites without code"
	hero.ShowButton = blocks.Bool(true)
	hero.ButtonText = "Get Started"

	services := newBlock(blocks.ServiceGrid).(*blocks.ServiceGridConfig)
	services.Limit = blocks.Int(6)
	services.Columns = blocks.Int(3)

	testimonials := newBlock(blocks.Testimonials).(*blocks.TestimonialsConfig)
	testimonials.Limit = blocks.Int(3)
	testimonials.Autoplay = blocks.Bool(false)

	cta := newBlock(blocks.CTA).(*blocks.CTAConfig)
	cta.Title = "Ready to Get Started?"
	cta.Description = "Join thousands of satisfied customers today"
	cta.ButtonText = "Start Free Trial"
	cta.Style = "default"

	return assemble(hero, services, testimonials, cta)
}

// About returns HERO, TEXT_SECTION, STATS.
func About() layout.Layout {
	hero := newBlock(blocks.Hero).(*blocks.HeroConfig)
	hero.Title = "About Us"
	hero.Subtitle = "Learn more about our story and mission"
	hero.ShowButton = blocks.Bool(false)

	text := newBlock(blocks.TextSection).(*blocks.TextSectionConfig)
	text.Heading = "Our Story"
	text.Content = "We started with a simple mission: to make web development accessible to everyone. " +
		"Today, we're proud to serve thousands of customers worldwide."
	text.Alignment = "center"

	stats := newBlock(blocks.Stats).(*blocks.StatsConfig)
	stats.ShowIcons = blocks.Bool(true)

	return assemble(hero, text, stats)
}

// Services returns HERO, SERVICE_GRID.
func Services() layout.Layout {
	hero := newBlock(blocks.Hero).(*blocks.HeroConfig)
	hero.Title = "Our Services"
	hero.Subtitle = "Comprehensive solutions for your business"
	hero.ShowButton = blocks.Bool(true)
	hero.ButtonText = "Contact Us"

	grid := newBlock(blocks.ServiceGrid).(*blocks.ServiceGridConfig)
	grid.Limit = blocks.Int(9)
	grid.Columns = blocks.Int(3)

	return assemble(hero, grid)
}

// ByName builds the named template.
func ByName(name string) (layout.Layout, error) {
	tpl, ok := library[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return tpl.build(), nil
}

// Names returns the template names in listing order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// List describes every template in listing order.
func List() []Info {
	out := make([]Info, 0, len(order))
	for _, name := range order {
		tpl := library[name]
		l := tpl.build()
		types := make([]blocks.BlockType, len(l))
		for i, b := range l {
			types[i] = b.Type
		}
		out = append(out, Info{Name: name, DisplayName: tpl.displayName, Blocks: types})
	}
	return out
}

// newBlock returns the registry default config for t with a fresh id.
// The stock registry covers every type, so a failure is a programming error.
func newBlock(t blocks.BlockType) blocks.Config {
	b, err := blocks.NewBlock(t, ident.New())
	if err != nil {
		panic(fmt.Sprintf("templates: %v", err))
	}
	return b.Config
}

func assemble(cfgs ...blocks.Config) layout.Layout {
	l := make(layout.Layout, len(cfgs))
	for i, cfg := range cfgs {
		l[i] = blocks.Block{Type: cfg.Kind(), Config: cfg}
	}
	return l
}
