// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog serves the sample content that data-driven blocks
// display: services, products, testimonials, stats and the hero
// background. Every website sees the same catalog.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownComponent is returned by Lookup for names without sample data.
var ErrUnknownComponent = errors.New("no data for component")

// Service is one entry of the service grid.
type Service struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Product is one entry of the product list.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// Testimonial is one customer quote.
type Testimonial struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Avatar  string `json:"avatar"`
}

// Stat is one key metric.
type Stat struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// Hero holds the hero background.
type Hero struct {
	BackgroundImage string `json:"backgroundImage"`
}

var services = []Service{
	{ID: "1", Title: "Web Development", Description: "Custom websites tailored to your needs"},
	{ID: "2", Title: "Mobile Apps", Description: "Native and cross-platform applications"},
	{ID: "3", Title: "UI/UX Design", Description: "Beautiful, user-friendly interfaces"},
	{ID: "4", Title: "Digital Marketing", Description: "Grow your online presence"},
	{ID: "5", Title: "SEO Optimization", Description: "Improve your search rankings"},
	{ID: "6", Title: "Consulting", Description: "Expert guidance for your projects"},
}

var products = []Product{
	{ID: "1", Name: "Starter Plan", Description: "Perfect for small businesses", Price: 29.99, Image: "/product-starter.jpg"},
	{ID: "2", Name: "Professional Plan", Description: "For growing companies", Price: 99.99, Image: "/product-professional.jpg"},
	{ID: "3", Name: "Enterprise Plan", Description: "Custom solutions at scale", Price: 299.99, Image: "/product-enterprise.jpg"},
}

var testimonials = []Testimonial{
	{ID: "1", Name: "Sarah Johnson", Role: "CEO, TechCorp", Content: "This platform transformed how we build websites. Highly recommended!", Avatar: "/avatar-woman.png"},
	{ID: "2", Name: "Michael Chen", Role: "Designer, Creative Studios", Content: "Intuitive, powerful, and exactly what we needed for our clients.", Avatar: "/stylized-man-avatar.png"},
	{ID: "3", Name: "Emily Rodriguez", Role: "Freelancer", Content: "I can build professional websites in hours instead of days. Game changer!", Avatar: "/professional-woman-avatar.png"},
}

var stats = []Stat{
	{ID: "1", Label: "Active Users", Value: "10K+", Icon: "users"},
	{ID: "2", Label: "Success Rate", Value: "99%", Icon: "trending"},
	{ID: "3", Label: "Awards Won", Value: "50+", Icon: "award"},
	{ID: "4", Label: "Performance", Value: "10x", Icon: "zap"},
}

var hero = Hero{BackgroundImage: "/abstract-background.png"}

// Services returns up to limit services. A limit of zero or less means all.
func Services(limit int) []Service { return head(services, limit) }

// Products returns up to limit products.
func Products(limit int) []Product { return head(products, limit) }

// Testimonials returns up to limit testimonials.
func Testimonials(limit int) []Testimonial { return head(testimonials, limit) }

// Stats returns every stat.
func Stats() []Stat { return head(stats, 0) }

// HeroData returns the hero background.
func HeroData() Hero { return hero }

var byName = map[string]func() any{
	"hero":         func() any { return HeroData() },
	"services":     func() any { return Services(0) },
	"products":     func() any { return Products(0) },
	"testimonials": func() any { return Testimonials(0) },
	"stats":        func() any { return Stats() },
}

// Lookup returns the sample data published under name ("services",
// "products", "testimonials", "stats" or "hero").
func Lookup(name string) (any, error) {
	fn, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return fn(), nil
}

// Names lists the names Lookup accepts, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// head returns a copy of the first limit items, or all of them.
func head[T any](items []T, limit int) []T {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	out := make([]T, limit)
	copy(out, items[:limit])
	return out
}
