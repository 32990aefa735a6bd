// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"html/template"
	"time"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/catalog"
	"sitebuilder/internal/markdown"
)

const placeholderTemplate = "placeholder.html"

// LinkView is a resolved navigation link.
type LinkView struct {
	Label string
	URL   string
}

// ButtonView is a resolved call-to-action button. An inert button is shown
// without a link.
type ButtonView struct {
	Text  string
	URL   string
	Inert bool
}

type navbarView struct {
	Variant   string
	BrandName string
	Logo      string
	Links     []LinkView
}

type heroView struct {
	Variant    string
	Title      string
	Subtitle   string
	Image      string
	Background string
	ShowButton bool
	Button     ButtonView
}

type textSectionView struct {
	Variant   string
	Heading   string
	Content   template.HTML
	Alignment string
}

type serviceGridView struct {
	Variant  string
	Columns  int
	Services []catalog.Service
}

type productListView struct {
	Variant   string
	ShowPrice bool
	Products  []catalog.Product
}

type testimonialsView struct {
	Variant  string
	Autoplay bool
	Items    []catalog.Testimonial
}

type contactFormView struct {
	Variant     string
	Title       string
	Description string
	SubmitText  string
	ImageURL    string
}

type statsView struct {
	Variant   string
	ShowIcons bool
	Stats     []catalog.Stat
}

type ctaView struct {
	Variant     string
	Title       string
	Description string
	Accent      bool
	Button      ButtonView
}

type footerView struct {
	Variant     string
	CompanyName string
	Description string
	Links       []LinkView
	Year        int
}

type placeholderView struct {
	Type string
}

// buildView maps a block to its template name and view model. Every member
// of the enumeration has a case; anything else gets the placeholder.
func buildView(b blocks.Block, links *linker, now time.Time) (string, any) {
	variant := "variant-1"
	if b.Config != nil && b.Config.Variant() != "" {
		variant = b.Config.Variant()
	}

	switch c := b.Config.(type) {
	case *blocks.NavbarConfig:
		return "navbar.html", navbarView{
			Variant:   variant,
			BrandName: or(c.BrandName, "Brand"),
			Logo:      c.Logo,
			Links:     links.navigation(c.Links),
		}

	case *blocks.HeroConfig:
		href, inert := links.button(c.ButtonLink, c.ButtonLinkType)
		return "hero.html", heroView{
			Variant:    variant,
			Title:      c.Title,
			Subtitle:   c.Subtitle,
			Image:      c.Image,
			Background: catalog.HeroData().BackgroundImage,
			ShowButton: deref(c.ShowButton, false),
			Button:     ButtonView{Text: or(c.ButtonText, "Get Started"), URL: href, Inert: inert},
		}

	case *blocks.TextSectionConfig:
		return "text_section.html", textSectionView{
			Variant:   variant,
			Heading:   c.Heading,
			Content:   markdown.Render(c.Content),
			Alignment: alignment(c.Alignment),
		}

	case *blocks.ServiceGridConfig:
		return "service_grid.html", serviceGridView{
			Variant:  variant,
			Columns:  columns(derefInt(c.Columns, 3)),
			Services: catalog.Services(derefInt(c.Limit, 6)),
		}

	case *blocks.ProductListConfig:
		return "product_list.html", productListView{
			Variant:   variant,
			ShowPrice: deref(c.ShowPrice, true),
			Products:  catalog.Products(derefInt(c.Limit, 6)),
		}

	case *blocks.TestimonialsConfig:
		return "testimonials.html", testimonialsView{
			Variant:  variant,
			Autoplay: deref(c.Autoplay, false),
			Items:    catalog.Testimonials(derefInt(c.Limit, 3)),
		}

	case *blocks.ContactFormConfig:
		return "contact_form.html", contactFormView{
			Variant:     variant,
			Title:       or(c.Title, "Contact Us"),
			Description: or(c.Description, "We would love to hear from you"),
			SubmitText:  or(c.SubmitText, "Send Message"),
			ImageURL:    c.ImageURL,
		}

	case *blocks.StatsConfig:
		return "stats.html", statsView{
			Variant:   variant,
			ShowIcons: deref(c.ShowIcons, true),
			Stats:     catalog.Stats(),
		}

	case *blocks.CTAConfig:
		href, inert := links.button(c.ButtonLink, c.ButtonLinkType)
		return "cta.html", ctaView{
			Variant:     variant,
			Title:       c.Title,
			Description: c.Description,
			Accent:      c.Style == "accent",
			Button:      ButtonView{Text: c.ButtonText, URL: href, Inert: inert},
		}

	case *blocks.FooterConfig:
		v := footerView{
			Variant:     variant,
			CompanyName: c.CompanyName,
			Description: c.Description,
			Year:        now.Year(),
		}
		if deref(c.ShowLinks, false) {
			v.Links = links.navigation(c.Links)
		}
		return "footer.html", v
	}

	return placeholderTemplate, placeholderView{Type: string(b.Type)}
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func deref(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func derefInt(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func alignment(a string) string {
	switch a {
	case "center", "right":
		return a
	}
	return "left"
}

func columns(n int) int {
	if n < 2 || n > 4 {
		return 3
	}
	return n
}
