// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/layout"
	"sitebuilder/internal/models"
	"sitebuilder/internal/templates"
)

// SeedWebsiteName is the name of the demo website created by Seed.
const SeedWebsiteName = "Acme Studio"

// Seed populates an empty store with a demo website for development: a
// landing home page framed by a navbar and footer, plus About and Services
// pages linked from the navigation. It does nothing when any website exists.
func Seed(ctx context.Context, s *Service) (*models.Website, error) {
	existing, err := s.ListWebsites(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed check websites: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("store already seeded, skipping")
		return nil, nil
	}

	w, err := s.CreateWebsite(ctx, NewWebsite{Name: SeedWebsiteName, Domain: "acme.localhost"})
	if err != nil {
		return nil, fmt.Errorf("seed website: %w", err)
	}
	home := w.Pages[0]

	about, err := s.CreatePage(ctx, w.ID, NewPage{Name: "About", Template: templates.NameAbout})
	if err != nil {
		return nil, fmt.Errorf("seed about page: %w", err)
	}
	services, err := s.CreatePage(ctx, w.ID, NewPage{Name: "Services", Template: templates.NameServices})
	if err != nil {
		return nil, fmt.Errorf("seed services page: %w", err)
	}

	links, err := json.Marshal([]blocks.Link{
		{Label: "Home", PageID: home.ID},
		{Label: "About", PageID: about.ID},
		{Label: "Services", PageID: services.ID},
	})
	if err != nil {
		return nil, fmt.Errorf("seed links: %w", err)
	}

	for _, pageID := range []string{home.ID, about.ID, services.ID} {
		nav, err := s.AddBlock(ctx, w.ID, pageID, blocks.Navbar)
		if err != nil {
			return nil, fmt.Errorf("seed navbar: %w", err)
		}
		footer, err := s.AddBlock(ctx, w.ID, pageID, blocks.Footer)
		if err != nil {
			return nil, fmt.Errorf("seed footer: %w", err)
		}

		page, err := s.GetPage(ctx, w.ID, pageID)
		if err != nil {
			return nil, err
		}
		l, err := layout.UpdateConfig(page.Layout, nav.ID(), layout.Patch{
			"brandName": json.RawMessage(`"Acme Studio"`),
			"links":     links,
		})
		if err != nil {
			return nil, fmt.Errorf("seed navbar links: %w", err)
		}
		l, err = layout.UpdateConfig(l, footer.ID(), layout.Patch{
			"companyName": json.RawMessage(`"Acme Studio"`),
			"links":       links,
		})
		if err != nil {
			return nil, fmt.Errorf("seed footer links: %w", err)
		}
		if _, err := s.UpdatePageLayout(ctx, w.ID, pageID, l); err != nil {
			return nil, fmt.Errorf("seed layout: %w", err)
		}
	}

	w, err = s.GetWebsite(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	slog.Info("store seeded with demo website", "website_id", w.ID, "pages", len(w.Pages))
	return w, nil
}
