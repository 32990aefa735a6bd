// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sitebuilder/internal/blocks"
	"sitebuilder/internal/templates"
)

// templatesCommand creates the "templates" command.
func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the page templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printTitle(out, "Templates")
			for _, info := range templates.List() {
				names := make([]string, len(info.Blocks))
				for i, t := range info.Blocks {
					names[i] = t.String()
				}
				printKeyValue(out, info.Name, fmt.Sprintf("%s (%s)", info.DisplayName, strings.Join(names, ", ")))
			}
			return nil
		},
	}
}

// componentsCommand creates the "components" command.
func (c *CLI) componentsCommand() *cobra.Command {
	var websiteID, pageID string

	cmd := &cobra.Command{
		Use:   "components",
		Short: "List the component palette",
		Long:  `Components lists every block type. With --website and --page it also marks the types already on that page and whether another one may be added.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (websiteID == "") != (pageID == "") {
				return fmt.Errorf("--website and --page must be given together")
			}

			var palette []blocks.PaletteEntry
			if websiteID == "" {
				palette = blocks.Palette(nil, blocks.UniqueAll)
			} else {
				ctx := cmd.Context()
				svc, err := c.service(ctx)
				if err != nil {
					return err
				}
				page, err := svc.GetPage(ctx, websiteID, pageID)
				if err != nil {
					return err
				}
				palette = svc.Registry().Palette(page.Layout, svc.Uniqueness())
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Components")
			for _, e := range palette {
				state := e.Metadata.Category
				switch {
				case !e.Available:
					state += ", on page"
				case e.Present:
					state += ", on page, may repeat"
				}
				printKeyValue(out, e.Type.String(), fmt.Sprintf("%s [%s]", e.Metadata.DisplayName, state))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&websiteID, "website", "", "website id")
	cmd.Flags().StringVar(&pageID, "page", "", "page id")
	return cmd
}
