// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"sitebuilder/internal/sites"
)

// listCommand creates the "list" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List websites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			list, err := svc.ListWebsites(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				printInfo(out, "No websites")
				return nil
			}
			for _, w := range list {
				printSuccess(out, "%s", w.Name)
				printKeyValue(out, "id", w.ID)
				printKeyValue(out, "revision", strconv.FormatInt(w.Revision, 10))
				for _, p := range w.Pages {
					printDetail(out, "%s  %s  %s (%d blocks)", p.ID, p.Path, p.Name, len(p.Layout))
				}
			}
			return nil
		},
	}
}

// createSiteCommand creates the "create-site" command.
func (c *CLI) createSiteCommand() *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "create-site <name>",
		Short: "Create a website with a landing home page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			w, err := svc.CreateWebsite(ctx, sites.NewWebsite{Name: args[0], Domain: domain})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Created %q", w.Name)
			printKeyValue(out, "id", w.ID)
			printKeyValue(out, "home page", w.Pages[0].ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "website domain")
	return cmd
}

// seedCommand creates the "seed" command.
func (c *CLI) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo website when the store is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			w, err := sites.Seed(ctx, svc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if w == nil {
				printInfo(out, "Store already holds websites, nothing seeded")
				return nil
			}
			printSuccess(out, "Seeded %q with %d pages", w.Name, len(w.Pages))
			printKeyValue(out, "id", w.ID)
			return nil
		},
	}
}
