// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitebuilder/internal/layout"
)

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file holds a valid layout document",
		Long:  `Validate parses a layout document ("-" reads stdin) and reports its blocks and page links without touching the store.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return fmt.Errorf("read layout: %w", err)
			}
			l, err := layout.Deserialize(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Valid layout with %d blocks", len(l))
			for _, b := range l {
				printDetail(out, "%-14s %s", b.Type, b.ID())
			}
			if refs := layout.References(l); len(refs) > 0 {
				printInfo(out, "%d page links", len(refs))
			}
			return nil
		},
	}
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <website-id> <page-id>",
		Short: "Write a page layout as a JSON document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			page, err := svc.GetPage(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			data, err := layout.Serialize(page.Layout)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write layout: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Exported %d blocks of %q", len(page.Layout), page.Name)
			printDetail(cmd.OutOrStdout(), "%s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// importCommand creates the "import" command.
func (c *CLI) importCommand() *cobra.Command {
	var revision int64

	cmd := &cobra.Command{
		Use:   "import <website-id> <page-id> <file>",
		Short: "Replace a page layout with a JSON document",
		Long:  `Import validates a layout document ("-" reads stdin) and replaces the page's layout with it. With --revision the write only succeeds when the website is still at that revision.`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(c.Logger)

			data, err := readInput(cmd, args[2])
			if err != nil {
				return fmt.Errorf("read layout: %w", err)
			}
			l, err := layout.Deserialize(data)
			if err != nil {
				return err
			}

			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			if revision > 0 {
				_, err = svc.UpdatePageLayoutIfMatch(ctx, args[0], args[1], l, revision)
			} else {
				_, err = svc.UpdatePageLayout(ctx, args[0], args[1], l)
			}
			if err != nil {
				return err
			}

			prog.done("imported layout")
			printSuccess(cmd.OutOrStdout(), "Imported %d blocks", len(l))
			return nil
		},
	}

	cmd.Flags().Int64Var(&revision, "revision", 0, "expected website revision")
	return cmd
}

// danglingCommand creates the "dangling" command.
func (c *CLI) danglingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dangling <website-id>",
		Short: "List page links that point at deleted pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return err
			}
			site, err := svc.GetWebsite(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ids := site.PageIDs()
			found := 0
			for _, p := range site.Pages {
				for _, ref := range layout.DanglingReferences(p.Layout, ids) {
					printWarning(out, "%s: %s block %s links to missing page %s", p.Name, ref.BlockType, ref.BlockID, ref.PageID)
					found++
				}
			}
			if found == 0 {
				printSuccess(out, "No dangling page links")
			}
			return nil
		},
	}
}
