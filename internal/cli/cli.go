// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cli implements the sitectl command-line interface.
//
// sitectl works on the same website store as the server. It validates,
// imports and exports page layouts, lists the template library and the
// component palette, and creates or seeds websites.
//
// # Storage
//
// By default the store is opened from the environment (STORE_DRIVER and
// friends, with .env support). --memory uses a fresh in-memory store, which
// is only useful for commands that do not need existing data.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"sitebuilder/internal/config"
	"sitebuilder/internal/sites"
	"sitebuilder/internal/store"
)

// appName is the application name used for display.
const appName = "sitectl"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	memory  bool
	svc     *sites.Service
	backend *store.Backend
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// NewWithService creates a CLI bound to an already opened service.
func NewWithService(w io.Writer, level log.Level, svc *sites.Service) *CLI {
	c := New(w, level)
	c.svc = svc
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "sitectl manages websites of the site builder",
		Long:         `sitectl validates, imports and exports page layouts and manages the websites of the site builder from the command line.`,
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVar(&c.memory, "memory", false, "use a fresh in-memory store")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.danglingCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.componentsCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.createSiteCommand())
	root.AddCommand(c.seedCommand())

	return root
}

// service opens the website service on first use.
func (c *CLI) service(ctx context.Context) (*sites.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	if c.memory {
		c.Logger.Debug("using in-memory store")
		c.svc = sites.New(store.NewMemoryStore())
		return c.svc, nil
	}

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.Logger.Debug("store opened", "driver", backend.Driver)
	c.backend = backend
	c.svc = sites.New(backend.Websites, sites.WithUniqueness(cfg.BlockUniqueness))
	return c.svc, nil
}

// Close releases the store opened by service, if any.
func (c *CLI) Close(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}
	err := c.backend.Close(ctx)
	c.backend = nil
	return err
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
