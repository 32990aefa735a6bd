// Package main is the entry point for the site builder server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitebuilder/internal/cache"
	"sitebuilder/internal/config"
	"sitebuilder/internal/editor"
	"sitebuilder/internal/handlers"
	"sitebuilder/internal/middleware"
	"sitebuilder/internal/render"
	"sitebuilder/internal/router"
	"sitebuilder/internal/session"
	"sitebuilder/internal/sites"
	"sitebuilder/internal/storage"
	"sitebuilder/internal/store"
)

// API writes allowed per client and minute.
const writeLimit = 120

func main() {
	config.LoadDotEnv()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
		"uniqueness", cfg.BlockUniqueness,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the website store and run pending migrations.
	backend, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open website store", "error", err)
		os.Exit(1)
	}
	defer backend.Close(context.Background())

	// Connect to Valkey for editor sessions and the published page cache.
	// Development runs without it; production requires it.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		if !cfg.IsDev() {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		slog.Warn("valkey unavailable, using in-process sessions and no page cache", "error", err)
	} else {
		defer valkeyClient.Close()
	}

	var sessions editor.SessionStore = editor.NewMemorySessions()
	var pageCache *cache.PageCache
	if valkeyClient != nil {
		sessions = session.NewStore(valkeyClient, cfg.SessionTTL)
		pageCache = cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
		// Pages cached by a previous build may use other templates.
		pageCache.InvalidateAll(ctx)
	}

	// Initialize the page renderer and its in-process memo.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize page renderer", "error", err)
		os.Exit(1)
	}
	memo := render.NewMemo(0)

	// Connect to S3-compatible object storage (optional, the app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var assets handlers.AssetStore
	if storageClient != nil {
		assets = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, asset uploads disabled")
	}

	// Every accepted write drops the website's rendered pages.
	invalidators := sites.Invalidators{memo}
	var publicCache handlers.PageCache
	if pageCache != nil {
		invalidators = append(invalidators, pageCache)
		publicCache = pageCache
	}

	svc := sites.New(backend.Websites,
		sites.WithUniqueness(cfg.BlockUniqueness),
		sites.WithInvalidator(invalidators),
	)
	manager := editor.NewManager(svc, sessions)

	// Seed development data (no-op if websites already exist).
	if cfg.IsDev() {
		if _, err := sites.Seed(ctx, svc); err != nil {
			slog.Error("failed to seed website store", "error", err)
			os.Exit(1)
		}
	}

	// Create handler groups with their dependencies.
	apiHandlers := handlers.NewAPI(svc, assets, cfg.PublicBaseURL)
	editorHandlers := handlers.NewEditor(manager)
	publicHandlers := handlers.NewPublic(svc, renderer, memo, publicCache, manager)

	limiter := middleware.NewRateLimiter(ctx, writeLimit, time.Minute)

	// Set up the Chi router with all middleware and routes.
	r := router.New(apiHandlers, editorHandlers, publicHandlers, limiter)

	// Create the HTTP server with sensible timeouts. Uploads may take a while.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
