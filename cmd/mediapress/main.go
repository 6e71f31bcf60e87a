// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the mediapress API server.
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

	"mediapress/internal/cache"
	"mediapress/internal/categories"
	"mediapress/internal/config"
	"mediapress/internal/database"
	"mediapress/internal/files"
	"mediapress/internal/handlers"
	"mediapress/internal/lifecycle"
	"mediapress/internal/router"
	"mediapress/internal/storage"
	"mediapress/internal/store"
	"mediapress/internal/tags"
	"mediapress/internal/viewer"
)

func main() {
	// Structured logger — text output works for both journald and docker logs.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (response cache + viewer tokens).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Connect to S3-compatible object storage (optional — app works without it).
	var storageClient *storage.Client
	if cfg.S3Configured() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured — uploads keep metadata only")
	}

	// Initialize data stores.
	publicationStore := store.NewPublicationStore(db)
	categoryStore := store.NewCategoryStore(db)
	tagStore := store.NewTagStore(db)
	fileStore := store.NewFileStore(db)
	folderStore := store.NewFolderStore(db)
	engagementStore := store.NewEngagementStore(db)

	// Domain services.
	tagResolver := tags.NewResolver(tagStore)
	manager := lifecycle.NewManager(publicationStore, fileStore, categoryStore, tagResolver)
	categoryService := categories.NewService(categoryStore)
	fileService := files.NewService(fileStore, folderStore, storageClient)

	// Valkey-backed helpers.
	responseCache := cache.NewPublicationCache(valkeyClient, cache.DefaultPublicationTTL)
	viewerStore := viewer.NewStore(valkeyClient)

	// Create handler groups with their dependencies.
	publicationHandlers := handlers.NewPublications(manager, publicationStore, responseCache)
	categoryHandlers := handlers.NewCategories(categoryService, responseCache)
	tagHandlers := handlers.NewTags(tagStore, tagResolver)
	mediaHandlers := handlers.NewMedia(fileService)
	engagementHandlers := handlers.NewEngagement(engagementStore, publicationStore, viewerStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(publicationHandlers, categoryHandlers, tagHandlers, mediaHandlers, engagementHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate large media uploads to S3.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
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
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
