// Package main is the entry point for the Solarsite API server.
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

	"solarsite/internal/auth"
	"solarsite/internal/cache"
	"solarsite/internal/config"
	"solarsite/internal/database"
	"solarsite/internal/handlers"
	"solarsite/internal/identity"
	"solarsite/internal/metrics"
	"solarsite/internal/middleware"
	"solarsite/internal/router"
	"solarsite/internal/storage"
	"solarsite/internal/store"
	"solarsite/internal/taxonomy"
)

func main() {
	// Structured logger — outputs text for development readability.
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

	// The taxonomy table is static configuration; a bad edit should stop
	// the server before it can admit unclassifiable products.
	if err := taxonomy.Validate(); err != nil {
		slog.Error("invalid taxonomy table", "error", err)
		os.Exit(1)
	}

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

	// Connect to Valkey (catalog cache + rate limiter state).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Connect to S3-compatible object storage (optional — the API works
	// without it, with uploads and attachments disabled).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("s3 storage not configured — uploads disabled")
	}

	// Identity-provider admin API (optional — without it, admin grants
	// must happen in the provider's own console).
	var provider identity.Provider
	if p := identity.NewHTTP(cfg.IdentityEndpoint, cfg.IdentityAPIKey); p != nil {
		provider = p
		slog.Info("identity provider connected", "endpoint", cfg.IdentityEndpoint)
	} else {
		slog.Warn("identity provider not configured — /create-admin disabled")
	}

	// Initialize data stores.
	productStore := store.NewProductStore(db)
	blogStore := store.NewBlogStore(db)
	leadStore := store.NewLeadStore(db)

	// Catalog responses are cached in Valkey; every admin write clears
	// the whole catalog keyspace.
	catalogCache := cache.NewCatalogCache(valkeyClient, cache.DefaultCatalogTTL)

	// One shared budget for the abuse-prone endpoints: lead forms and
	// blog engagement counters.
	limiter := middleware.NewRateLimiter(valkeyClient, 10, time.Minute, "public")

	verifier := auth.NewVerifier(cfg.AuthSecret, cfg.AuthIssuer)
	collector := metrics.NewCollector()

	// Create handler groups with their dependencies.
	catalogHandlers := handlers.NewCatalog(productStore, catalogCache)
	blogHandlers := handlers.NewBlog(blogStore)
	leadHandlers := handlers.NewLeads(leadStore, storageClient)
	adminHandlers := handlers.NewAdmin(provider, storageClient)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Catalog:  catalogHandlers,
		Blog:     blogHandlers,
		Leads:    leadHandlers,
		Admin:    adminHandlers,
		Verifier: verifier,
		Limiter:  limiter,
		Metrics:  collector,
		CORS:     cfg.CORSOrigin,
	})

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// attachment uploads streaming through to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
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
