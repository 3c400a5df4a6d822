// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/vladelaina/Catime/internal/api"
	"github.com/vladelaina/Catime/internal/fontcache"
	"github.com/vladelaina/Catime/internal/fontservice"
	"github.com/vladelaina/Catime/internal/fontstore"
	"github.com/vladelaina/Catime/internal/mcpserver"
	"github.com/vladelaina/Catime/internal/models"
	"github.com/vladelaina/Catime/internal/settings"
	"github.com/vladelaina/Catime/internal/sse"
	"github.com/vladelaina/Catime/internal/storage"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("fonts_root", cfg.Fonts.Root),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure the fonts root exists.
	if err := os.MkdirAll(cfg.Fonts.Root, 0o755); err != nil {
		return fmt.Errorf("create fonts dir: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc, cache, store, cleanup, err := buildService(cfg, logger, broker)
	if err != nil {
		return err
	}
	defer cleanup()

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, store.Root())

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Refresh worker: serializes scans and coalesces requests.
	g.Go(func() error {
		return cache.Run(gCtx)
	})

	// Filesystem watcher: font changes queue refreshes.
	g.Go(func() error {
		return fontcache.Watch(gCtx, cache, store.Root(), store.Extensions(), logger)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the font tools over stdio for MCP clients. Logs go to
// stderr so stdout stays a clean protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	svc, cache, _, cleanup, err := buildService(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cache.Run(gCtx)
	})
	g.Go(func() error {
		return mcpserver.New(svc).ServeStdio()
	})
	return g.Wait()
}

// buildService wires storage, persistence, settings, cache, and facade.
// The returned cleanup closes the snapshot store.
func buildService(cfg *Config, logger *slog.Logger, broker *sse.Broker) (*fontservice.Service, *fontcache.Cache, *storage.FS, func(), error) {
	store, err := storage.NewFS(cfg.Fonts.Root, cfg.Fonts.Limits(), logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}

	snapshots, err := fontstore.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init snapshot store: %w", err)
	}

	userState, err := settings.New(cfg.Fonts.StateFile, logger)
	if err != nil {
		snapshots.Close()
		return nil, nil, nil, nil, fmt.Errorf("init settings: %w", err)
	}

	cacheOpts := fontcache.Options{
		TTL:       cfg.Fonts.TTL(),
		Persister: snapshots,
	}
	if broker != nil {
		cacheOpts.OnSnapshot = func(records []models.FontRecord) {
			broker.PublishFontsRefreshed(len(records))
		}
	}
	cache := fontcache.New(store, logger, cacheOpts)

	// A persisted snapshot gives the first menu build a warm, stale start.
	if records, generatedAt, loadErr := snapshots.LoadSnapshot(); loadErr != nil {
		logger.Warn("loading persisted snapshot failed", slog.String("error", loadErr.Error()))
	} else if records != nil {
		cache.Seed(records, generatedAt)
		logger.Info("seeded snapshot from store",
			slog.Int("fonts", len(records)),
			slog.String("generated_at", generatedAt.Format(time.RFC3339)))
	}

	var bundled fs.FS
	if cfg.Fonts.BundledDir != "" {
		bundled = os.DirFS(cfg.Fonts.BundledDir)
	}

	svcOpts := fontservice.Options{
		Selections: snapshots,
		Extractor:  store,
		Bundled:    bundled,
	}
	if broker != nil {
		svcOpts.Events = broker
	}
	svc := fontservice.NewService(cache, userState, cfg.Fonts.MarkerPrefix, logger, svcOpts)

	return svc, cache, store, func() { snapshots.Close() }, nil
}
