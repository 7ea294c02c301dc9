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

	"github.com/starford/balestra/internal/api"
	"github.com/starford/balestra/internal/armory"
	"github.com/starford/balestra/internal/fixture"
	"github.com/starford/balestra/internal/mcpserver"
	"github.com/starford/balestra/internal/service"
	"github.com/starford/balestra/internal/sse"
	"github.com/starford/balestra/internal/storage"
	"github.com/starford/balestra/internal/store"
)

// runtime holds the components shared by every command.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	db     *store.DB
	files  *storage.FS
	svc    *service.Service
	// seedSum is the checksum of the imported seed file, empty when none was
	// loaded.
	seedSum string
}

func (rt *runtime) Close() error {
	return rt.db.Close()
}

func setup(ctx context.Context, opts []Option) (*runtime, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		// Initialize structured JSON logger.
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("seed", cfg.Data.Seed),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize data directory.
	files, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("init data dir: %w", err)
	}

	// Initialize SQLite store.
	db, err := store.Open(ctx, cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if cfg.SQLite.InMemory() {
		logger.Warn("Using in-memory database, data is lost on exit")
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		db:     db,
		files:  files,
		svc:    service.New(db, armory.DefaultCatalog()),
	}

	// Import seed data into an empty store.
	if cfg.Data.Seed != "" {
		empty, err := rt.isEmpty(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("inspect store: %w", err)
		}
		if !empty && !cfg.Data.Watch {
			logger.Info("Store has data, seed skipped", slog.String("path", cfg.Data.Seed))
			return rt, nil
		}
		sum, err := fixture.Load(ctx, files, cfg.Data.Seed, rt.svc)
		switch {
		case err == nil:
			rt.seedSum = sum
			logger.Info("Seed data imported", slog.String("path", cfg.Data.Seed))
		case errors.Is(err, fs.ErrNotExist):
			logger.Info("No seed file, starting empty", slog.String("path", cfg.Data.Seed))
		default:
			db.Close()
			return nil, fmt.Errorf("import seed: %w", err)
		}
	}

	return rt, nil
}

func (rt *runtime) isEmpty(ctx context.Context) (bool, error) {
	snap, err := rt.svc.Export(ctx)
	if err != nil {
		return false, err
	}
	return snap.Profile == nil && len(snap.Equipment) == 0 && len(snap.Bouts) == 0, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, logger := rt.cfg, rt.logger

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()
	rt.svc.OnChange(broker.PublishChange)

	// Build API router.
	apiRouter := api.NewRouter(rt.svc, fixture.NewLibrary(rt.files), broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.db.Ping(req.Context()); err != nil {
			logger.Error("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start seed watcher.
	if cfg.Data.Watch {
		g.Go(func() error {
			// Import already announces data.reloaded through the broker.
			if err := fixture.Watch(gCtx, rt.files, cfg.Data.Seed, rt.seedSum, rt.svc, logger, nil); err != nil {
				logger.Error("seed watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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
		defer signal.Stop(quit)

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

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server has been asked to stop, so
// the seed watcher exits too.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools over stdin/stdout until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.logger.Info("Serving MCP over stdio")
	return mcpserver.New(rt.svc).ServeStdio()
}

// Export writes a YAML snapshot of all stored data to out, a path inside the
// data directory.
func Export(ctx context.Context, out string, opts ...Option) error {
	rt, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	snap, err := rt.svc.Export(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := fixture.Save(rt.files, out, snap); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	rt.logger.Info("Snapshot exported",
		slog.String("path", out),
		slog.Int("equipment", len(snap.Equipment)),
		slog.Int("bouts", len(snap.Bouts)))
	return nil
}
