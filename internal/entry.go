// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/docbotd/docbot/internal/api"
	"github.com/docbotd/docbot/internal/docs"
	"github.com/docbotd/docbot/internal/docservice"
	"github.com/docbotd/docbot/internal/events"
	"github.com/docbotd/docbot/internal/fanout"
	"github.com/docbotd/docbot/internal/mcpserver"
	"github.com/docbotd/docbot/internal/models"
	"github.com/docbotd/docbot/internal/paginate"
	"github.com/docbotd/docbot/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	mcpStdio := cfg.App.MCP.Stdio || app.mcpStdio

	// Initialize structured JSON logger. When serving MCP over stdio,
	// stdout carries the protocol, so logs go to stderr.
	logOut := os.Stdout
	if mcpStdio {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("docs_path", cfg.Docs.Path),
		slog.Int("docsets", len(cfg.Docsets)),
		slog.Bool("http_enabled", cfg.App.HTTP.Enabled),
		slog.Bool("mcp_stdio", mcpStdio),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage.
	store, err := storage.NewFS(cfg.Docs.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// Build the fan-out coordinator with configured overrides.
	timeout := cfg.Search.AdapterTimeout
	if timeout <= 0 {
		timeout = fanout.DefaultTimeout
	}
	cacheSize := cfg.Search.CacheSize
	if cacheSize <= 0 {
		cacheSize = fanout.DefaultCacheSize
	}
	cacheTTL := cfg.Search.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = fanout.DefaultCacheTTL
	}
	coord := fanout.New(logger, timeout, cacheSize, cacheTTL)

	tokenBudget := cfg.Search.TokenBudget
	if tokenBudget <= 0 {
		tokenBudget = paginate.DefaultTokenBudget
	}

	svc := docservice.NewService(coord, tokenBudget, logger)
	defer svc.Close()

	// SSE broker.
	broker := events.NewBroker()
	defer broker.Close()

	// Attach reference corpora. A broken docset must not take the
	// whole application down.
	for _, dc := range cfg.Docsets {
		adapter, err := svc.AttachDocset(dc.Path, dc.Language)
		if err != nil {
			logger.Warn("docset attach failed",
				slog.String("path", dc.Path),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("docset attached",
			slog.String("id", adapter.ID()),
			slog.String("language", dc.Language))
		broker.PublishDocsetAttached(adapter.ID())
	}

	// Initial document load.
	documents, err := docs.Load(store, logger)
	if err != nil {
		logger.Warn("initial document load failed", slog.String("error", err.Error()))
	}
	svc.SetDocuments(documents)
	logger.Info("documents loaded", slog.Int("count", len(documents)))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the docs tree and reload on changes.
	if cfg.Docs.Watch {
		g.Go(func() error {
			return docs.Watch(gCtx, store, cfg.Docs.Path, logger, func(loaded []models.Document) {
				svc.SetDocuments(loaded)
				broker.PublishReload(len(loaded))
			})
		})
	}

	var httpServer *http.Server
	if cfg.App.HTTP.Enabled {
		apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

		httpServer = &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	// MCP stdio transport. ServeStdio returns when stdin closes or the
	// context is cancelled.
	if mcpStdio {
		mcpSrv := mcpserver.New(svc)
		g.Go(func() error {
			logger.Info("Starting MCP stdio server")
			if err := mcpSrv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		})
	}

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

		logger.Info("Shutting down...")

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped successfully")
	return nil
}
