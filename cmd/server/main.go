package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/exporter-bookmarks/internal/config"
	"github.com/JonMunkholm/exporter-bookmarks/internal/core"
	"github.com/JonMunkholm/exporter-bookmarks/internal/logging"
	"github.com/JonMunkholm/exporter-bookmarks/internal/store"
	"github.com/JonMunkholm/exporter-bookmarks/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"rules_file", cfg.Bookmarks.RulesFile,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	opts, err := core.OptionsFromConfig(cfg)
	if err != nil {
		slog.Error("failed to load bookmark rules", "error", err)
		os.Exit(1)
	}

	service, err := core.NewService(opts)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}
	slog.Info("exporter rules loaded",
		"exporters", service.Exporters(),
		"url_rules", service.Rules().Len(),
		"deduplicate", opts.Deduplicate,
	)

	downloads, err := store.New(cfg.Bookmarks.TempDir)
	if err != nil {
		slog.Error("failed to create download store", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, downloads, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		downloads.StartJanitor(gctx, cfg.Bookmarks.SweepInterval, cfg.Bookmarks.DownloadTTL)
		return nil
	})

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for conversions to complete", "active", status.Active)
			if err := service.WaitForConversions(shutdownCtx); err != nil {
				slog.Warn("conversions did not complete in time", "error", err)
			} else {
				slog.Info("all conversions completed")
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
