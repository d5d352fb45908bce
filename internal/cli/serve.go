package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/chemlab/internal/config"
	"github.com/JonMunkholm/chemlab/internal/core"
	"github.com/JonMunkholm/chemlab/internal/logging"
	"github.com/JonMunkholm/chemlab/internal/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP server. Configuration comes from the environment
(and a .env file if present); see internal/config for every variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.seedFile != "" {
		cfg.Seed.File = opts.seedFile
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	seed, err := core.LoadSeedFile(cfg.Seed.File)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	service, err := core.NewService(seed, cfg.Upload.ServiceConfig())
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	dirs, files := service.Stats()
	slog.Info("workspace ready", "directories", dirs, "files", files, "seed", cfg.Seed.File)

	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := service.UploadLimiterStatus(); status.Active > 0 {
		slog.Info("waiting for uploads to complete", "active", status.Active)
		if err := service.WaitForUploads(shutdownCtx); err != nil {
			slog.Warn("uploads did not complete in time", "error", err)
		} else {
			slog.Info("all uploads completed")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
