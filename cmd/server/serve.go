package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Brownie44l1/brainiac/internal/config"
	"github.com/Brownie44l1/brainiac/internal/handlers"
	"github.com/Brownie44l1/brainiac/internal/model"
	"github.com/Brownie44l1/brainiac/internal/preprocess"
	"github.com/Brownie44l1/brainiac/internal/telemetry"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Loads the classifier once and serves the upload page.

Endpoints:
  GET  /               upload page
  POST /scan           classify an uploaded image and render the result
  POST /predict/image  classify an uploaded image, JSON response
  POST /predict        classify a pre-normalized tensor, JSON response
  GET  /health         health check`,
		Example: `  # Start on the configured PORT (default 8080)
  brainiac serve

  # Upload test
  curl -X POST -F "image=@scan.jpg" http://localhost:8080/predict/image`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (overrides PORT)")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logs.GetLoggerFromString(cfg.LogLevel)
	slog.SetDefault(log)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("Tracing shutdown failed", "err", err)
		}
	}()

	log.Info("Loading model", "path", cfg.ModelPath)
	modelServer, err := model.Open(model.OpenOptions{
		ModelPath:     cfg.ModelPath,
		MetadataPath:  cfg.MetadataPath,
		SharedLibPath: cfg.OnnxRuntimeLib,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize model server: %w", err)
	}
	defer modelServer.Close()
	log.Info("Model loaded", "classes", modelServer.Metadata.Classes)

	handler, err := handlers.NewHandler(log, modelServer,
		preprocess.NewTransform(modelServer.Metadata.ImageSize), int64(cfg.MaxUploadBytes))
	if err != nil {
		return err
	}

	return run(ctx, log, cfg, handler.Routes())
}

// run serves handler until ctx is cancelled or the listener fails.
func run(ctx context.Context, log *slog.Logger, cfg config.Config, handler http.Handler) error {
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Brainiac interface available", "addr", cfg.Addr(), "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "err", err)
			return err
		}
		log.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
