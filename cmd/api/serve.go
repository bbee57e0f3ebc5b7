package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/zen-producer/internal/config"
	"github.com/comitanigiacomo/zen-producer/internal/logger"
)

func newServeCmd() *cobra.Command {
	var (
		migrate bool
		port    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the penalty worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if port != "" {
				cfg.ServerPort = port
			}
			return serve(cmd.Context(), cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	cmd.Flags().StringVar(&port, "port", "", "override PORT")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(cfg.IsProduction(), cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync(log) }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, migrate, log)
	if err != nil {
		return err
	}
	defer app.Close()

	app.worker.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.CoachTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("zen producer listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageDriver),
			zap.String("coach", cfg.CoachProvider),
			zap.String("timezone", cfg.Location.String()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("stop signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
