package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/okian/learnmap/internal/adapters/http/api"
	"github.com/okian/learnmap/internal/adapters/http/site"
	"github.com/okian/learnmap/internal/adapters/http/swagger"
	app "github.com/okian/learnmap/internal/app"
	"github.com/okian/learnmap/internal/config"
	"github.com/okian/learnmap/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.String("storage", cfg.Storage), logger.Error(err))
		return err
	}
	svc := app.New(store, app.WithLogger(log))
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error(context.Background(), "closing store failed", logger.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(cfg, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		return err
	}

	log.Info(shutdownCtx, "server stopped")
	return nil
}

// newRouter assembles the gin engine with every route of the service.
func newRouter(cfg *config.Config, svc *app.Service, log logger.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := api.NewEngine(log, cfg.CORSAllowedOrigins)
	site.Register(r)
	swagger.Register(r)
	api.NewServer(api.Dependencies{
		Topics: svc.Topics,
		Skills: svc.Skills,
		Ready:  svc,
	}, log).Register(r)
	return r
}
