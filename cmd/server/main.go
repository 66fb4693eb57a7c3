package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/igdevx/image-service/pkg/imageasset/api"
	"github.com/igdevx/image-service/pkg/imageasset/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		logger.Error("failed to load server configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := serverConfig.BuildService(ctx, logger)
	if err != nil {
		logger.Error("failed to build service", "err", err)
		os.Exit(1)
	}

	handler := api.NewImagesHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Mount("/", handler.Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	go func() {
		logger.Info("image service starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"storage", serverConfig.StorageBackend)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}
