package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capella-backend/internal/app"
	"capella-backend/internal/config"
)

func main() {
	envFile := flag.String("env-file", ".env", "optional env file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := run(*envFile, logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(envFile string, logger *slog.Logger) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	cacheStore, closeCache, err := app.OpenCache(ctx, cfg, logger)
	if err != nil {
		_ = closeStore(context.Background())
		return err
	}

	a, err := app.New(cfg, logger, app.Deps{Store: store, Cache: cacheStore})
	if err != nil {
		_ = closeCache(context.Background())
		_ = closeStore(context.Background())
		return err
	}
	a.Hooks.Register(app.StageShutdown, "redis", closeCache)
	a.Hooks.Register(app.StageShutdown, "mongo", closeStore)
	if cfg.AdminAPIKey == "" && cfg.JWTSecret == "" {
		a.Hooks.Register(app.StageActivate, "admin_auth_warning", func(ctx context.Context) error {
			logger.Warn("admin auth not configured: admin routes will answer 503")
			return nil
		})
	}

	if err := a.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("api", a.APIPrefix()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
	case err := <-serverErr:
		if err != nil {
			_ = a.Shutdown(context.Background())
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	if err := a.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown hooks failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
	return nil
}
