package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"capella-backend/internal/app"
	"capella-backend/internal/cache"
	"capella-backend/internal/casestudies"
	"capella-backend/internal/config"

	"github.com/spf13/cobra"
)

// env is the state shared by every subcommand once the root pre-run has
// connected to the record store.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	store   casestudies.RecordStore
	service *casestudies.Service
	// responses is the API server's response cache, invalidated after writes.
	responses cache.Cache
	close   func(context.Context) error
}

func rootCmd() *cobra.Command {
	var (
		envFile  string
		logLevel string
		e        env
	)

	cmd := &cobra.Command{
		Use:           "capellactl",
		Short:         "Case study administration",
		Long:          `capellactl seeds, migrates and inspects the case study record store used by the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(cmd.Context(), envFile, logLevel)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.close == nil {
				return nil
			}
			return e.close(context.Background())
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional env file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmd.AddCommand(seedCmd(&e), migrateCmd(&e), technologiesCmd(&e))
	return cmd
}

func (e *env) open(ctx context.Context, envFile, logLevel string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	e.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	e.cfg = cfg

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, closeStore, err := app.OpenStore(connectCtx, cfg, e.log)
	if err != nil {
		return err
	}
	responses, closeCache, err := app.OpenCache(connectCtx, cfg, e.log)
	if err != nil {
		_ = closeStore(context.Background())
		return err
	}
	e.attach(store, func(ctx context.Context) error {
		return errors.Join(closeCache(ctx), closeStore(ctx))
	})
	e.responses = responses
	return nil
}

func (e *env) attach(store casestudies.RecordStore, closeStore func(context.Context) error) {
	e.store = store
	e.close = closeStore
	e.responses = cache.NewNoop()
	loc := time.UTC
	formatter := casestudies.Formatter{Location: loc}
	if e.cfg != nil {
		loc = e.cfg.Timezone
		formatter = casestudies.Formatter{SiteURL: e.cfg.SiteURL, PermalinkBase: e.cfg.PermalinkBase, Location: loc}
	}
	e.service = casestudies.NewService(casestudies.NewRepository(store, loc), formatter)
}
