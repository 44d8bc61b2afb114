package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"capella-backend/internal/adminauth"
	"capella-backend/internal/auth"
	"capella-backend/internal/cache"
	"capella-backend/internal/casestudies"
	"capella-backend/internal/config"
	"capella-backend/internal/middleware"
	"capella-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Deps are the external collaborators the application is built on.
type Deps struct {
	Store    casestudies.RecordStore
	Cache    cache.Cache
	Registry *prometheus.Registry
}

// App is the composition root. It is built once at startup and passed
// explicitly to whatever needs it.
type App struct {
	Cfg      *config.Config
	Log      *slog.Logger
	Hooks    *Hooks
	Registry *prometheus.Registry

	Schema      casestudies.Schema
	Store       casestudies.RecordStore
	Cache       cache.Cache
	Repository  *casestudies.StoreRepository
	Service     *casestudies.Service
	CaseStudies *casestudies.Handler
	AdminAuth   *adminauth.Handler

	jwt     *auth.Manager
	metrics *middleware.Metrics
	router  chi.Router
}

func New(cfg *config.Config, log *slog.Logger, deps Deps) (*App, error) {
	if deps.Store == nil {
		return nil, errors.New("app: record store is required")
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNoop()
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
		deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	a := &App{
		Cfg:      cfg,
		Log:      log,
		Hooks:    NewHooks(),
		Registry: deps.Registry,
		Store:    deps.Store,
		Cache:    deps.Cache,
		metrics:  middleware.NewMetrics(deps.Registry),
	}

	if cfg.JWTSecret != "" {
		a.jwt = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  cfg.AccessTTL(),
			RefreshTTL: cfg.RefreshTTL(),
			Issuer:     "capella-backend",
		}
	}

	val := validation.New()
	a.Repository = casestudies.NewRepository(deps.Store, cfg.Timezone)
	a.Service = casestudies.NewService(a.Repository, casestudies.Formatter{
		SiteURL:       cfg.SiteURL,
		PermalinkBase: cfg.PermalinkBase,
		Location:      cfg.Timezone,
	})

	adminAuth, err := adminauth.NewHandler(adminauth.Options{
		User:         cfg.AdminUser,
		Password:     cfg.AdminPassword,
		Manager:      a.jwt,
		CookieSecure: cfg.CookieSecure,
		RefreshPath:  a.AdminPrefix(),
	}, val, log)
	if err != nil {
		return nil, fmt.Errorf("app: admin auth: %w", err)
	}
	a.AdminAuth = adminAuth

	a.Hooks.Register(StageRegisterSchema, "case_study", func(ctx context.Context) error {
		a.Schema = casestudies.NewSchema(cfg.PermalinkBase)
		a.CaseStudies = casestudies.NewHandler(a.Service, a.Schema, val, log, a.Cache, cfg.CacheTTL())
		log.Info("schema registered", slog.String("type", a.Schema.Type), slog.Int("version", a.Schema.Version))
		return nil
	})
	a.Hooks.Register(StageRegisterRoutes, "case_study_api", func(ctx context.Context) error {
		if a.CaseStudies == nil {
			return errors.New("case study schema not registered")
		}
		a.router = a.buildRouter()
		return nil
	})

	return a, nil
}

// APIPrefix is the mount point of the REST namespace, e.g. /api/informatico/v1.
func (a *App) APIPrefix() string {
	return "/api/" + a.Cfg.APINamespace
}

func (a *App) AdminPrefix() string {
	return a.APIPrefix() + "/admin"
}

// Start runs the registration and activation stages.
func (a *App) Start(ctx context.Context) error {
	for _, stage := range []Stage{StageRegisterSchema, StageRegisterRoutes, StageActivate} {
		if err := a.Hooks.Run(ctx, stage); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the HTTP handler; valid after Start.
func (a *App) Handler() http.Handler {
	if a.router == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "service starting", http.StatusServiceUnavailable)
		})
	}
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return a.Hooks.RunAll(ctx, StageShutdown)
}
