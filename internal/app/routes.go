package app

import (
	"net/http"
	"time"

	"capella-backend/internal/middleware"
	"capella-backend/internal/transport"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *App) buildRouter() chi.Router {
	r := chi.NewRouter()
	if a.Cfg.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(a.Log))
	r.Use(middleware.CORS(a.Cfg.FrontendOrigins))
	r.Use(a.metrics.Middleware)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	loginLimiter := middleware.NewRateLimiter(a.Cfg.RateLimitAdmin, a.Cfg.RateLimitWindow())
	adminAuth := middleware.AdminAuth(a.Cfg.AdminAPIKey, a.jwt)
	cs := a.CaseStudies

	r.Route(a.APIPrefix(), func(api chi.Router) {
		api.Get("/schema", cs.Schema)
		api.Get("/case-studies", cs.PublicList)
		api.Get("/case-studies/technologies", cs.PublicTechnologies)
		api.Get("/case-studies/{slug}", cs.PublicGetBySlug)

		api.Route("/admin", func(admin chi.Router) {
			admin.With(loginLimiter.Middleware).Post("/login", a.AdminAuth.Login)
			admin.Post("/refresh", a.AdminAuth.Refresh)
			admin.Post("/logout", a.AdminAuth.Logout)

			admin.Group(func(protected chi.Router) {
				protected.Use(adminAuth)
				protected.Get("/case-studies", cs.AdminList)
				protected.Post("/case-studies", cs.AdminCreate)
				protected.Get("/case-studies/{id}", cs.AdminGet)
				protected.Put("/case-studies/{id}", cs.AdminUpdate)
				protected.Delete("/case-studies/{id}", cs.AdminDelete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, http.StatusNotFound, "rest_no_route", "no route matches the request", nil)
	})
	return r
}
