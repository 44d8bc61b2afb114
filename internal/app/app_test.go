package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"capella-backend/internal/auth"
	"capella-backend/internal/casestudies"
	"capella-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AdminAPIKey:        "admin-key",
		AdminUser:          "admin",
		AdminPassword:      "s3cret",
		JWTSecret:          "jwt-secret",
		AccessTTLMinutes:   15,
		RefreshTTLMinutes:  60,
		CacheTTLSeconds:    60,
		FrontendOrigins:    []string{"http://localhost:3000"},
		RateLimitAdmin:     10,
		RateLimitWindowSec: 60,
		SiteURL:            "https://informaticocapella.com",
		PermalinkBase:      "portafolio",
		APINamespace:       "informatico/v1",
		Timezone:           time.UTC,
	}
}

func startApp(t *testing.T) *App {
	t.Helper()
	a, err := New(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{Store: casestudies.NewMemoryStore()})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{})
	assert.Error(t, err)
}

func TestHandlerBeforeStart(t *testing.T) {
	a, err := New(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{Store: casestudies.NewMemoryStore()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, serve(a, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
}

func TestStartRunsActivationHooks(t *testing.T) {
	a, err := New(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{Store: casestudies.NewMemoryStore()})
	require.NoError(t, err)

	var stages []string
	a.Hooks.Register(StageActivate, "probe", func(ctx context.Context) error {
		stages = append(stages, "activate")
		assert.NotNil(t, a.CaseStudies)
		return nil
	})
	a.Hooks.Register(StageShutdown, "probe", func(ctx context.Context) error {
		stages = append(stages, "shutdown")
		return nil
	})

	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.Shutdown(context.Background()))
	assert.Equal(t, []string{"activate", "shutdown"}, stages)
	assert.Equal(t, casestudies.RecordType, a.Schema.Type)
}

func TestHealthAndMetrics(t *testing.T) {
	a := startApp(t)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	serve(a, httptest.NewRequest(http.MethodGet, "/api/informatico/v1/case-studies", nil))
	rec = serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/informatico/v1/case-studies")
}

func TestPublicRoutes(t *testing.T) {
	a := startApp(t)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/informatico/v1/case-studies", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[],"total":0}`, rec.Body.String())

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/informatico/v1/case-studies/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "case_study_not_found")

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/informatico/v1/schema", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	a := startApp(t)

	rec := serve(a, httptest.NewRequest(http.MethodGet, "/api/informatico/v1/admin/case-studies", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body, err := json.Marshal(map[string]interface{}{
		"title":        "Migración a AWS para Startup",
		"client":       "Acme",
		"technologies": []string{"AWS"},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/informatico/v1/admin/case-studies", bytes.NewReader(body))
	req.Header.Set("X-Admin-Key", "admin-key")
	rec = serve(a, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(a, httptest.NewRequest(http.MethodGet, "/api/informatico/v1/case-studies/migracion-a-aws-para-startup", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLoginCookieGrantsAccess(t *testing.T) {
	a := startApp(t)

	rec := serve(a, httptest.NewRequest(http.MethodPost, "/api/informatico/v1/admin/login",
		strings.NewReader(`{"username":"admin","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var access *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AccessCookie {
			access = c
		}
	}
	require.NotNil(t, access)

	req := httptest.NewRequest(http.MethodGet, "/api/informatico/v1/admin/case-studies", nil)
	req.AddCookie(access)
	rec = serve(a, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShutdownRunsEveryHook(t *testing.T) {
	a := startApp(t)
	closed := false
	a.Hooks.Register(StageShutdown, "redis", func(ctx context.Context) error {
		return assert.AnError
	})
	a.Hooks.Register(StageShutdown, "mongo", func(ctx context.Context) error {
		closed = true
		return nil
	})

	assert.ErrorIs(t, a.Shutdown(context.Background()), assert.AnError)
	assert.True(t, closed)
}

func TestLoginLimitIgnoresForwardedForWithoutTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitAdmin = 2
	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{Store: casestudies.NewMemoryStore()})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))

	codes := []int{}
	for _, forwarded := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/informatico/v1/admin/login",
			strings.NewReader(`{"username":"admin","password":"wrong"}`))
		req.Header.Set("X-Forwarded-For", forwarded)
		codes = append(codes, serve(a, req).Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}
