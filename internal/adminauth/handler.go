package adminauth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"capella-backend/internal/auth"
	"capella-backend/internal/httpx"
	"capella-backend/internal/middleware"
	"capella-backend/internal/transport"
	"capella-backend/internal/validation"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type Options struct {
	User string
	// Password is either a plain password or a bcrypt hash.
	Password     string
	Manager      *auth.Manager
	CookieSecure bool
	// RefreshPath scopes the refresh cookie, usually the admin route prefix.
	RefreshPath string
}

type Handler struct {
	user         string
	passwordHash string
	manager      *auth.Manager
	secure       bool
	refreshPath  string
	val          *validation.Validator
	log          *slog.Logger
}

func NewHandler(opts Options, val *validation.Validator, log *slog.Logger) (*Handler, error) {
	h := &Handler{
		user:        opts.User,
		manager:     opts.Manager,
		secure:      opts.CookieSecure,
		refreshPath: opts.RefreshPath,
		val:         val,
		log:         log,
	}
	if h.refreshPath == "" {
		h.refreshPath = "/"
	}
	if opts.Password != "" {
		hash, err := auth.PasswordHash(opts.Password)
		if err != nil {
			return nil, err
		}
		h.passwordHash = hash
	}
	return h, nil
}

func (h *Handler) configured() bool {
	return h.passwordHash != "" && h.manager != nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "bad_request", "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation_error", "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if !h.configured() {
		log.Warn("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin_auth_unavailable", "admin auth not configured", nil)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.user)) == 1
	if err := auth.ComparePassword(h.passwordHash, req.Password); err != nil || !userOK {
		log.Warn("admin login: invalid credentials", slog.String("username", req.Username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil)
		return
	}

	if err := h.issue(w); err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token_error", "token error", nil)
		return
	}
	log.Info("admin login: ok", slog.String("username", req.Username))
	transport.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	if h.manager == nil {
		log.Warn("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin_auth_unavailable", "admin auth not configured", nil)
		return
	}

	cookie, err := r.Cookie(auth.RefreshCookie)
	if err != nil || cookie.Value == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing refresh token", nil)
		return
	}

	claims, err := h.manager.Parse(cookie.Value)
	if err != nil || claims.Role != auth.RoleAdmin || claims.Kind != auth.KindRefresh {
		log.Warn("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token", nil)
		return
	}

	if err := h.issue(w); err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token_error", "token error", nil)
		return
	}
	log.Info("admin refresh: ok")
	transport.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookies(w)
	h.logWithRequest(r).Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (h *Handler) issue(w http.ResponseWriter) error {
	access, err := h.manager.NewAccessToken(auth.RoleAdmin)
	if err != nil {
		return err
	}
	refresh, err := h.manager.NewRefreshToken(auth.RoleAdmin)
	if err != nil {
		return err
	}

	http.SetCookie(w, h.cookie(auth.AccessCookie, access, "/", int(h.manager.AccessTTL.Seconds())))
	http.SetCookie(w, h.cookie(auth.RefreshCookie, refresh, h.refreshPath, int(h.manager.RefreshTTL.Seconds())))
	return nil
}

func (h *Handler) clearCookies(w http.ResponseWriter) {
	expire := time.Now().Add(-1 * time.Hour)
	for _, c := range []*http.Cookie{
		h.cookie(auth.AccessCookie, "", "/", -1),
		h.cookie(auth.RefreshCookie, "", h.refreshPath, -1),
	} {
		c.Expires = expire
		http.SetCookie(w, c)
	}
}

func (h *Handler) cookie(name, value, path string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
