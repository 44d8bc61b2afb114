package casestudies

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"capella-backend/internal/cache"
	"capella-backend/internal/httpx"
	"capella-backend/internal/middleware"
	"capella-backend/internal/transport"
	"capella-backend/internal/utils"
	"capella-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

const (
	CodeNotFound    = "case_study_not_found"
	CodeInvalid     = "invalid_case_study"
	CodeInvalidSlug = "invalid_slug"
	CodeSlugExists  = "slug_exists"
	CodePersistence = "persistence_error"
	CodeBadRequest  = "bad_request"
)

type Handler struct {
	service *Service
	schema  Schema
	val     *validation.Validator
	log     *slog.Logger
	cache   responseCache
}

func NewHandler(service *Service, schema Schema, val *validation.Validator, log *slog.Logger, store cache.Cache, ttl time.Duration) *Handler {
	return &Handler{
		service: service,
		schema:  schema,
		val:     val,
		log:     log,
		cache:   responseCache{store: store, ttl: ttl},
	}
}

type listResponse struct {
	Success bool   `json:"success"`
	Data    []View `json:"data"`
	Total   int    `json:"total"`
}

type itemResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	technology := strings.TrimSpace(r.URL.Query().Get("technology"))
	cacheKey, cached, ok := h.cache.get(r.Context(), "list", strings.ToLower(technology))
	if ok {
		log.Info("case studies public list: cache hit")
		transport.WriteRaw(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListPublished(ctx, technology)
	if err != nil {
		h.writeError(w, log, "case studies public list", err)
		return
	}

	log.Info("case studies public list: ok", slog.Int("count", len(items)), slog.String("technology", technology))
	h.writeCached(w, r, cacheKey, listResponse{Success: true, Data: items, Total: len(items)})
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := utils.SanitizeSlug(chi.URLParam(r, "slug"))
	var cacheKey string
	if slug != "" {
		var cached []byte
		var ok bool
		cacheKey, cached, ok = h.cache.get(r.Context(), "slug", slug)
		if ok {
			log.Info("case studies public get: cache hit", slog.String("slug", slug))
			transport.WriteRaw(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetPublishedBySlug(ctx, slug)
	if err != nil {
		h.writeError(w, log, "case studies public get", err)
		return
	}

	log.Info("case studies public get: ok", slog.String("slug", slug))
	h.writeCached(w, r, cacheKey, itemResponse{Success: true, Data: item})
}

func (h *Handler) PublicTechnologies(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	cacheKey, cached, ok := h.cache.get(r.Context(), "technologies")
	if ok {
		log.Info("case studies technologies: cache hit")
		transport.WriteRaw(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	techs, err := h.service.AvailableTechnologies(ctx)
	if err != nil {
		h.writeError(w, log, "case studies technologies", err)
		return
	}

	log.Info("case studies technologies: ok", slog.Int("count", len(techs)))
	h.writeCached(w, r, cacheKey, itemResponse{Success: true, Data: techs})
}

func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, itemResponse{Success: true, Data: h.schema})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin case studies list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return
	}

	filter := AdminListFilter{
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		Technology: strings.TrimSpace(r.URL.Query().Get("technology")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		h.writeError(w, log, "admin case studies list", err)
		return
	}

	log.Info("admin case studies list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    items,
		"limit":   limit,
		"offset":  offset,
		"total":   total,
	})
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("admin case studies get: invalid id")
		transport.WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeError(w, log, "admin case studies get", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, itemResponse{Success: true, Data: item})
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	req, ok := h.decodeUpsert(w, r, log, "admin case studies create")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeError(w, log, "admin case studies create", err)
		return
	}
	h.invalidate(r.Context(), log)

	log.Info("admin case studies create: ok", slog.Int64("case_study_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusCreated, itemResponse{Success: true, Data: item})
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("admin case studies update: invalid id")
		transport.WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid id", nil)
		return
	}

	req, ok := h.decodeUpsert(w, r, log, "admin case studies update")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeError(w, log, "admin case studies update", err)
		return
	}
	h.invalidate(r.Context(), log)

	log.Info("admin case studies update: ok", slog.Int64("case_study_id", id), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusOK, itemResponse{Success: true, Data: item})
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id, err := httpx.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("admin case studies delete: invalid id")
		transport.WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeError(w, log, "admin case studies delete", err)
		return
	}
	h.invalidate(r.Context(), log)

	log.Info("admin case studies delete: ok", slog.Int64("case_study_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "status": "deleted"})
}

func (h *Handler) decodeUpsert(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (UpsertRequest, bool) {
	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn(op + ": invalid json")
		transport.WriteError(w, http.StatusBadRequest, CodeBadRequest, "invalid json", nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn(op + ": validation error")
		transport.WriteError(w, http.StatusBadRequest, CodeInvalid, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return req, false
	}
	return req, true
}

func (h *Handler) writeError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var invalid *InvalidEntityError
	var persistence *PersistenceError
	switch {
	case errors.As(err, &invalid):
		log.Warn(op+": invalid case study", slog.String("reason", invalid.Reason))
		transport.WriteError(w, http.StatusBadRequest, CodeInvalid, invalid.Reason, nil)
	case errors.Is(err, ErrInvalidSlug):
		log.Warn(op + ": invalid slug")
		transport.WriteError(w, http.StatusBadRequest, CodeInvalidSlug, "slug must contain at least one letter or digit", map[string]string{"slug": "invalid"})
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, CodeNotFound, "Case study not found", nil)
	case errors.Is(err, ErrSlugExists):
		log.Warn(op + ": slug exists")
		transport.WriteError(w, http.StatusConflict, CodeSlugExists, "slug already exists", nil)
	case errors.As(err, &persistence):
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, CodePersistence, "database error", nil)
	default:
		log.Error(op+": internal error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

func (h *Handler) writeCached(w http.ResponseWriter, r *http.Request, key string, payload interface{}) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		h.writeError(w, h.logWithRequest(r), "case studies encode", err)
		return
	}
	if err := h.cache.set(r.Context(), key, encoded); err != nil {
		h.logWithRequest(r).Warn("case studies cache: set failed", slog.String("error", err.Error()))
	}
	transport.WriteRaw(w, http.StatusOK, encoded)
}

func (h *Handler) invalidate(ctx context.Context, log *slog.Logger) {
	if err := h.cache.invalidate(ctx); err != nil {
		log.Warn("case studies cache: invalidate failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
