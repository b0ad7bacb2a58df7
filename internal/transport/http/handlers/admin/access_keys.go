package adminhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/accesskeys"
	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type createKeyRequest struct {
	Label     string   `json:"label" validate:"required,max=100"`
	Modules   []string `json:"modules" validate:"required,min=1"`
	ExpiresAt string   `json:"expiresAt"`
}

type keyModulesRequest struct {
	Modules []string `json:"modules" validate:"required,min=1"`
}

func failKey(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, accesskeys.ErrKeyNotFound):
		shared.Fail(w, r, http.StatusNotFound, "access_key_not_found", "access key not found")
	case errors.Is(err, accesskeys.ErrInvalidModules):
		shared.Fail(w, r, http.StatusBadRequest, "module_invalid", err.Error())
	case errors.Is(err, accesskeys.ErrLabelRequired):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "label", Reason: "is required"}})
	case errors.Is(err, accesskeys.ErrExpiryInPast):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "expiresAt", Reason: "must be in the future"}})
	default:
		slog.Error("access key request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", fallback)
	}
}

func (h *Handler) handleListModules(w http.ResponseWriter, r *http.Request) {
	api.Success(w, auth.Modules, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListKeys(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	keys, err := h.Keys.List(r.Context(), user.TenantID)
	if err != nil {
		failKey(w, r, err, "failed to list access keys")
		return
	}
	api.Success(w, keys, middleware.GetRequestID(r.Context()))
}

// handleCreateKey returns the plaintext key. It is never shown again.
func (h *Handler) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload createKeyRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	expiresAt, err := shared.ParseOptionalTime(payload.ExpiresAt)
	if err != nil {
		v.Add("expiresAt", "must be a valid date or RFC3339 timestamp")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Keys.Create(r.Context(), user.TenantID, user.UserID, payload.Label, payload.Modules, expiresAt)
	if err != nil {
		failKey(w, r, err, "failed to create access key")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.access_key.create", "access_key", created.Key.ID, nil, created.Key)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateKeyModules(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload keyModulesRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	keyID := chi.URLParam(r, "keyID")
	key, err := h.Keys.UpdateModules(r.Context(), user.TenantID, keyID, payload.Modules)
	if err != nil {
		failKey(w, r, err, "failed to update access key")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.access_key.modules", "access_key", keyID, nil, map[string]any{"modules": key.Modules})
	api.Success(w, key, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRevokeKey(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	keyID := chi.URLParam(r, "keyID")
	if err := h.Keys.Revoke(r.Context(), user.TenantID, keyID); err != nil {
		failKey(w, r, err, "failed to revoke access key")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.access_key.revoke", "access_key", keyID, nil, nil)
	api.NoContent(w)
}
