package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type Service interface {
	Login(ctx context.Context, email, password, mfaCode string) (auth.LoginResult, error)
	Logout(ctx context.Context, user auth.UserContext) error
	Refresh(ctx context.Context, user auth.UserContext) (auth.LoginResult, error)
	Permissions(ctx context.Context, user auth.UserContext) ([]string, error)
	SetupMFA(ctx context.Context, userID string) (auth.MFASetup, error)
	EnableMFA(ctx context.Context, userID, code string) error
	DisableMFA(ctx context.Context, userID, code string) error
}

type Handler struct {
	Service Service
	Audit   shared.AuditRecorder
}

func NewHandler(service Service, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/logout", h.handleLogout)
			r.Post("/refresh", h.handleRefresh)
			r.Post("/mfa/setup", h.handleMFASetup)
			r.Post("/mfa/enable", h.handleMFAEnable)
			r.Post("/mfa/disable", h.handleMFADisable)
		})
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	if err != nil {
		h.failAuth(w, r, err)
		return
	}
	user := auth.UserContext{UserID: result.UserID, TenantID: result.TenantID}
	shared.Audit(r, h.Audit, user, "auth.login", "user", result.UserID, nil, nil)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Logout(r.Context(), user); err != nil {
		slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
	}
	shared.Audit(r, h.Audit, user, "auth.logout", "user", user.UserID, nil, nil)
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	result, err := h.Service.Refresh(r.Context(), user)
	if err != nil {
		h.failAuth(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type meResponse struct {
	UserID      string   `json:"userId,omitempty"`
	TenantID    string   `json:"tenantId"`
	Role        string   `json:"role,omitempty"`
	AccessKeyID string   `json:"accessKeyId,omitempty"`
	Modules     []string `json:"modules,omitempty"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	perms, err := h.Service.Permissions(r.Context(), user)
	if err != nil {
		shared.Fail(w, r, http.StatusInternalServerError, "permission_error", "failed to load permissions")
		return
	}
	api.Success(w, meResponse{
		UserID:      user.UserID,
		TenantID:    user.TenantID,
		Role:        user.RoleName,
		AccessKeyID: user.AccessKeyID,
		Modules:     user.Modules,
		Permissions: perms,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	setup, err := h.Service.SetupMFA(r.Context(), user.UserID)
	if err != nil {
		h.failAuth(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, user, "auth.mfa.setup", "user", user.UserID, nil, nil)
	api.Success(w, setup, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.confirmMFA(w, r, true)
}

func (h *Handler) handleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.confirmMFA(w, r, false)
}

func (h *Handler) confirmMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	user, _ := middleware.GetUser(r.Context())
	var payload mfaCodeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	action, status := "auth.mfa.enable", "enabled"
	confirm := h.Service.EnableMFA
	if !enable {
		action, status = "auth.mfa.disable", "disabled"
		confirm = h.Service.DisableMFA
	}
	if err := confirm(r.Context(), user.UserID, payload.Code); err != nil {
		h.failAuth(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, user, action, "user", user.UserID, nil, map[string]string{"mfa": status})
	api.Success(w, map[string]string{"status": status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failAuth(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		shared.Fail(w, r, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, auth.ErrMFARequired):
		shared.Fail(w, r, http.StatusUnauthorized, "mfa_required", "mfa code required")
	case errors.Is(err, auth.ErrMFAInvalid):
		shared.Fail(w, r, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code")
	case errors.Is(err, auth.ErrMFAUnavailable):
		shared.Fail(w, r, http.StatusBadRequest, "mfa_unavailable", "mfa requires an encryption key")
	case errors.Is(err, auth.ErrMFANotSetUp):
		shared.Fail(w, r, http.StatusBadRequest, "mfa_not_set_up", "mfa setup required")
	case errors.Is(err, auth.ErrSessionExpired):
		shared.Fail(w, r, http.StatusUnauthorized, "session_expired", "session expired")
	case errors.Is(err, auth.ErrUserNotFound):
		shared.Fail(w, r, http.StatusNotFound, "user_not_found", "user not found")
	default:
		slog.Error("auth request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "token_error", "failed to issue token")
	}
}
