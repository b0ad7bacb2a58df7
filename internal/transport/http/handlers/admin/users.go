package adminhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active disabled"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

func failUser(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		shared.Fail(w, r, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, auth.ErrUserExists):
		shared.Fail(w, r, http.StatusConflict, "user_exists", "user already exists")
	case errors.Is(err, auth.ErrUnknownRole):
		shared.Fail(w, r, http.StatusBadRequest, "unknown_role", "unknown role")
	case errors.Is(err, auth.ErrWeakPassword):
		shared.Fail(w, r, http.StatusBadRequest, "weak_password", err.Error())
	case errors.Is(err, auth.ErrInvalidStatus):
		shared.Fail(w, r, http.StatusBadRequest, "user_invalid_status", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "email", Reason: "must be a valid email address"}})
	default:
		slog.Error("user admin request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", fallback)
	}
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	users, err := h.Users.ListUsers(r.Context(), user.TenantID)
	if err != nil {
		failUser(w, r, err, "failed to list users")
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload createUserRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Users.CreateUser(r.Context(), user.TenantID, payload.Email, payload.Password, payload.Role)
	if err != nil {
		failUser(w, r, err, "failed to create user")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.user.create", "user", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload roleRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	userID := chi.URLParam(r, "userID")
	if userID == user.UserID {
		shared.Fail(w, r, http.StatusConflict, "conflict", "cannot change your own role")
		return
	}

	updated, err := h.Users.ChangeRole(r.Context(), user.TenantID, userID, payload.Role)
	if err != nil {
		failUser(w, r, err, "failed to change role")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.user.role", "user", userID, nil, map[string]string{"role": updated.RoleName})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetUserStatus(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload statusRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	userID := chi.URLParam(r, "userID")
	if userID == user.UserID && payload.Status == auth.UserStatusDisabled {
		shared.Fail(w, r, http.StatusConflict, "conflict", "cannot disable yourself")
		return
	}

	updated, err := h.Users.SetUserStatus(r.Context(), user.TenantID, userID, payload.Status)
	if err != nil {
		failUser(w, r, err, "failed to update user status")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.user.status", "user", userID, nil, map[string]string{"status": updated.Status})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload passwordRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := h.Users.ResetPassword(r.Context(), user.TenantID, userID, payload.Password); err != nil {
		failUser(w, r, err, "failed to reset password")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.user.password", "user", userID, nil, nil)
	api.Success(w, map[string]string{"status": "password_reset"}, middleware.GetRequestID(r.Context()))
}
