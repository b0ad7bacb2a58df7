package directoryhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/directory"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type Handler struct {
	Directory directory.Directory
	Perms     middleware.PermissionStore
	Audit     shared.AuditRecorder
}

func NewHandler(dir directory.Directory, perms middleware.PermissionStore, audit shared.AuditRecorder) *Handler {
	return &Handler{Directory: dir, Perms: perms, Audit: audit}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)
	write := middleware.RequirePermission(auth.PermDirectoryWrite, h.Perms)

	r.Route("/directory", func(r chi.Router) {
		r.With(read).Get("/status", h.handleStatus)
		r.With(read).Get("/users", h.handleListUsers)
		r.With(read).Get("/users/{uid}", h.handleGetUser)
		r.With(read).Get("/users/{uid}/exists", h.handleUserExists)
		r.With(write).Post("/users", h.handleCreateUser)
		r.With(write).Put("/users/{uid}", h.handleUpdateUser)
		r.With(write).Delete("/users/{uid}", h.handleDeleteUser)
		r.With(write).Put("/users/{uid}/password", h.handleSetPassword)
	})
}

type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

func fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, directory.ErrUserNotFound):
		shared.Fail(w, r, http.StatusNotFound, "directory_user_not_found", "directory user not found")
	case errors.Is(err, directory.ErrUserExists):
		shared.Fail(w, r, http.StatusConflict, "directory_user_exists", "directory user already exists")
	case errors.Is(err, directory.ErrInvalidUID),
		errors.Is(err, directory.ErrInvalidUser),
		errors.Is(err, directory.ErrWeakPassword):
		shared.Fail(w, r, http.StatusBadRequest, "directory_invalid", err.Error())
	case errors.Is(err, directory.ErrUnavailable):
		shared.Fail(w, r, http.StatusServiceUnavailable, "directory_unavailable", "directory is not configured")
	default:
		slog.Error("directory request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusServiceUnavailable, "directory_unavailable", fallback)
	}
}

// handleStatus never fails: an unreachable server is reported as unavailable.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	available := true
	if err := h.Directory.Ping(r.Context()); err != nil {
		if !errors.Is(err, directory.ErrUnavailable) {
			slog.Warn("directory ping failed", "err", err)
		}
		available = false
	}
	api.Success(w, map[string]bool{"available": available}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Directory.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		fail(w, r, err, "failed to list directory users")
		return
	}
	if entries == nil {
		entries = []directory.Entry{}
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Directory.GetUser(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		fail(w, r, err, "failed to load directory user")
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUserExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.Directory.UserExists(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		fail(w, r, err, "failed to check directory user")
		return
	}
	api.Success(w, map[string]bool{"exists": exists}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload directory.NewUser
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if payload.UID != "" && !directory.ValidUID(payload.UID) {
		v.Add("uid", directory.ErrInvalidUID.Error())
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	entry, err := h.Directory.CreateUser(r.Context(), payload)
	if err != nil {
		fail(w, r, err, "failed to create directory user")
		return
	}
	shared.Audit(r, h.Audit, user, "directory.user.create", "directory_user", entry.UID, nil, entry)
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	uid := chi.URLParam(r, "uid")
	var changes directory.UserChanges
	if !shared.DecodeJSON(w, r, &changes) {
		return
	}

	before, err := h.Directory.GetUser(r.Context(), uid)
	if err != nil {
		fail(w, r, err, "failed to load directory user")
		return
	}
	entry, err := h.Directory.UpdateUser(r.Context(), uid, changes)
	if err != nil {
		fail(w, r, err, "failed to update directory user")
		return
	}
	shared.Audit(r, h.Audit, user, "directory.user.update", "directory_user", uid, before, entry)
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	uid := chi.URLParam(r, "uid")
	if err := h.Directory.DeleteUser(r.Context(), uid); err != nil {
		fail(w, r, err, "failed to delete directory user")
		return
	}
	shared.Audit(r, h.Audit, user, "directory.user.delete", "directory_user", uid, nil, nil)
	api.NoContent(w)
}

func (h *Handler) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	uid := chi.URLParam(r, "uid")
	var payload passwordRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	if err := h.Directory.SetPassword(r.Context(), uid, payload.Password); err != nil {
		fail(w, r, err, "failed to change directory password")
		return
	}
	shared.Audit(r, h.Audit, user, "directory.user.password", "directory_user", uid, nil, nil)
	api.Success(w, map[string]string{"status": "password_changed"}, middleware.GetRequestID(r.Context()))
}
