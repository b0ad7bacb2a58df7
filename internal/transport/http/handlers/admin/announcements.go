package adminhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/announcements"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type announcementRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"max=5000"`
	Severity  string `json:"severity" validate:"omitempty,oneof=info warning critical"`
	Published bool   `json:"published"`
	StartsAt  string `json:"startsAt"`
	EndsAt    string `json:"endsAt"`
}

func (p announcementRequest) announcement(v *shared.Validator) announcements.Announcement {
	v.Struct(p)
	a := announcements.Announcement{
		Title:     p.Title,
		Body:      p.Body,
		Severity:  p.Severity,
		Published: p.Published,
	}
	if p.StartsAt != "" {
		starts, err := shared.ParseDate(p.StartsAt)
		if err != nil {
			v.Add("startsAt", "must be a valid date or RFC3339 timestamp")
		}
		a.StartsAt = starts
	}
	ends, err := shared.ParseOptionalTime(p.EndsAt)
	if err != nil {
		v.Add("endsAt", "must be a valid date or RFC3339 timestamp")
	}
	a.EndsAt = ends
	return a
}

func failAnnouncement(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, announcements.ErrNotFound):
		shared.Fail(w, r, http.StatusNotFound, "announcement_not_found", "announcement not found")
	case errors.Is(err, announcements.ErrTitleRequired),
		errors.Is(err, announcements.ErrInvalidSeverity),
		errors.Is(err, announcements.ErrInvalidWindow):
		shared.Fail(w, r, http.StatusBadRequest, "announcement_invalid", err.Error())
	default:
		slog.Error("announcement request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", fallback)
	}
}

func (h *Handler) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	list, err := h.Announcements.List(r.Context(), user.TenantID)
	if err != nil {
		failAnnouncement(w, r, err, "failed to list announcements")
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActiveAnnouncements(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	list, err := h.Announcements.Active(r.Context(), user.TenantID)
	if err != nil {
		failAnnouncement(w, r, err, "failed to list announcements")
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	a, err := h.Announcements.Get(r.Context(), user.TenantID, chi.URLParam(r, "announcementID"))
	if err != nil {
		failAnnouncement(w, r, err, "failed to load announcement")
		return
	}
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload announcementRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	input := payload.announcement(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	input.CreatedBy = user.UserID

	created, err := h.Announcements.Create(r.Context(), user.TenantID, input)
	if err != nil {
		failAnnouncement(w, r, err, "failed to create announcement")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.announcement.create", "announcement", created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "announcementID")
	before, err := h.Announcements.Get(r.Context(), user.TenantID, id)
	if err != nil {
		failAnnouncement(w, r, err, "failed to load announcement")
		return
	}
	var payload announcementRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	input := payload.announcement(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	input.ID = id
	if input.StartsAt.IsZero() {
		input.StartsAt = before.StartsAt
	}

	updated, err := h.Announcements.Update(r.Context(), user.TenantID, input)
	if err != nil {
		failAnnouncement(w, r, err, "failed to update announcement")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.announcement.update", "announcement", id, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "announcementID")
	if err := h.Announcements.Delete(r.Context(), user.TenantID, id); err != nil {
		failAnnouncement(w, r, err, "failed to delete announcement")
		return
	}
	shared.Audit(r, h.Audit, user, "admin.announcement.delete", "announcement", id, nil, nil)
	api.NoContent(w)
}
