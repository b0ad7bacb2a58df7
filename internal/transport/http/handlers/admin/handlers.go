package adminhandler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/accesskeys"
	"hreval/internal/domain/announcements"
	"hreval/internal/domain/auth"
	"hreval/internal/platform/metrics"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type UserService interface {
	ListUsers(ctx context.Context, tenantID string) ([]auth.User, error)
	CreateUser(ctx context.Context, tenantID, email, password, role string) (auth.User, error)
	ChangeRole(ctx context.Context, tenantID, userID, role string) (auth.User, error)
	SetUserStatus(ctx context.Context, tenantID, userID, status string) (auth.User, error)
	ResetPassword(ctx context.Context, tenantID, userID, password string) error
}

type KeyService interface {
	List(ctx context.Context, tenantID string) ([]accesskeys.Key, error)
	Create(ctx context.Context, tenantID, createdBy, label string, modules []string, expiresAt *time.Time) (accesskeys.Created, error)
	UpdateModules(ctx context.Context, tenantID, keyID string, modules []string) (accesskeys.Key, error)
	Revoke(ctx context.Context, tenantID, keyID string) error
}

type AnnouncementService interface {
	List(ctx context.Context, tenantID string) ([]announcements.Announcement, error)
	Active(ctx context.Context, tenantID string) ([]announcements.Announcement, error)
	Get(ctx context.Context, tenantID, id string) (announcements.Announcement, error)
	Create(ctx context.Context, tenantID string, a announcements.Announcement) (announcements.Announcement, error)
	Update(ctx context.Context, tenantID string, a announcements.Announcement) (announcements.Announcement, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type MetricsSource interface {
	Snapshot() metrics.Snapshot
}

type Handler struct {
	Users         UserService
	Keys          KeyService
	Announcements AnnouncementService
	Metrics       MetricsSource
	Perms         middleware.PermissionStore
	Audit         shared.AuditRecorder
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	users := middleware.RequirePermission(auth.PermUsersManage, h.Perms)
	keys := middleware.RequirePermission(auth.PermAccessKeysManage, h.Perms)
	notices := middleware.RequirePermission(auth.PermAnnouncements, h.Perms)

	r.Route("/admin", func(r chi.Router) {
		r.With(users).Get("/users", h.handleListUsers)
		r.With(users).Post("/users", h.handleCreateUser)
		r.With(users).Put("/users/{userID}/role", h.handleChangeRole)
		r.With(users).Put("/users/{userID}/status", h.handleSetUserStatus)
		r.With(users).Post("/users/{userID}/password", h.handleResetPassword)

		r.With(keys).Get("/modules", h.handleListModules)
		r.With(keys).Get("/access-keys", h.handleListKeys)
		r.With(keys).Post("/access-keys", h.handleCreateKey)
		r.With(keys).Put("/access-keys/{keyID}/modules", h.handleUpdateKeyModules)
		r.With(keys).Delete("/access-keys/{keyID}", h.handleRevokeKey)

		r.With(notices).Get("/announcements", h.handleListAnnouncements)
		r.With(notices).Post("/announcements", h.handleCreateAnnouncement)
		r.With(notices).Get("/announcements/{announcementID}", h.handleGetAnnouncement)
		r.With(notices).Put("/announcements/{announcementID}", h.handleUpdateAnnouncement)
		r.With(notices).Delete("/announcements/{announcementID}", h.handleDeleteAnnouncement)

		if h.Metrics != nil {
			r.With(middleware.RequirePermission(auth.PermMetricsRead, h.Perms)).Get("/metrics", h.handleMetrics)
		}
	})

	r.With(middleware.RequireAuth).Get("/announcements/active", h.handleActiveAnnouncements)
}
