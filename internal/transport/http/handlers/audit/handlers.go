package audithandler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/audit"
	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, tenantID string, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, int, error)
	Export(ctx context.Context, tenantID string, filter audit.Filter, w io.Writer) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAuditRead, h.Perms))
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

// parseFilter reads the shared query filters. from and to accept a date or
// an RFC3339 timestamp.
func parseFilter(r *http.Request, v *shared.Validator) audit.Filter {
	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		ActorUser:  q.Get("actorUserId"),
	}
	from, err := shared.ParseOptionalTime(q.Get("from"))
	if err != nil {
		v.Add("from", "must be a valid date or RFC3339 timestamp")
	}
	to, err := shared.ParseOptionalTime(q.Get("to"))
	if err != nil {
		v.Add("to", "must be a valid date or RFC3339 timestamp")
	}
	if from != nil && to != nil {
		v.DateOrder("from", *from, "to", *to)
	}
	filter.From, filter.To = from, to
	return filter
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	page := shared.ParsePagination(r, v, 100, 500)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	includeDetails := r.URL.Query().Get("includeDetails") == "true"

	events, total, err := h.Service.List(r.Context(), user.TenantID, filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		slog.Error("audit list failed", "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", "failed to list audit events")
		return
	}
	api.SuccessPage(w, events, total, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), user.TenantID, filter, &buf); err != nil {
		slog.Error("audit export failed", "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "export_failed", "failed to export audit events")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("audit export write failed", "err", err)
	}
}
