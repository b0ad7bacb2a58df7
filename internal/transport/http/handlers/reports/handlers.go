package reportshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/evaluation"
	"hreval/internal/domain/reports"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type Service interface {
	PeriodSummary(ctx context.Context, tenantID, periodID, evaluatorID string) (reports.PeriodSummary, error)
	JobRuns(ctx context.Context, tenantID string, filter reports.JobRunFilter, limit, offset int) ([]reports.JobRun, int, error)
}

// Actors resolves the evaluation role of a signed-in user.
type Actors interface {
	ActorFor(ctx context.Context, tenantID, userID string, isHR bool) (evaluation.Actor, error)
}

type Handler struct {
	Service Service
	Actors  Actors
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, actors Actors, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Actors: actors, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEvaluationRead, h.Perms)).Get("/periods/{periodID}/summary", h.handlePeriodSummary)
		r.With(middleware.RequirePermission(auth.PermMetricsRead, h.Perms)).Get("/job-runs", h.handleJobRuns)
	})
}

// handlePeriodSummary scopes evaluators to their own reports. HR and access
// keys see the whole period.
func (h *Handler) handlePeriodSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	evaluatorID := ""
	if !user.IsAccessKey() {
		actor, err := h.Actors.ActorFor(r.Context(), user.TenantID, user.UserID, auth.IsHRRole(user.RoleName))
		if err != nil {
			slog.Error("report actor lookup failed", "err", err)
			shared.Fail(w, r, http.StatusInternalServerError, "request_failed", "failed to resolve caller")
			return
		}
		if !actor.IsHR {
			if actor.EmployeeID == "" {
				shared.Fail(w, r, http.StatusForbidden, "forbidden", "not allowed")
				return
			}
			evaluatorID = actor.EmployeeID
		}
	}

	summary, err := h.Service.PeriodSummary(r.Context(), user.TenantID, chi.URLParam(r, "periodID"), evaluatorID)
	switch {
	case errors.Is(err, reports.ErrPeriodNotFound):
		shared.Fail(w, r, http.StatusNotFound, "period_not_found", "evaluation period not found")
		return
	case err != nil:
		slog.Error("period summary failed", "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", "failed to build period summary")
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	q := r.URL.Query()
	v := shared.NewValidator()
	filter := reports.JobRunFilter{JobType: q.Get("jobType"), Status: q.Get("status")}
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
	page := shared.ParsePagination(r, v, 50, 200)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	filter.StartedFrom, filter.StartedTo = from, to

	runs, total, err := h.Service.JobRuns(r.Context(), user.TenantID, filter, page.Limit, page.Offset)
	if err != nil {
		slog.Error("job runs list failed", "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", "failed to list job runs")
		return
	}
	api.SuccessPage(w, runs, total, middleware.GetRequestID(r.Context()))
}
