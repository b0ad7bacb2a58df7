package evaluationhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/evaluation"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type Service interface {
	ListPeriods(ctx context.Context, tenantID string) ([]evaluation.Period, error)
	GetPeriod(ctx context.Context, tenantID, periodID string) (evaluation.Period, error)
	CreatePeriod(ctx context.Context, tenantID string, period evaluation.Period) (evaluation.Period, error)
	UpdatePeriod(ctx context.Context, tenantID string, period evaluation.Period) (evaluation.Period, error)
	DeletePeriod(ctx context.Context, tenantID, periodID string) error
	TransitionPeriod(ctx context.Context, tenantID, periodID, status string) (evaluation.Period, error)

	ActorFor(ctx context.Context, tenantID, userID string, isHR bool) (evaluation.Actor, error)
	ListEvaluatees(ctx context.Context, tenantID, periodID string, actor evaluation.Actor, filter evaluation.EvaluateeFilter) ([]evaluation.Evaluatee, error)
	GetEvaluation(ctx context.Context, tenantID, evaluationID string, actor evaluation.Actor) (evaluation.Evaluation, error)
	Preview(ctx context.Context, tenantID, periodID, grade string, in evaluation.Input) (evaluation.Scores, error)
	SaveDraft(ctx context.Context, tenantID, evaluationID string, actor evaluation.Actor, in evaluation.Input) (evaluation.Evaluation, error)
	Submit(ctx context.Context, tenantID, evaluationID string, actor evaluation.Actor) (evaluation.Evaluation, error)
	Confirm(ctx context.Context, tenantID, evaluationID string, actor evaluation.Actor) (evaluation.Evaluation, error)
	Reopen(ctx context.Context, tenantID, evaluationID string, actor evaluation.Actor) (evaluation.Evaluation, error)
	ListSheetRows(ctx context.Context, tenantID, periodID string) ([]evaluation.SheetRow, error)
	GetSheetRow(ctx context.Context, tenantID, evaluationID string, actor evaluation.Actor) (evaluation.SheetRow, error)
}

type Handler struct {
	Service  Service
	Perms    middleware.PermissionStore
	Audit    shared.AuditRecorder
	FontFile string
}

func NewHandler(service Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder, fontFile string) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, FontFile: fontFile}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermEvaluationRead, h.Perms)
	write := middleware.RequirePermission(auth.PermEvaluationWrite, h.Perms)
	confirm := middleware.RequirePermission(auth.PermEvaluationConfirm, h.Perms)
	export := middleware.RequirePermission(auth.PermEvaluationExport, h.Perms)
	manage := middleware.RequirePermission(auth.PermPeriodManage, h.Perms)

	r.Route("/evaluation", func(r chi.Router) {
		r.With(read).Get("/periods", h.handleListPeriods)
		r.With(manage).Post("/periods", h.handleCreatePeriod)
		r.With(read).Get("/periods/{periodID}", h.handleGetPeriod)
		r.With(manage).Put("/periods/{periodID}", h.handleUpdatePeriod)
		r.With(manage).Delete("/periods/{periodID}", h.handleDeletePeriod)
		r.With(manage).Post("/periods/{periodID}/transition", h.handleTransitionPeriod)
		r.With(read).Get("/periods/{periodID}/evaluatees", h.handleListEvaluatees)
		r.With(write).Post("/periods/{periodID}/preview", h.handlePreview)
		r.With(export).Get("/periods/{periodID}/export.csv", h.handleExportCSV)

		r.With(read).Get("/evaluations/{evaluationID}", h.handleGetEvaluation)
		r.With(write).Put("/evaluations/{evaluationID}/draft", h.handleSaveDraft)
		r.With(write).Post("/evaluations/{evaluationID}/submit", h.handleSubmit)
		r.With(confirm).Post("/evaluations/{evaluationID}/confirm", h.handleConfirm)
		r.With(confirm).Post("/evaluations/{evaluationID}/reopen", h.handleReopen)
		r.With(export).Get("/evaluations/{evaluationID}/sheet.pdf", h.handleSheetPDF)
	})
}

// actor resolves who is acting on evaluation records. Access keys act
// tenant-wide like HR since their module grant is not tied to a person.
func (h *Handler) actor(r *http.Request, user auth.UserContext) (evaluation.Actor, error) {
	if user.IsAccessKey() {
		return evaluation.Actor{IsHR: true}, nil
	}
	return h.Service.ActorFor(r.Context(), user.TenantID, user.UserID, auth.IsHRRole(user.RoleName))
}

// fail maps evaluation errors to localized responses.
func fail(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallback string) {
	switch {
	case errors.Is(err, evaluation.ErrPeriodNotFound):
		shared.Fail(w, r, http.StatusNotFound, "period_not_found", "evaluation period not found")
	case errors.Is(err, evaluation.ErrInvalidTransition):
		shared.Fail(w, r, http.StatusConflict, "period_invalid_transition", "period status transition not allowed")
	case errors.Is(err, evaluation.ErrPeriodLocked):
		shared.Fail(w, r, http.StatusConflict, "period_locked", "period does not accept changes")
	case errors.Is(err, evaluation.ErrPeriodNotDeletable):
		shared.Fail(w, r, http.StatusConflict, "period_not_deletable", "only draft periods can be deleted")
	case errors.Is(err, evaluation.ErrEvaluationNotFound):
		shared.Fail(w, r, http.StatusNotFound, "evaluation_not_found", "evaluation not found")
	case errors.Is(err, evaluation.ErrInvalidState):
		shared.Fail(w, r, http.StatusConflict, "evaluation_invalid_state", "evaluation status does not allow this action")
	case errors.Is(err, evaluation.ErrNotEvaluator):
		shared.Fail(w, r, http.StatusForbidden, "evaluation_not_evaluator", "not the evaluator of this record")
	case errors.Is(err, evaluation.ErrEmployeeNotFound):
		shared.Fail(w, r, http.StatusNotFound, "employee_not_found", "employee not found")
	case errors.Is(err, evaluation.ErrInvalidScoreRange),
		errors.Is(err, evaluation.ErrTooManyProjects),
		errors.Is(err, evaluation.ErrTooManyFlags),
		errors.Is(err, evaluation.ErrInvalidLevel):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: issueField(err), Reason: err.Error()}})
	default:
		slog.Error("evaluation request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, fallbackCode, fallback)
	}
}

func issueField(err error) string {
	switch {
	case errors.Is(err, evaluation.ErrInvalidScoreRange):
		return "resultsMax"
	case errors.Is(err, evaluation.ErrTooManyProjects):
		return "projects"
	case errors.Is(err, evaluation.ErrTooManyFlags):
		return "projects.checks"
	default:
		return "level"
	}
}
