package evaluationhandler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/evaluation"
	"hreval/internal/platform/i18n"
	"hreval/internal/platform/requestctx"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type previewRequest struct {
	JobGrade string           `json:"jobGrade"`
	Input    evaluation.Input `json:"input"`
}

func (h *Handler) handleListEvaluatees(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	actor, err := h.actor(r, user)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to resolve caller")
		return
	}
	q := r.URL.Query()
	filter := evaluation.EvaluateeFilter{
		DepartmentID: q.Get("departmentId"),
		EvaluatorID:  q.Get("evaluatorId"),
		Status:       q.Get("status"),
	}
	if filter.Status != "" {
		v := shared.NewValidator()
		v.Enum("status", filter.Status, []string{evaluation.StatusDraft, evaluation.StatusSubmitted, evaluation.StatusConfirmed}, "must be one of draft, submitted, confirmed")
		if v.Reject(w, middleware.GetRequestID(r.Context())) {
			return
		}
	}

	evaluatees, err := h.Service.ListEvaluatees(r.Context(), user.TenantID, chi.URLParam(r, "periodID"), actor, filter)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to list evaluatees")
		return
	}
	api.Success(w, evaluatees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload previewRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	scores, err := h.Service.Preview(r.Context(), user.TenantID, chi.URLParam(r, "periodID"), strings.TrimSpace(payload.JobGrade), payload.Input)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to compute scores")
		return
	}
	api.Success(w, scores, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	actor, err := h.actor(r, user)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to resolve caller")
		return
	}
	ev, err := h.Service.GetEvaluation(r.Context(), user.TenantID, chi.URLParam(r, "evaluationID"), actor)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to load evaluation")
		return
	}
	api.Success(w, ev, middleware.GetRequestID(r.Context()))
}

// handleSaveDraft backs the autosave calls from the sheet editor. Drafts
// are not audited one by one; submit and confirm are.
func (h *Handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	actor, err := h.actor(r, user)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to resolve caller")
		return
	}
	var input evaluation.Input
	if !shared.DecodeJSON(w, r, &input) {
		return
	}
	ev, err := h.Service.SaveDraft(r.Context(), user.TenantID, chi.URLParam(r, "evaluationID"), actor, input)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to save evaluation")
		return
	}
	api.Success(w, ev, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, "evaluation.submit", h.Service.Submit)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, "evaluation.confirm", h.Service.Confirm)
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, "evaluation.reopen", h.Service.Reopen)
}

type statusChange func(ctx context.Context, tenantID, evaluationID string, actor evaluation.Actor) (evaluation.Evaluation, error)

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, action string, change statusChange) {
	user, _ := middleware.GetUser(r.Context())
	actor, err := h.actor(r, user)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to resolve caller")
		return
	}
	evaluationID := chi.URLParam(r, "evaluationID")
	ev, err := change(r.Context(), user.TenantID, evaluationID, actor)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to update evaluation")
		return
	}
	shared.Audit(r, h.Audit, user, action, "evaluation", evaluationID, nil, map[string]any{
		"status":     ev.Status,
		"finalScore": ev.Scores.Final,
		"rating":     ev.Scores.Rating,
	})
	api.Success(w, ev, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")
	rows, err := h.Service.ListSheetRows(r.Context(), user.TenantID, periodID)
	if err != nil {
		fail(w, r, err, "export_failed", "failed to export evaluations")
		return
	}

	var buf bytes.Buffer
	if err := evaluation.WriteCSV(&buf, rows); err != nil {
		fail(w, r, err, "export_failed", "failed to export evaluations")
		return
	}
	shared.Audit(r, h.Audit, user, "evaluation.export.csv", "evaluation_period", periodID, nil, map[string]int{"rows": len(rows)})
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=evaluations-%s.csv", periodID))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("evaluation csv write failed", "err", err)
	}
}

func (h *Handler) handleSheetPDF(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	actor, err := h.actor(r, user)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to resolve caller")
		return
	}
	evaluationID := chi.URLParam(r, "evaluationID")
	row, err := h.Service.GetSheetRow(r.Context(), user.TenantID, evaluationID, actor)
	if err != nil {
		fail(w, r, err, "export_failed", "failed to export evaluation sheet")
		return
	}

	var buf bytes.Buffer
	opts := evaluation.SheetOptions{
		Locale:   requestctx.GetLocale(r.Context(), i18n.DefaultTag()),
		FontFile: h.FontFile,
	}
	if err := evaluation.RenderSheet(&buf, row, opts); err != nil {
		fail(w, r, err, "export_failed", "failed to export evaluation sheet")
		return
	}
	shared.Audit(r, h.Audit, user, "evaluation.export.pdf", "evaluation", evaluationID, nil, nil)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=evaluation-%s.pdf", row.EmployeeNumber))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("evaluation pdf write failed", "err", err)
	}
}
