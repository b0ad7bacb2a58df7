package evaluationhandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/evaluation"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type periodRequest struct {
	Name       string  `json:"name"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	ResultsMin float64 `json:"resultsMin"`
	ResultsMax float64 `json:"resultsMax"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (p periodRequest) period(w http.ResponseWriter, r *http.Request) (evaluation.Period, bool) {
	v := shared.NewValidator()
	v.Required("name", p.Name, "is required")
	start, _ := v.Date("startDate", p.StartDate)
	end, _ := v.Date("endDate", p.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return evaluation.Period{}, false
	}
	return evaluation.Period{
		Name:       strings.TrimSpace(p.Name),
		StartDate:  start,
		EndDate:    end,
		ResultsMin: p.ResultsMin,
		ResultsMax: p.ResultsMax,
	}, true
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periods, err := h.Service.ListPeriods(r.Context(), user.TenantID)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to list periods")
		return
	}
	api.Success(w, periods, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	period, err := h.Service.GetPeriod(r.Context(), user.TenantID, chi.URLParam(r, "periodID"))
	if err != nil {
		fail(w, r, err, "request_failed", "failed to load period")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload periodRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	input, ok := payload.period(w, r)
	if !ok {
		return
	}

	period, err := h.Service.CreatePeriod(r.Context(), user.TenantID, input)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to create period")
		return
	}
	shared.Audit(r, h.Audit, user, "evaluation.period.create", "evaluation_period", period.ID, nil, period)
	api.Created(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")
	before, err := h.Service.GetPeriod(r.Context(), user.TenantID, periodID)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to load period")
		return
	}

	var payload periodRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	input, ok := payload.period(w, r)
	if !ok {
		return
	}
	input.ID = periodID

	period, err := h.Service.UpdatePeriod(r.Context(), user.TenantID, input)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to update period")
		return
	}
	shared.Audit(r, h.Audit, user, "evaluation.period.update", "evaluation_period", periodID, before, period)
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")
	if err := h.Service.DeletePeriod(r.Context(), user.TenantID, periodID); err != nil {
		fail(w, r, err, "request_failed", "failed to delete period")
		return
	}
	shared.Audit(r, h.Audit, user, "evaluation.period.delete", "evaluation_period", periodID, nil, nil)
	api.NoContent(w)
}

func (h *Handler) handleTransitionPeriod(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")

	var payload transitionRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("status", payload.Status, "is required")
	v.Enum("status", payload.Status, evaluation.PeriodStatuses, "must be one of draft, active, review, closed")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	before, err := h.Service.GetPeriod(r.Context(), user.TenantID, periodID)
	if err != nil {
		fail(w, r, err, "request_failed", "failed to load period")
		return
	}
	period, err := h.Service.TransitionPeriod(r.Context(), user.TenantID, periodID, strings.ToLower(strings.TrimSpace(payload.Status)))
	if err != nil {
		fail(w, r, err, "request_failed", "failed to change period status")
		return
	}
	shared.Audit(r, h.Audit, user, "evaluation.period.transition", "evaluation_period", periodID,
		map[string]string{"status": before.Status}, map[string]string{"status": period.Status})
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}
