package masterhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/evaluation"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type Service interface {
	ListWeights(ctx context.Context, tenantID string) ([]evaluation.WeightRow, error)
	SetWeights(ctx context.Context, tenantID, grade string, weights evaluation.Weights) error
	DeleteWeights(ctx context.Context, tenantID, grade string) error
	ListProcessCategories(ctx context.Context, tenantID string, activeOnly bool) ([]evaluation.ProcessCategory, error)
	SaveProcessCategory(ctx context.Context, tenantID string, category evaluation.ProcessCategory) (string, error)
	DeleteProcessCategory(ctx context.Context, tenantID, categoryID string) error
	ListGrowthCategories(ctx context.Context, tenantID string, activeOnly bool) ([]evaluation.GrowthCategory, error)
	SaveGrowthCategory(ctx context.Context, tenantID string, category evaluation.GrowthCategory) (string, error)
	DeleteGrowthCategory(ctx context.Context, tenantID, categoryID string) error
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service Service, perms middleware.PermissionStore, auditSvc shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermMasterRead, h.Perms)
	write := middleware.RequirePermission(auth.PermMasterWrite, h.Perms)

	r.Route("/master", func(r chi.Router) {
		r.With(read).Get("/weights", h.handleListWeights)
		r.With(write).Put("/weights/{grade}", h.handleSetWeights)
		r.With(write).Delete("/weights/{grade}", h.handleDeleteWeights)

		r.With(read).Get("/process-categories", h.handleListProcessCategories)
		r.With(write).Post("/process-categories", h.handleSaveProcessCategory)
		r.With(write).Put("/process-categories/{categoryID}", h.handleSaveProcessCategory)
		r.With(write).Delete("/process-categories/{categoryID}", h.handleDeleteProcessCategory)

		r.With(read).Get("/growth-categories", h.handleListGrowthCategories)
		r.With(write).Post("/growth-categories", h.handleSaveGrowthCategory)
		r.With(write).Put("/growth-categories/{categoryID}", h.handleSaveGrowthCategory)
		r.With(write).Delete("/growth-categories/{categoryID}", h.handleDeleteGrowthCategory)
	})
}

func fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, evaluation.ErrWeightsSum):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "weights", Reason: err.Error()}})
	case errors.Is(err, evaluation.ErrInvalidCoefficient):
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "coefficient", Reason: err.Error()}})
	case errors.Is(err, evaluation.ErrWeightsNotFound):
		shared.Fail(w, r, http.StatusNotFound, "not_found", "weights not found")
	case errors.Is(err, evaluation.ErrCategoryNotFound):
		shared.Fail(w, r, http.StatusNotFound, "category_not_found", "category not found")
	default:
		slog.Error("master data request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", fallback)
	}
}

func (h *Handler) handleListWeights(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	rows, err := h.Service.ListWeights(r.Context(), user.TenantID)
	if err != nil {
		fail(w, r, err, "failed to list weights")
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetWeights(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	grade := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "grade")))
	if strings.EqualFold(grade, evaluation.DefaultWeightGrade) {
		grade = evaluation.DefaultWeightGrade
	}
	var payload evaluation.Weights
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	if err := h.Service.SetWeights(r.Context(), user.TenantID, grade, payload); err != nil {
		fail(w, r, err, "failed to save weights")
		return
	}
	shared.Audit(r, h.Audit, user, "master.weights.set", "grade_weights", grade, nil, payload)
	api.Success(w, evaluation.WeightRow{Grade: grade, Weights: payload}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteWeights(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	grade := chi.URLParam(r, "grade")
	if err := h.Service.DeleteWeights(r.Context(), user.TenantID, grade); err != nil {
		fail(w, r, err, "failed to delete weights")
		return
	}
	shared.Audit(r, h.Audit, user, "master.weights.delete", "grade_weights", grade, nil, nil)
	api.NoContent(w)
}

func activeOnly(r *http.Request) bool {
	return r.URL.Query().Get("active") == "true"
}

func (h *Handler) handleListProcessCategories(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	categories, err := h.Service.ListProcessCategories(r.Context(), user.TenantID, activeOnly(r))
	if err != nil {
		fail(w, r, err, "failed to list process categories")
		return
	}
	api.Success(w, categories, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveProcessCategory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload evaluation.ProcessCategory
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	payload.ID = chi.URLParam(r, "categoryID")
	creating := payload.ID == ""

	id, err := h.Service.SaveProcessCategory(r.Context(), user.TenantID, payload)
	if err != nil {
		fail(w, r, err, "failed to save process category")
		return
	}
	payload.ID = id
	if creating {
		shared.Audit(r, h.Audit, user, "master.process_category.create", "process_category", id, nil, payload)
		api.Created(w, payload, middleware.GetRequestID(r.Context()))
		return
	}
	shared.Audit(r, h.Audit, user, "master.process_category.update", "process_category", id, nil, payload)
	api.Success(w, payload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteProcessCategory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "categoryID")
	if err := h.Service.DeleteProcessCategory(r.Context(), user.TenantID, id); err != nil {
		fail(w, r, err, "failed to delete process category")
		return
	}
	shared.Audit(r, h.Audit, user, "master.process_category.delete", "process_category", id, nil, nil)
	api.NoContent(w)
}

func (h *Handler) handleListGrowthCategories(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	categories, err := h.Service.ListGrowthCategories(r.Context(), user.TenantID, activeOnly(r))
	if err != nil {
		fail(w, r, err, "failed to list growth categories")
		return
	}
	api.Success(w, categories, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveGrowthCategory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload evaluation.GrowthCategory
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	payload.ID = chi.URLParam(r, "categoryID")
	creating := payload.ID == ""

	id, err := h.Service.SaveGrowthCategory(r.Context(), user.TenantID, payload)
	if err != nil {
		fail(w, r, err, "failed to save growth category")
		return
	}
	payload.ID = id
	if creating {
		shared.Audit(r, h.Audit, user, "master.growth_category.create", "growth_category", id, nil, payload)
		api.Created(w, payload, middleware.GetRequestID(r.Context()))
		return
	}
	shared.Audit(r, h.Audit, user, "master.growth_category.update", "growth_category", id, nil, payload)
	api.Success(w, payload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteGrowthCategory(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	id := chi.URLParam(r, "categoryID")
	if err := h.Service.DeleteGrowthCategory(r.Context(), user.TenantID, id); err != nil {
		fail(w, r, err, "failed to delete growth category")
		return
	}
	shared.Audit(r, h.Audit, user, "master.growth_category.delete", "growth_category", id, nil, nil)
	api.NoContent(w)
}
