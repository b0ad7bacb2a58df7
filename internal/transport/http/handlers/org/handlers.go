package orghandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/org"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type Service interface {
	ListDepartments(ctx context.Context, tenantID string) ([]org.Department, error)
	GetDepartment(ctx context.Context, tenantID, departmentID string) (org.Department, error)
	CreateDepartment(ctx context.Context, tenantID string, dep org.Department) (string, error)
	UpdateDepartment(ctx context.Context, tenantID string, dep org.Department) error
	DeleteDepartment(ctx context.Context, tenantID, departmentID string) error
	ListEmployees(ctx context.Context, tenantID string, filter org.EmployeeFilter) ([]org.Employee, error)
	GetEmployee(ctx context.Context, tenantID, employeeID string) (org.Employee, error)
	CreateEmployee(ctx context.Context, tenantID string, emp org.Employee) (org.Employee, error)
	UpdateEmployee(ctx context.Context, tenantID string, emp org.Employee) (org.Employee, error)
	DeactivateEmployee(ctx context.Context, tenantID, employeeID string) error
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
	read := middleware.RequirePermission(auth.PermOrgRead, h.Perms)
	write := middleware.RequirePermission(auth.PermOrgWrite, h.Perms)

	r.Route("/org", func(r chi.Router) {
		r.With(read).Get("/departments", h.handleListDepartments)
		r.With(write).Post("/departments", h.handleCreateDepartment)
		r.With(read).Get("/departments/{departmentID}", h.handleGetDepartment)
		r.With(write).Put("/departments/{departmentID}", h.handleUpdateDepartment)
		r.With(write).Delete("/departments/{departmentID}", h.handleDeleteDepartment)

		r.With(read).Get("/employees", h.handleListEmployees)
		r.With(write).Post("/employees", h.handleCreateEmployee)
		r.With(read).Get("/employees/{employeeID}", h.handleGetEmployee)
		r.With(write).Put("/employees/{employeeID}", h.handleUpdateEmployee)
		r.With(write).Post("/employees/{employeeID}/deactivate", h.handleDeactivateEmployee)
	})
}

type departmentRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Code     string `json:"code" validate:"max=50"`
	ParentID string `json:"parentId" validate:"omitempty,uuid"`
}

type employeeRequest struct {
	UserID         string `json:"userId" validate:"omitempty,uuid"`
	EmployeeNumber string `json:"employeeNumber" validate:"required,max=50"`
	FirstName      string `json:"firstName" validate:"required,max=100"`
	LastName       string `json:"lastName" validate:"required,max=100"`
	Email          string `json:"email" validate:"omitempty,email"`
	JobGrade       string `json:"jobGrade" validate:"max=20"`
	DepartmentID   string `json:"departmentId" validate:"omitempty,uuid"`
	ManagerID      string `json:"managerId" validate:"omitempty,uuid"`
	LDAPUID        string `json:"ldapUid" validate:"max=64"`
	Status         string `json:"status" validate:"omitempty,oneof=active inactive"`
	HiredAt        string `json:"hiredAt"`
}

func (p employeeRequest) employee(v *shared.Validator) org.Employee {
	v.Struct(p)
	emp := org.Employee{
		UserID:         p.UserID,
		EmployeeNumber: p.EmployeeNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		JobGrade:       p.JobGrade,
		DepartmentID:   p.DepartmentID,
		ManagerID:      p.ManagerID,
		LDAPUID:        p.LDAPUID,
		Status:         p.Status,
	}
	if p.HiredAt != "" {
		if hired, ok := v.Date("hiredAt", p.HiredAt); ok {
			emp.HiredAt = &hired
		}
	}
	return emp
}

func fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, org.ErrDepartmentNotFound):
		shared.Fail(w, r, http.StatusNotFound, "department_not_found", "department not found")
	case errors.Is(err, org.ErrDepartmentNotEmpty):
		shared.Fail(w, r, http.StatusConflict, "department_not_empty", "department still has employees")
	case errors.Is(err, org.ErrEmployeeNotFound):
		shared.Fail(w, r, http.StatusNotFound, "employee_not_found", "employee not found")
	case errors.Is(err, org.ErrInvalidEmployee):
		shared.Fail(w, r, http.StatusBadRequest, "employee_invalid", "employee number and name are required")
	case errors.Is(err, org.ErrSelfManager):
		shared.Fail(w, r, http.StatusBadRequest, "employee_self_manager", "employee cannot manage themselves")
	case errors.Is(err, org.ErrDuplicate):
		shared.Fail(w, r, http.StatusConflict, "duplicate", "record already exists")
	default:
		slog.Error("org request failed", "path", r.URL.Path, "err", err)
		shared.Fail(w, r, http.StatusInternalServerError, "request_failed", fallback)
	}
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	deps, err := h.Service.ListDepartments(r.Context(), user.TenantID)
	if err != nil {
		fail(w, r, err, "failed to list departments")
		return
	}
	api.Success(w, deps, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	dep, err := h.Service.GetDepartment(r.Context(), user.TenantID, chi.URLParam(r, "departmentID"))
	if err != nil {
		fail(w, r, err, "failed to load department")
		return
	}
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload departmentRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	dep := org.Department{Name: payload.Name, Code: payload.Code, ParentID: payload.ParentID}
	id, err := h.Service.CreateDepartment(r.Context(), user.TenantID, dep)
	if err != nil {
		fail(w, r, err, "failed to create department")
		return
	}
	dep.ID = id
	shared.Audit(r, h.Audit, user, "org.department.create", "department", id, nil, dep)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	departmentID := chi.URLParam(r, "departmentID")
	before, err := h.Service.GetDepartment(r.Context(), user.TenantID, departmentID)
	if err != nil {
		fail(w, r, err, "failed to load department")
		return
	}
	var payload departmentRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if payload.ParentID == departmentID {
		v.Add("parentId", "must not be the department itself")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	dep := org.Department{ID: departmentID, Name: payload.Name, Code: payload.Code, ParentID: payload.ParentID}
	if err := h.Service.UpdateDepartment(r.Context(), user.TenantID, dep); err != nil {
		fail(w, r, err, "failed to update department")
		return
	}
	shared.Audit(r, h.Audit, user, "org.department.update", "department", departmentID, before, dep)
	api.Success(w, dep, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	departmentID := chi.URLParam(r, "departmentID")
	if err := h.Service.DeleteDepartment(r.Context(), user.TenantID, departmentID); err != nil {
		fail(w, r, err, "failed to delete department")
		return
	}
	shared.Audit(r, h.Audit, user, "org.department.delete", "department", departmentID, nil, nil)
	api.NoContent(w)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	q := r.URL.Query()
	filter := org.EmployeeFilter{
		DepartmentID: q.Get("departmentId"),
		ManagerID:    q.Get("managerId"),
		Status:       q.Get("status"),
		Query:        q.Get("q"),
	}
	v := shared.NewValidator()
	v.Enum("status", filter.Status, []string{org.EmployeeStatusActive, org.EmployeeStatusInactive}, "must be active or inactive")
	page := shared.ParsePagination(r, v, 200, 1000)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	employees, err := h.Service.ListEmployees(r.Context(), user.TenantID, filter)
	if err != nil {
		fail(w, r, err, "failed to list employees")
		return
	}
	start, end := page.Window(len(employees))
	api.SuccessPage(w, employees[start:end], len(employees), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	emp, err := h.Service.GetEmployee(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if err != nil {
		fail(w, r, err, "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload employeeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	input := payload.employee(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), user.TenantID, input)
	if err != nil {
		fail(w, r, err, "failed to create employee")
		return
	}
	shared.Audit(r, h.Audit, user, "org.employee.create", "employee", emp.ID, nil, emp)
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	before, err := h.Service.GetEmployee(r.Context(), user.TenantID, employeeID)
	if err != nil {
		fail(w, r, err, "failed to load employee")
		return
	}
	var payload employeeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	input := payload.employee(v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	input.ID = employeeID

	emp, err := h.Service.UpdateEmployee(r.Context(), user.TenantID, input)
	if err != nil {
		fail(w, r, err, "failed to update employee")
		return
	}
	shared.Audit(r, h.Audit, user, "org.employee.update", "employee", employeeID, before, emp)
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	if err := h.Service.DeactivateEmployee(r.Context(), user.TenantID, employeeID); err != nil {
		fail(w, r, err, "failed to deactivate employee")
		return
	}
	shared.Audit(r, h.Audit, user, "org.employee.deactivate", "employee", employeeID,
		map[string]string{"status": org.EmployeeStatusActive}, map[string]string{"status": org.EmployeeStatusInactive})
	api.Success(w, map[string]string{"status": org.EmployeeStatusInactive}, middleware.GetRequestID(r.Context()))
}
