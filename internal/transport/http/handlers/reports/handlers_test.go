package reportshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/evaluation"
	"hreval/internal/domain/reports"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
)

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) { return true, nil }

type fakeService struct {
	evaluatorID string
	filter      reports.JobRunFilter
}

func (f *fakeService) PeriodSummary(_ context.Context, _, periodID, evaluatorID string) (reports.PeriodSummary, error) {
	if periodID == "missing" {
		return reports.PeriodSummary{}, reports.ErrPeriodNotFound
	}
	f.evaluatorID = evaluatorID
	return reports.PeriodSummary{PeriodID: periodID, Total: 3}, nil
}

func (f *fakeService) JobRuns(_ context.Context, _ string, filter reports.JobRunFilter, _, _ int) ([]reports.JobRun, int, error) {
	f.filter = filter
	return []reports.JobRun{{ID: "r1", JobType: "audit_retention", Status: "completed"}}, 1, nil
}

type fakeActors map[string]evaluation.Actor

func (f fakeActors) ActorFor(_ context.Context, _, userID string, isHR bool) (evaluation.Actor, error) {
	actor := f[userID]
	actor.IsHR = actor.IsHR || isHR
	return actor, nil
}

func router(svc *fakeService, user auth.UserContext) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	actors := fakeActors{"mgr": {EmployeeID: "emp-mgr"}, "staff": {}}
	NewHandler(svc, actors, allowAll{}).RegisterRoutes(r)
	return r
}

func get(t *testing.T, h http.Handler, path string) (int, api.Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, env
}

func TestPeriodSummaryScope(t *testing.T) {
	cases := []struct {
		name      string
		user      auth.UserContext
		status    int
		evaluator string
	}{
		{"hr sees all", auth.UserContext{UserID: "hr", TenantID: "t1", RoleName: auth.RoleHR}, http.StatusOK, ""},
		{"evaluator sees reports", auth.UserContext{UserID: "mgr", TenantID: "t1", RoleName: auth.RoleEvaluator}, http.StatusOK, "emp-mgr"},
		{"no employee record", auth.UserContext{UserID: "staff", TenantID: "t1", RoleName: auth.RoleEmployee}, http.StatusForbidden, ""},
		{"access key", auth.UserContext{TenantID: "t1", AccessKeyID: "k1", Modules: []string{auth.ModuleEvaluation}}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{evaluatorID: "unset"}
			status, _ := get(t, router(svc, tc.user), "/reports/periods/p1/summary")
			if status != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, status)
			}
			if status == http.StatusOK && svc.evaluatorID != tc.evaluator {
				t.Fatalf("expected evaluator scope %q, got %q", tc.evaluator, svc.evaluatorID)
			}
		})
	}
}

func TestPeriodSummaryNotFound(t *testing.T) {
	user := auth.UserContext{UserID: "hr", TenantID: "t1", RoleName: auth.RoleHR}
	status, env := get(t, router(&fakeService{}, user), "/reports/periods/missing/summary")
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "period_not_found" {
		t.Fatalf("expected period_not_found, got %d %+v", status, env.Error)
	}
}

func TestJobRuns(t *testing.T) {
	svc := &fakeService{}
	user := auth.UserContext{UserID: "admin", TenantID: "t1", RoleName: auth.RoleSystemAdmin}
	h := router(svc, user)

	status, env := get(t, h, "/reports/job-runs?jobType=audit_retention&from=2026-01-01")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d", status)
	}
	if svc.filter.JobType != "audit_retention" || svc.filter.StartedFrom == nil {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}

	status, env = get(t, h, "/reports/job-runs?from=2026-02-01&to=2026-01-01")
	if status != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %d %+v", status, env.Error)
	}
}
