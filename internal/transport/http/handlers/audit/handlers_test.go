package audithandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/audit"
	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
)

type rolePerms map[string]bool

func (p rolePerms) HasPermission(_ context.Context, roleID, _ string) (bool, error) {
	return p[roleID], nil
}

type fakeService struct {
	events     []audit.Event
	lastFilter audit.Filter
	lastLimit  int
	exportErr  error
}

func (f *fakeService) List(_ context.Context, _ string, filter audit.Filter, _ bool, limit, offset int) ([]audit.Event, int, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	end := min(offset+limit, len(f.events))
	if offset > end {
		offset = end
	}
	return f.events[offset:end], len(f.events), nil
}

func (f *fakeService) Export(_ context.Context, _ string, filter audit.Filter, w io.Writer) error {
	f.lastFilter = filter
	if f.exportErr != nil {
		return f.exportErr
	}
	return audit.WriteCSV(w, f.events)
}

func setup(roleID string) (http.Handler, *fakeService) {
	svc := &fakeService{events: []audit.Event{
		{ID: "a1", ActorID: "u1", Action: "evaluation.confirm", EntityType: "evaluation", EntityID: "ev1", CreatedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "a2", ActorID: "u1", Action: "evaluation.reopen", EntityType: "evaluation", EntityID: "ev1", CreatedAt: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)},
	}}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "u1", TenantID: "t1", RoleID: roleID}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc, rolePerms{"hr": true}).RegisterRoutes(r)
	return r, svc
}

func TestListEvents(t *testing.T) {
	router, svc := setup("hr")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events?action=evaluation.confirm&from=2026-04-01&limit=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Total-Count") != "2" {
		t.Fatalf("expected total count 2, got %q", rec.Header().Get("X-Total-Count"))
	}
	if svc.lastFilter.Action != "evaluation.confirm" || svc.lastFilter.From == nil || svc.lastLimit != 1 {
		t.Fatalf("unexpected filter %+v limit %d", svc.lastFilter, svc.lastLimit)
	}
	var env api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list, _ := env.Data.([]any); len(list) != 1 {
		t.Fatalf("expected one event, got %v", env.Data)
	}
}

func TestListEventsRejectsBadRange(t *testing.T) {
	router, _ := setup("hr")
	for _, query := range []string{"from=yesterday", "from=2026-05-01&to=2026-04-01"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events?"+query, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestAuditRequiresPermission(t *testing.T) {
	router, _ := setup("employee")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestExportEvents(t *testing.T) {
	router, svc := setup("hr")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events/export?entityType=evaluation", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %d lines", len(lines))
	}
	if svc.lastFilter.EntityType != "evaluation" {
		t.Fatalf("expected entity filter to pass through, got %+v", svc.lastFilter)
	}

	svc.exportErr = errors.New("db down")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events/export", nil))
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "db down") {
		t.Fatalf("expected opaque 500, got %d %s", rec.Code, rec.Body.String())
	}
}
