package adminhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/accesskeys"
	"hreval/internal/domain/announcements"
	"hreval/internal/domain/auth"
	"hreval/internal/platform/metrics"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
)

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) { return true, nil }

type fakeAudit struct{ actions []string }

func (f *fakeAudit) Record(_ context.Context, _, _, action, _, _, _, _ string, _, _ any) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakeUsers struct {
	users map[string]auth.User
}

func (f *fakeUsers) ListUsers(context.Context, string) ([]auth.User, error) {
	out := make([]auth.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, _, email, password, role string) (auth.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return auth.User{}, auth.ErrUserExists
		}
	}
	if len(password) < 8 {
		return auth.User{}, auth.ErrWeakPassword
	}
	u := auth.User{ID: "u9", Email: email, RoleName: role, Status: auth.UserStatusActive}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) ChangeRole(_ context.Context, _, userID, role string) (auth.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	if role != auth.RoleHR && role != auth.RoleEvaluator && role != auth.RoleEmployee && role != auth.RoleSystemAdmin {
		return auth.User{}, auth.ErrUnknownRole
	}
	u.RoleName = role
	f.users[userID] = u
	return u, nil
}

func (f *fakeUsers) SetUserStatus(_ context.Context, _, userID, status string) (auth.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	u.Status = status
	f.users[userID] = u
	return u, nil
}

func (f *fakeUsers) ResetPassword(_ context.Context, _, userID, password string) error {
	if _, ok := f.users[userID]; !ok {
		return auth.ErrUserNotFound
	}
	if len(password) < 8 {
		return auth.ErrWeakPassword
	}
	return nil
}

type fakeKeys struct {
	keys map[string]accesskeys.Key
}

func (f *fakeKeys) List(context.Context, string) ([]accesskeys.Key, error) {
	out := make([]accesskeys.Key, 0, len(f.keys))
	for _, k := range f.keys {
		out = append(out, k)
	}
	return out, nil
}

func (f *fakeKeys) Create(_ context.Context, _, _, label string, modules []string, expiresAt *time.Time) (accesskeys.Created, error) {
	for _, m := range modules {
		if !auth.ValidModule(m) {
			return accesskeys.Created{}, accesskeys.ErrInvalidModules
		}
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return accesskeys.Created{}, accesskeys.ErrExpiryInPast
	}
	k := accesskeys.Key{ID: "k1", Label: label, Modules: modules, Active: true, ExpiresAt: expiresAt}
	f.keys[k.ID] = k
	return accesskeys.Created{Key: k, Plaintext: "hrk_secret"}, nil
}

func (f *fakeKeys) UpdateModules(_ context.Context, _, keyID string, modules []string) (accesskeys.Key, error) {
	k, ok := f.keys[keyID]
	if !ok {
		return accesskeys.Key{}, accesskeys.ErrKeyNotFound
	}
	k.Modules = modules
	f.keys[keyID] = k
	return k, nil
}

func (f *fakeKeys) Revoke(_ context.Context, _, keyID string) error {
	if _, ok := f.keys[keyID]; !ok {
		return accesskeys.ErrKeyNotFound
	}
	delete(f.keys, keyID)
	return nil
}

type fakeAnnouncements struct {
	items map[string]announcements.Announcement
}

func (f *fakeAnnouncements) List(context.Context, string) ([]announcements.Announcement, error) {
	out := make([]announcements.Announcement, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAnnouncements) Active(ctx context.Context, tenantID string) ([]announcements.Announcement, error) {
	var out []announcements.Announcement
	for _, a := range f.items {
		if a.Published {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnnouncements) Get(_ context.Context, _, id string) (announcements.Announcement, error) {
	a, ok := f.items[id]
	if !ok {
		return announcements.Announcement{}, announcements.ErrNotFound
	}
	return a, nil
}

func (f *fakeAnnouncements) Create(_ context.Context, _ string, a announcements.Announcement) (announcements.Announcement, error) {
	if a.EndsAt != nil && !a.StartsAt.IsZero() && !a.EndsAt.After(a.StartsAt) {
		return announcements.Announcement{}, announcements.ErrInvalidWindow
	}
	a.ID = "a1"
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAnnouncements) Update(_ context.Context, _ string, a announcements.Announcement) (announcements.Announcement, error) {
	if _, ok := f.items[a.ID]; !ok {
		return announcements.Announcement{}, announcements.ErrNotFound
	}
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAnnouncements) Delete(_ context.Context, _, id string) error {
	if _, ok := f.items[id]; !ok {
		return announcements.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fixture struct {
	router  http.Handler
	users   *fakeUsers
	keys    *fakeKeys
	notices *fakeAnnouncements
	audit   *fakeAudit
}

func setup(user auth.UserContext) fixture {
	f := fixture{
		users: &fakeUsers{users: map[string]auth.User{
			"u1": {ID: "u1", Email: "admin@example.com", RoleName: auth.RoleSystemAdmin, Status: auth.UserStatusActive},
			"u2": {ID: "u2", Email: "emp@example.com", RoleName: auth.RoleEmployee, Status: auth.UserStatusActive},
		}},
		keys:    &fakeKeys{keys: map[string]accesskeys.Key{}},
		notices: &fakeAnnouncements{items: map[string]announcements.Announcement{}},
		audit:   &fakeAudit{},
	}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h := &Handler{
		Users:         f.users,
		Keys:          f.keys,
		Announcements: f.notices,
		Metrics:       metrics.New(),
		Perms:         allowAll{},
		Audit:         f.audit,
	}
	h.RegisterRoutes(r)
	f.router = r
	return f
}

func adminUser() auth.UserContext {
	return auth.UserContext{UserID: "u1", TenantID: "t1", RoleID: "r1", RoleName: auth.RoleSystemAdmin}
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env api.Envelope
	if rec.Code != http.StatusNoContent {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec, env
}

func TestUsers(t *testing.T) {
	f := setup(adminUser())

	rec, env := do(t, f.router, http.MethodPost, "/admin/users", `{"email":"not-an-email","password":"Secret123","role":"Employee"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodPost, "/admin/users", `{"email":"emp@example.com","password":"Secret123","role":"Employee"}`)
	if rec.Code != http.StatusConflict || env.Error.Code != "user_exists" {
		t.Fatalf("expected user_exists, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodPost, "/admin/users", `{"email":"new@example.com","password":"short","role":"Employee"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "weak_password" {
		t.Fatalf("expected weak_password, got %d", rec.Code)
	}
	rec, _ = do(t, f.router, http.MethodPost, "/admin/users", `{"email":"new@example.com","password":"Secret123","role":"Employee"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected created, got %d %s", rec.Code, rec.Body.String())
	}

	rec, env = do(t, f.router, http.MethodPut, "/admin/users/u2/role", `{"role":"wizard"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "unknown_role" {
		t.Fatalf("expected unknown_role, got %d", rec.Code)
	}
	rec, _ = do(t, f.router, http.MethodPut, "/admin/users/u2/role", `{"role":"Evaluator"}`)
	if rec.Code != http.StatusOK || f.users.users["u2"].RoleName != auth.RoleEvaluator {
		t.Fatalf("expected role change, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodPut, "/admin/users/u1/role", `{"role":"Employee"}`)
	if rec.Code != http.StatusConflict || env.Error.Code != "conflict" {
		t.Fatalf("expected self role change to be refused, got %d", rec.Code)
	}

	rec, env = do(t, f.router, http.MethodPut, "/admin/users/u1/status", `{"status":"disabled"}`)
	if rec.Code != http.StatusConflict || env.Error.Code != "conflict" {
		t.Fatalf("expected self disable to be refused, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodPut, "/admin/users/u2/status", `{"status":"frozen"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected status validation, got %d", rec.Code)
	}
	rec, _ = do(t, f.router, http.MethodPut, "/admin/users/u2/status", `{"status":"disabled"}`)
	if rec.Code != http.StatusOK || f.users.users["u2"].Status != auth.UserStatusDisabled {
		t.Fatalf("expected disabled, got %d", rec.Code)
	}

	rec, env = do(t, f.router, http.MethodPost, "/admin/users/missing/password", `{"password":"Secret123"}`)
	if rec.Code != http.StatusNotFound || env.Error.Code != "user_not_found" {
		t.Fatalf("expected user_not_found, got %d", rec.Code)
	}
	rec, _ = do(t, f.router, http.MethodPost, "/admin/users/u2/password", `{"password":"Secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected reset, got %d", rec.Code)
	}

	want := []string{"admin.user.create", "admin.user.role", "admin.user.status", "admin.user.password"}
	if strings.Join(f.audit.actions, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected audit trail %v", f.audit.actions)
	}
}

func TestAccessKeys(t *testing.T) {
	f := setup(adminUser())

	rec, env := do(t, f.router, http.MethodPost, "/admin/access-keys", `{"label":"batch","modules":["payroll"]}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "module_invalid" {
		t.Fatalf("expected module_invalid, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodPost, "/admin/access-keys", `{"label":"batch","modules":["directory"],"expiresAt":"2001-01-01"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected expiry validation, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodPost, "/admin/access-keys", `{"label":"","modules":[]}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %d", rec.Code)
	}

	rec, env = do(t, f.router, http.MethodPost, "/admin/access-keys", `{"label":"batch","modules":["directory","mcp"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected created, got %d %s", rec.Code, rec.Body.String())
	}
	created, _ := env.Data.(map[string]any)
	if created["plaintext"] != "hrk_secret" {
		t.Fatalf("expected plaintext in create response, got %v", env.Data)
	}

	rec, _ = do(t, f.router, http.MethodPut, "/admin/access-keys/k1/modules", `{"modules":["evaluation"]}`)
	if rec.Code != http.StatusOK || f.keys.keys["k1"].Modules[0] != "evaluation" {
		t.Fatalf("expected modules update, got %d", rec.Code)
	}
	rec, _ = do(t, f.router, http.MethodDelete, "/admin/access-keys/k1", ``)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected revoke, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodDelete, "/admin/access-keys/k1", ``)
	if rec.Code != http.StatusNotFound || env.Error.Code != "access_key_not_found" {
		t.Fatalf("expected access_key_not_found, got %d", rec.Code)
	}

	rec, env = do(t, f.router, http.MethodGet, "/admin/modules", ``)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected modules list, got %d", rec.Code)
	}
	if list, _ := env.Data.([]any); len(list) != len(auth.Modules) {
		t.Fatalf("expected %d modules, got %v", len(auth.Modules), env.Data)
	}
}

func TestAccessKeyCannotManageAccess(t *testing.T) {
	key := auth.UserContext{TenantID: "t1", AccessKeyID: "k1", Modules: []string{auth.ModuleAdmin}}
	f := setup(key)

	for _, path := range []string{"/admin/users", "/admin/access-keys"} {
		rec, env := do(t, f.router, http.MethodGet, path, ``)
		if rec.Code != http.StatusForbidden || env.Error.Code != "access_key_module_denied" {
			t.Fatalf("%s: expected access_key_module_denied, got %d", path, rec.Code)
		}
	}
	rec, _ := do(t, f.router, http.MethodGet, "/admin/announcements", ``)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected announcements to be reachable with admin module, got %d", rec.Code)
	}
}

func TestAnnouncements(t *testing.T) {
	f := setup(adminUser())

	rec, env := do(t, f.router, http.MethodPost, "/admin/announcements", `{"title":"","severity":"info"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodPost, "/admin/announcements", `{"title":"Review","startsAt":"2026-04-10","endsAt":"2026-04-01"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "announcement_invalid" {
		t.Fatalf("expected announcement_invalid, got %d", rec.Code)
	}
	rec, _ = do(t, f.router, http.MethodPost, "/admin/announcements", `{"title":"Review opens","severity":"info","published":true,"startsAt":"2026-04-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected created, got %d %s", rec.Code, rec.Body.String())
	}
	if f.notices.items["a1"].CreatedBy != "u1" {
		t.Fatalf("expected creator to be recorded, got %+v", f.notices.items["a1"])
	}

	rec, _ = do(t, f.router, http.MethodPut, "/admin/announcements/a1", `{"title":"Review opens Monday","severity":"warning","published":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected update, got %d", rec.Code)
	}
	if got := f.notices.items["a1"]; got.Title != "Review opens Monday" || got.StartsAt.IsZero() {
		t.Fatalf("expected start to carry over, got %+v", got)
	}

	rec, env = do(t, f.router, http.MethodGet, "/announcements/active", ``)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected active list, got %d", rec.Code)
	}
	if list, _ := env.Data.([]any); len(list) != 1 {
		t.Fatalf("expected one active announcement, got %v", env.Data)
	}

	rec, _ = do(t, f.router, http.MethodDelete, "/admin/announcements/a1", ``)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected delete, got %d", rec.Code)
	}
	rec, env = do(t, f.router, http.MethodGet, "/admin/announcements/a1", ``)
	if rec.Code != http.StatusNotFound || env.Error.Code != "announcement_not_found" {
		t.Fatalf("expected announcement_not_found, got %d", rec.Code)
	}
	if len(f.audit.actions) != 3 {
		t.Fatalf("expected three audit entries, got %v", f.audit.actions)
	}
}

func TestMetrics(t *testing.T) {
	f := setup(adminUser())
	rec, env := do(t, f.router, http.MethodGet, "/admin/metrics", ``)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics, got %d", rec.Code)
	}
	if _, ok := env.Data.(map[string]any); !ok {
		t.Fatalf("expected snapshot object, got %v", env.Data)
	}
}
