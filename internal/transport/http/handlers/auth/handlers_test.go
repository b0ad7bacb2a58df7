package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
)

type fakeService struct {
	loginErr  error
	loggedOut []string
	enabled   map[string]bool
}

func (f *fakeService) Login(_ context.Context, email, password, mfaCode string) (auth.LoginResult, error) {
	if f.loginErr != nil {
		return auth.LoginResult{}, f.loginErr
	}
	if password != "Secret123" {
		return auth.LoginResult{}, auth.ErrInvalidCredentials
	}
	return auth.LoginResult{Token: "tok", ExpiresAt: time.Now().Add(time.Hour), UserID: "u1", TenantID: "t1", Role: auth.RoleHR}, nil
}

func (f *fakeService) Logout(_ context.Context, user auth.UserContext) error {
	f.loggedOut = append(f.loggedOut, user.SessionID)
	return nil
}

func (f *fakeService) Refresh(_ context.Context, user auth.UserContext) (auth.LoginResult, error) {
	if user.SessionID != "s1" {
		return auth.LoginResult{}, auth.ErrSessionExpired
	}
	return auth.LoginResult{Token: "tok2", UserID: user.UserID}, nil
}

func (f *fakeService) Permissions(_ context.Context, user auth.UserContext) ([]string, error) {
	return []string{auth.PermEvaluationRead}, nil
}

func (f *fakeService) SetupMFA(_ context.Context, userID string) (auth.MFASetup, error) {
	return auth.MFASetup{}, auth.ErrMFAUnavailable
}

func (f *fakeService) EnableMFA(_ context.Context, userID, code string) error {
	if code != "123456" {
		return auth.ErrMFAInvalid
	}
	if f.enabled == nil {
		f.enabled = map[string]bool{}
	}
	f.enabled[userID] = true
	return nil
}

func (f *fakeService) DisableMFA(_ context.Context, userID, code string) error {
	delete(f.enabled, userID)
	return nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) Record(_ context.Context, _, _, action, _, _, _, _ string, _, _ any) error {
	f.actions = append(f.actions, action)
	return nil
}

func newRouter(svc Service, audit *fakeAudit, user *auth.UserContext) http.Handler {
	r := chi.NewRouter()
	if user != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), *user)))
			})
		})
	}
	NewHandler(svc, audit).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env api.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec, env
}

func TestLogin(t *testing.T) {
	audit := &fakeAudit{}
	router := newRouter(&fakeService{}, audit, nil)

	rec, env := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"hr@example.com","password":"Secret123"}`)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected login success, got %d %s", rec.Code, rec.Body.String())
	}
	if len(audit.actions) != 1 || audit.actions[0] != "auth.login" {
		t.Fatalf("expected login audit, got %v", audit.actions)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"hr@example.com","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized || env.Error.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %d %+v", rec.Code, env.Error)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %d %+v", rec.Code, env.Error)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"hr@example.com","password":"x","extra":1}`)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "invalid_payload" {
		t.Fatalf("expected invalid_payload for unknown field, got %d %+v", rec.Code, env.Error)
	}
}

func TestLoginMFARequired(t *testing.T) {
	router := newRouter(&fakeService{loginErr: auth.ErrMFARequired}, &fakeAudit{}, nil)
	rec, env := doJSON(t, router, http.MethodPost, "/auth/login", `{"email":"hr@example.com","password":"Secret123"}`)
	if rec.Code != http.StatusUnauthorized || env.Error.Code != "mfa_required" {
		t.Fatalf("expected mfa_required, got %d %+v", rec.Code, env.Error)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	svc := &fakeService{}
	user := &auth.UserContext{UserID: "u1", TenantID: "t1", SessionID: "s1"}
	router := newRouter(svc, &fakeAudit{}, user)

	rec, _ := doJSON(t, router, http.MethodPost, "/auth/refresh", ``)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected refresh success, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/auth/logout", ``)
	if rec.Code != http.StatusOK || len(svc.loggedOut) != 1 || svc.loggedOut[0] != "s1" {
		t.Fatalf("expected logout of s1, got %d %v", rec.Code, svc.loggedOut)
	}

	stale := newRouter(svc, &fakeAudit{}, &auth.UserContext{UserID: "u1", SessionID: "old"})
	rec, env := doJSON(t, stale, http.MethodPost, "/auth/refresh", ``)
	if rec.Code != http.StatusUnauthorized || env.Error.Code != "session_expired" {
		t.Fatalf("expected session_expired, got %d %+v", rec.Code, env.Error)
	}
}

func TestMFAEndpoints(t *testing.T) {
	svc := &fakeService{}
	audit := &fakeAudit{}
	router := newRouter(svc, audit, &auth.UserContext{UserID: "u1", TenantID: "t1", SessionID: "s1"})

	rec, env := doJSON(t, router, http.MethodPost, "/auth/mfa/setup", ``)
	if rec.Code != http.StatusBadRequest || env.Error.Code != "mfa_unavailable" {
		t.Fatalf("expected mfa_unavailable, got %d %+v", rec.Code, env.Error)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/auth/mfa/enable", `{"code":"654321"}`)
	if rec.Code != http.StatusUnauthorized || env.Error.Code != "mfa_invalid" {
		t.Fatalf("expected mfa_invalid, got %d %+v", rec.Code, env.Error)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/auth/mfa/enable", `{"code":"123456"}`)
	if rec.Code != http.StatusOK || !svc.enabled["u1"] {
		t.Fatalf("expected mfa enabled, got %d", rec.Code)
	}
	if audit.actions[len(audit.actions)-1] != "auth.mfa.enable" {
		t.Fatalf("expected enable audit, got %v", audit.actions)
	}
}

func TestMeAndAccessKeys(t *testing.T) {
	key := &auth.UserContext{TenantID: "t1", AccessKeyID: "k1", Modules: []string{auth.ModuleEvaluation}}
	router := newRouter(&fakeService{}, &fakeAudit{}, key)

	rec, env := doJSON(t, router, http.MethodGet, "/auth/me", ``)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("expected me to work for keys, got %d", rec.Code)
	}

	rec, env = doJSON(t, router, http.MethodPost, "/auth/logout", ``)
	if rec.Code != http.StatusForbidden || env.Error.Code != "forbidden" {
		t.Fatalf("expected keys to be refused on logout, got %d %+v", rec.Code, env.Error)
	}
}
