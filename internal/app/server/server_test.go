package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hreval/internal/platform/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	return config.Config{
		JWTSecret:          "test-secret",
		FrontendDir:        dir,
		DefaultLocale:      "en",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 100,
		MetricsEnabled:     true,
		MCP:                config.MCPConfig{HTTPEnabled: true, Path: "/mcp"},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig(t)
	svcs, err := NewServices(cfg, nil)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	return NewRouter(cfg, svcs, nil)
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	router := newTestRouter(t)
	if rec := get(router, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz: got %d", rec.Code)
	}
	if rec := get(router, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without db: got %d", rec.Code)
	}
}

func TestSPAFallback(t *testing.T) {
	router := newTestRouter(t)

	rec := get(router, "/evaluations/123")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "app") {
		t.Fatalf("expected index fallback, got %d %q", rec.Code, rec.Body.String())
	}
	rec = get(router, "/assets/app.js")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("expected static asset, got %d", rec.Code)
	}
	rec = get(router, "/../../etc/passwd")
	if strings.Contains(rec.Body.String(), "root:") {
		t.Fatal("path traversal escaped the static dir")
	}
}

func TestProtectedRoutesRequireCredentials(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/evaluation/periods", http.StatusUnauthorized},
		{"/api/v1/admin/users", http.StatusUnauthorized},
		{"/api/v1/auth/me", http.StatusUnauthorized},
		{"/mcp", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if rec := get(router, tt.path); rec.Code != tt.code {
			t.Fatalf("%s: got %d, want %d", tt.path, rec.Code, tt.code)
		}
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	router := newTestRouter(t)
	rec := get(router, "/healthz")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff, got %q", rec.Header().Get("X-Content-Type-Options"))
	}
}
