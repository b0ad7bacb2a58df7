package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hreval/internal/transport/http/shared"
)

const maxTrackedClients = 10000

type bucket struct {
	count int
	reset time.Time
}

// fixedWindow counts requests per key and resets each key's count once its
// window has passed.
type fixedWindow struct {
	mu      sync.Mutex
	limit   int
	length  time.Duration
	key     func(*http.Request) string
	buckets map[string]*bucket
}

func newFixedWindow(limit int, length time.Duration, key func(*http.Request) string) *fixedWindow {
	return &fixedWindow{limit: limit, length: length, key: key, buckets: map[string]*bucket{}}
}

// allow counts r, sets the X-RateLimit headers and answers 429 once the
// key's budget is spent.
func (fw *fixedWindow) allow(w http.ResponseWriter, r *http.Request) bool {
	if fw.limit <= 0 {
		return true
	}
	key := fw.key(r)
	now := time.Now()

	fw.mu.Lock()
	if len(fw.buckets) >= maxTrackedClients {
		for k, b := range fw.buckets {
			if now.After(b.reset) {
				delete(fw.buckets, k)
			}
		}
	}
	b := fw.buckets[key]
	if b == nil || now.After(b.reset) {
		b = &bucket{reset: now.Add(fw.length)}
		fw.buckets[key] = b
	}
	b.count++
	count, reset := b.count, b.reset
	fw.mu.Unlock()

	resetIn := max(int(reset.Sub(now).Seconds()), 1)
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(fw.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(fw.limit-count, 0)))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if count <= fw.limit {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(resetIn))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", fw.limit)
	shared.Fail(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
	return false
}

// RateLimit budgets every request per caller: access key, then user, then
// client IP.
func RateLimit(limit int, length time.Duration) func(http.Handler) http.Handler {
	fw := newFixedWindow(limit, length, actorKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fw.allow(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit puts tighter budgets on credential routes. Auth
// calls count per client IP and per submitted email. Account and key changes
// count per actor.
func SensitiveMutationRateLimit(base int, length time.Duration) func(http.Handler) http.Handler {
	authLimit := max(base/4, 1)
	byIP := newFixedWindow(authLimit, length, clientIPKey)
	byEmail := newFixedWindow(authLimit, length, loginEmailKey)
	byActor := newFixedWindow(max(base/2, 1), length, actorKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var windows []*fixedWindow
			switch rateScopeFor(r) {
			case scopeAuth:
				windows = []*fixedWindow{byIP, byEmail}
			case scopeActor:
				windows = []*fixedWindow{byActor}
			}
			for _, fw := range windows {
				if !fw.allow(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type rateScope int

const (
	scopeNone rateScope = iota
	scopeAuth
	scopeActor
)

var authRoutes = map[string]bool{
	"/auth/login":       true,
	"/auth/refresh":     true,
	"/auth/mfa/setup":   true,
	"/auth/mfa/enable":  true,
	"/auth/mfa/disable": true,
}

func rateScopeFor(r *http.Request) rateScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return scopeNone
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	switch {
	case authRoutes[path]:
		return scopeAuth
	case r.Method == http.MethodPost && (path == "/admin/users" || path == "/admin/access-keys"):
		return scopeActor
	case strings.HasSuffix(path, "/password") &&
		(strings.HasPrefix(path, "/admin/users/") || strings.HasPrefix(path, "/directory/users/")):
		return scopeActor
	}
	return scopeNone
}

func actorKey(r *http.Request) string {
	user, ok := GetUser(r.Context())
	switch {
	case ok && user.AccessKeyID != "":
		return "key:" + user.TenantID + ":" + user.AccessKeyID
	case ok && user.UserID != "":
		return "user:" + user.TenantID + ":" + user.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	return "ip:" + shared.ClientIP(r)
}

// loginEmailKey keys on the "email" field of a JSON body and puts the body
// back for the handler.
func loginEmailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return clientIPKey(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	var body struct {
		Email string `json:"email"`
	}
	if err != nil || json.Unmarshal(raw, &body) != nil {
		return clientIPKey(r)
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		return clientIPKey(r)
	}
	return "email:" + email
}
