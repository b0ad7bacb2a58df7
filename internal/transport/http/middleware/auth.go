package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/shared"
)

const AccessKeyHeader = "X-Access-Key"

type SessionChecker interface {
	SessionActive(ctx context.Context, userID, sessionID string) (bool, error)
}

type KeyAuthenticator interface {
	Authenticate(ctx context.Context, plaintext string) (auth.UserContext, error)
}

// Auth attaches the caller to the request context. A bearer token must
// belong to an open session when sessions is set. Requests without
// credentials pass through so public routes keep working; RequireAuth and
// RequirePermission reject them later.
func Auth(secret string, sessions SessionChecker, keys ...KeyAuthenticator) func(http.Handler) http.Handler {
	var keyAuth KeyAuthenticator
	if len(keys) > 0 {
		keyAuth = keys[0]
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := strings.TrimSpace(r.Header.Get(AccessKeyHeader)); raw != "" && keyAuth != nil {
				user, err := keyAuth.Authenticate(r.Context(), raw)
				if err != nil {
					shared.Fail(w, r, http.StatusUnauthorized, "access_key_invalid", "invalid access key")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if sessions != nil {
				active, err := sessions.SessionActive(r.Context(), claims.UserID, claims.SessionID)
				if err != nil {
					slog.Warn("session lookup failed", "err", err)
					next.ServeHTTP(w, r)
					return
				}
				if !active {
					next.ServeHTTP(w, r)
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserContext())))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			shared.Fail(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser rejects access keys on routes that only make sense for a
// signed-in person.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			shared.Fail(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if user.IsAccessKey() {
			shared.Fail(w, r, http.StatusForbidden, "forbidden", "access keys cannot use this endpoint")
			return
		}
		next.ServeHTTP(w, r)
	})
}
