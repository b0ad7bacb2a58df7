package middleware

import (
	"context"
	"net/http"

	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/shared"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}

// RequirePermission checks the caller's role, or for access keys whether
// one of the key's modules covers permission.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				shared.Fail(w, r, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			if user.IsAccessKey() {
				if !auth.KeyAllows(user.Modules, permission) {
					shared.Fail(w, r, http.StatusForbidden, "access_key_module_denied", "access key module not allowed")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.RoleID, permission)
			if err != nil {
				shared.Fail(w, r, http.StatusInternalServerError, "permission_error", "permission check failed")
				return
			}
			if !allowed {
				shared.Fail(w, r, http.StatusForbidden, "forbidden", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireModule admits only access keys holding module.
func RequireModule(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok || !user.IsAccessKey() {
				shared.Fail(w, r, http.StatusUnauthorized, "access_key_invalid", "access key required")
				return
			}
			if !user.HasModule(module) {
				shared.Fail(w, r, http.StatusForbidden, "access_key_module_denied", "access key module not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
