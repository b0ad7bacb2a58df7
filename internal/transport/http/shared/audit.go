package shared

import (
	"context"
	"log/slog"
	"net/http"

	"hreval/internal/domain/auth"
	"hreval/internal/platform/requestctx"
)

type AuditRecorder interface {
	Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

// Audit records a mutation made by user. Access keys are recorded with a
// "key:" actor so they never collide with user ids. Failures are logged and
// do not fail the request.
func Audit(r *http.Request, rec AuditRecorder, user auth.UserContext, action, entityType, entityID string, before, after any) {
	if rec == nil {
		return
	}
	actor := user.UserID
	if user.IsAccessKey() {
		actor = "key:" + user.AccessKeyID
	}
	if err := rec.Record(r.Context(), user.TenantID, actor, action, entityType, entityID, requestctx.GetRequestID(r.Context()), ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
