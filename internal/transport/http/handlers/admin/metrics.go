package adminhandler

import (
	"net/http"

	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
)

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
