package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/platform/config"
	"hreval/internal/platform/i18n"
	adminhandler "hreval/internal/transport/http/handlers/admin"
	audithandler "hreval/internal/transport/http/handlers/audit"
	authhandler "hreval/internal/transport/http/handlers/auth"
	directoryhandler "hreval/internal/transport/http/handlers/directory"
	evaluationhandler "hreval/internal/transport/http/handlers/evaluation"
	masterhandler "hreval/internal/transport/http/handlers/master"
	orghandler "hreval/internal/transport/http/handlers/org"
	reportshandler "hreval/internal/transport/http/handlers/reports"
	"hreval/internal/transport/http/middleware"
	mcpserver "hreval/internal/transport/mcp"
)

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(cfg config.Config, svcs Services, db Pinger) http.Handler {
	locale, ok := i18n.ParseTag(cfg.DefaultLocale)
	if !ok {
		locale = i18n.DefaultTag()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Locale(locale))
	router.Use(middleware.Logger)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(svcs.Metrics))
	}
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, svcs.Auth, svcs.AccessKeys))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db == nil || db.Ping(ctx) != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		perms := svcs.Auth
		authhandler.NewHandler(svcs.Auth, svcs.Audit).RegisterRoutes(r)
		evaluationhandler.NewHandler(svcs.Evaluation, perms, svcs.Audit, cfg.PDFFontFile).RegisterRoutes(r)
		masterhandler.NewHandler(svcs.Evaluation, perms, svcs.Audit).RegisterRoutes(r)
		orghandler.NewHandler(svcs.Org, perms, svcs.Audit).RegisterRoutes(r)
		audithandler.NewHandler(svcs.Audit, perms).RegisterRoutes(r)
		reportshandler.NewHandler(svcs.Reports, svcs.Evaluation, perms).RegisterRoutes(r)
		directoryhandler.NewHandler(svcs.Directory, perms, svcs.Audit).RegisterRoutes(r)

		admin := &adminhandler.Handler{
			Users:         svcs.Auth,
			Keys:          svcs.AccessKeys,
			Announcements: svcs.Announcements,
			Perms:         perms,
			Audit:         svcs.Audit,
		}
		if cfg.MetricsEnabled {
			admin.Metrics = svcs.Metrics
		}
		admin.RegisterRoutes(r)
	})

	if cfg.MCP.HTTPEnabled {
		mcpHandler := mcpserver.HTTPHandler(mcpserver.New(svcs.Directory))
		router.With(middleware.RequireModule(auth.ModuleMCP)).Handle(cfg.MCP.Path, mcpHandler)
		router.With(middleware.RequireModule(auth.ModuleMCP)).Handle(cfg.MCP.Path+"/*", mcpHandler)
	}

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}
