package server

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"hreval/internal/domain/accesskeys"
	"hreval/internal/domain/announcements"
	"hreval/internal/domain/audit"
	"hreval/internal/domain/auth"
	"hreval/internal/domain/directory"
	"hreval/internal/domain/evaluation"
	"hreval/internal/domain/org"
	"hreval/internal/domain/reports"
	"hreval/internal/platform/config"
	"hreval/internal/platform/crypto"
	"hreval/internal/platform/jobs"
	"hreval/internal/platform/metrics"
)

// Services holds every domain service the router and jobs need.
type Services struct {
	Auth          *auth.Service
	AccessKeys    *accesskeys.Service
	Announcements *announcements.Service
	Audit         *audit.Service
	Evaluation    *evaluation.Service
	Org           *org.Service
	Reports       *reports.Service
	Directory     directory.Directory
	Metrics       *metrics.Collector
	Jobs          *jobs.Service
}

// NewServices wires the pgx-backed stores into their services.
func NewServices(cfg config.Config, pool *pgxpool.Pool) (Services, error) {
	sealer, err := crypto.NewSealer(cfg.DataEncryptionKey)
	if err != nil {
		return Services{}, err
	}
	keys := accesskeys.NewService(accesskeys.NewStore(pool))
	auditSvc := audit.New(audit.NewStore(pool))
	svcs := Services{
		Auth:          auth.NewService(auth.NewStore(pool), cfg.JWTSecret, sealer),
		AccessKeys:    keys,
		Announcements: announcements.New(announcements.NewStore(pool)),
		Audit:         auditSvc,
		Evaluation:    evaluation.NewService(evaluation.NewStore(pool)),
		Org:           org.NewService(org.NewStore(pool)),
		Reports:       reports.NewService(reports.NewStore(pool)),
		Directory:     directory.NewClient(DirectoryConfig(cfg.LDAP)),
		Metrics:       metrics.New(),
	}
	svcs.Jobs = jobs.New(jobs.NewStore(pool), keys, auditSvc, jobs.Schedule{
		AccessKeySweep:     cfg.AccessKeySweepInterval,
		AuditRetention:     cfg.AuditRetentionInterval,
		AuditRetentionDays: cfg.AuditRetentionDays,
	})
	return svcs, nil
}

func DirectoryConfig(c config.LDAPConfig) directory.Config {
	return directory.Config{
		Enabled:       c.Enabled,
		URL:           c.URL,
		BindDN:        c.BindDN,
		BindPassword:  c.BindPassword,
		BaseDN:        c.BaseDN,
		UserOU:        c.UserOU,
		UserClass:     c.UserClass,
		StartTLS:      c.StartTLS,
		SkipTLSVerify: c.SkipTLSVerify,
		Timeout:       c.Timeout,
		SizeLimit:     c.SizeLimit,
	}
}
