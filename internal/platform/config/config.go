package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvProduction = "production"

type Config struct {
	Addr                    string        `env:"APP_ADDR" envDefault:":8080"`
	DatabaseURL             string        `env:"DATABASE_URL"`
	JWTSecret               string        `env:"JWT_SECRET"`
	DataEncryptionKey       string        `env:"DATA_ENCRYPTION_KEY"`
	FrontendDir             string        `env:"FRONTEND_DIR" envDefault:"frontend/dist"`
	Environment             string        `env:"APP_ENV" envDefault:"development"`
	DefaultLocale           string        `env:"DEFAULT_LOCALE" envDefault:"ja"`
	SeedTenantName          string        `env:"SEED_TENANT_NAME" envDefault:"Default Tenant"`
	SeedAdminEmail          string        `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword       string        `env:"SEED_ADMIN_PASSWORD"`
	SeedSystemAdminEmail    string        `env:"SEED_SYSTEM_ADMIN_EMAIL"`
	SeedSystemAdminPassword string        `env:"SEED_SYSTEM_ADMIN_PASSWORD"`
	RunMigrations           bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	RunSeed                 bool          `env:"RUN_SEED" envDefault:"true"`
	MigrationsDir           string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	MaxBodyBytes            int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateLimitPerMinute      int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	MetricsEnabled          bool          `env:"METRICS_ENABLED" envDefault:"true"`
	AccessKeySweepInterval  time.Duration `env:"ACCESS_KEY_SWEEP_INTERVAL" envDefault:"1h"`
	AuditRetentionDays      int           `env:"AUDIT_RETENTION_DAYS" envDefault:"730"`
	AuditRetentionInterval  time.Duration `env:"AUDIT_RETENTION_INTERVAL" envDefault:"24h"`
	PDFFontFile             string        `env:"PDF_FONT_FILE"`

	Log  LogConfig
	LDAP LDAPConfig
	MCP  MCPConfig
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"json"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

type LDAPConfig struct {
	Enabled       bool          `env:"LDAP_ENABLED" envDefault:"false"`
	URL           string        `env:"LDAP_URL"`
	BindDN        string        `env:"LDAP_BIND_DN"`
	BindPassword  string        `env:"LDAP_BIND_PASSWORD"`
	BaseDN        string        `env:"LDAP_BASE_DN"`
	UserOU        string        `env:"LDAP_USER_OU" envDefault:"ou=people"`
	UserClass     string        `env:"LDAP_USER_CLASS" envDefault:"inetOrgPerson"`
	StartTLS      bool          `env:"LDAP_START_TLS" envDefault:"false"`
	SkipTLSVerify bool          `env:"LDAP_SKIP_TLS_VERIFY" envDefault:"false"`
	Timeout       time.Duration `env:"LDAP_TIMEOUT" envDefault:"5s"`
	SizeLimit     int           `env:"LDAP_SIZE_LIMIT" envDefault:"500"`
}

type MCPConfig struct {
	HTTPEnabled bool   `env:"MCP_HTTP_ENABLED" envDefault:"true"`
	Path        string `env:"MCP_PATH" envDefault:"/mcp"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.LDAP.Enabled {
		if strings.TrimSpace(c.LDAP.URL) == "" {
			return fmt.Errorf("LDAP_URL must be set when LDAP_ENABLED is true")
		}
		if strings.TrimSpace(c.LDAP.BaseDN) == "" {
			return fmt.Errorf("LDAP_BASE_DN must be set when LDAP_ENABLED is true")
		}
	}
	if c.MCP.HTTPEnabled && !strings.HasPrefix(c.MCP.Path, "/") {
		return fmt.Errorf("MCP_PATH must start with /")
	}
	return nil
}
