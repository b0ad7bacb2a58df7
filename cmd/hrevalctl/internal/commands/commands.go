package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"hreval/internal/platform/config"
	"hreval/internal/platform/db"
	"hreval/internal/platform/logging"
)

// Register adds every subcommand to root.
func Register(root *cobra.Command) {
	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newJobsCmd(),
		newLDAPCmd(),
		newScoreCmd(),
	)
}

// loadConfig reads the same environment as the server. Logs go to stderr so
// command output stays machine readable.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, config.LogConfig{Level: cfg.Log.Level, Format: "text"})))
	return cfg, nil
}

func withPool(ctx context.Context, cfg config.Config, fn func(*pgxpool.Pool) error) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}

func newMigrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
			}
			return withPool(cmd.Context(), cfg, func(pool *pgxpool.Pool) error {
				n, err := db.Migrate(cmd.Context(), pool, os.DirFS(dir))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default tenant, roles, admin users and master data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return withPool(cmd.Context(), cfg, func(pool *pgxpool.Pool) error {
				if err := db.Seed(cmd.Context(), pool, cfg); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
				return nil
			})
		},
	}
}
