package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"hreval/internal/app/server"
	"hreval/internal/platform/jobs"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run background jobs on demand",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "run <job>",
		Short:     "Run one job synchronously and record the run",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{jobs.JobAccessKeySweep, jobs.JobAuditRetention},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return withPool(cmd.Context(), cfg, func(pool *pgxpool.Pool) error {
				svcs, err := server.NewServices(cfg, pool)
				if err != nil {
					return err
				}
				details, err := svcs.Jobs.RunNow(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out, err := json.Marshal(details)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], out)
				return nil
			})
		},
	})
	return cmd
}
