package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hreval/internal/app/server"
	"hreval/internal/domain/directory"
)

// newDirectory is replaced in tests.
var newDirectory = func() (directory.Directory, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return directory.NewClient(server.DirectoryConfig(cfg.LDAP)), nil
}

func newLDAPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ldap",
		Short: "Inspect the LDAP directory",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Check that the directory answers",
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := newDirectory()
				if err != nil {
					return err
				}
				if err := dir.Ping(cmd.Context()); err != nil {
					return fmt.Errorf("directory unavailable: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "directory available")
				return nil
			},
		},
		&cobra.Command{
			Use:   "search [query]",
			Short: "List users, optionally filtered by uid, name or mail",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := newDirectory()
				if err != nil {
					return err
				}
				var users []directory.Entry
				if len(args) == 1 {
					users, err = dir.SearchUsers(cmd.Context(), args[0])
				} else {
					users, err = dir.ListUsers(cmd.Context())
				}
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "UID\tNAME\tMAIL")
				for _, u := range users {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", u.UID, u.CN, u.Mail)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}
