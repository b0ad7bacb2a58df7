// Command hrevalctl runs maintenance tasks against an hreval deployment:
// schema migration, seeding, background jobs, directory checks and offline
// score calculation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hreval/cmd/hrevalctl/internal/commands"
)

func main() {
	root := &cobra.Command{
		Use:           "hrevalctl",
		Short:         "Maintenance tool for the hreval server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	commands.Register(root)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
