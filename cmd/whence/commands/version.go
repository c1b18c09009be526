package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/whence/internal/build"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version and where it was built from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdo := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(cmdo, "whence version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
			return c.app.Version(cmd.Context(), cmdo, runOptions(cmd))
		},
	}
}
