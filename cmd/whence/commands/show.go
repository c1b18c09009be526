package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/whence/internal/app"
)

func (c *CLI) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [modules...]",
		Short: "Show the version and source of each module",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			details, _ := cmd.Flags().GetBool("details")

			return c.app.Show(cmd.Context(), cmd.OutOrStdout(), args, app.ShowOptions{
				RunOptions: runOptions(cmd),
				JSON:       jsonOut,
				Details:    details,
			})
		},
	}
	cmd.Flags().Bool("json", false, "Print reports as JSON")
	cmd.Flags().BoolP("details", "d", false, "Print every detected field")
	return cmd
}
