package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/whence/internal/adapters/watcher"
	"go.trai.ch/whence/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <module>",
		Short: "Print the module's report again whenever its repository changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, _ := cmd.Flags().GetBool("details")
			window, _ := cmd.Flags().GetDuration("debounce")

			return c.app.Watch(cmd.Context(), cmd.OutOrStdout(), args[0], app.WatchOptions{
				RunOptions: runOptions(cmd),
				Details:    details,
				Window:     window,
			})
		},
	}
	cmd.Flags().BoolP("details", "d", false, "Print every detected field")
	cmd.Flags().Duration("debounce", watcher.DefaultDebounceWindow, "Quiet period before re-resolving")
	return cmd
}
