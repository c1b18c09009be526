// Package commands implements the CLI commands for whence.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/whence/internal/app"
	"go.trai.ch/whence/internal/build"
)

// CLI represents the command line interface for whence.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Show(ctx context.Context, w io.Writer, names []string, opts app.ShowOptions) error
	Watch(ctx context.Context, w io.Writer, name string, opts app.WatchOptions) error
	Version(ctx context.Context, w io.Writer, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "whence",
		Short:         "Report where an installed Go module came from",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))

	// Persistent flags go first so -v belongs to --verbose and --version gets no shorthand.
	flags := rootCmd.PersistentFlags()
	flags.StringP("ref", "r", ".", "File or directory inside the package")
	flags.String("binary", "", "Inspect the build info of this Go binary instead of whence itself")
	flags.StringP("config", "c", "", "Config file, or directory to discover .whence.yaml from")
	flags.String("vcs", "", "VCS backend: cli or gogit")
	flags.String("metadata", "", "Metadata backend: golist or distinfo")
	flags.BoolP("verbose", "v", false, "Log every probe step")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Bool("trace", false, "Log a summary of every probe span")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	flags := cmd.Flags()
	ref, _ := flags.GetString("ref")
	binary, _ := flags.GetString("binary")
	configPath, _ := flags.GetString("config")
	vcs, _ := flags.GetString("vcs")
	metadata, _ := flags.GetString("metadata")
	verbose, _ := flags.GetBool("verbose")
	logJSON, _ := flags.GetBool("log-json")
	trace, _ := flags.GetBool("trace")

	return app.RunOptions{
		Reference:       ref,
		Binary:          binary,
		ConfigPath:      configPath,
		VCSBackend:      vcs,
		MetadataBackend: metadata,
		Verbose:         verbose,
		LogJSON:         logJSON,
		Trace:           trace,
	}
}
