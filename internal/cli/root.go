// Package cli provides the chemlab command line: the web server plus
// offline commands that work on a seeded workspace.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/chemlab/internal/core"
	"github.com/JonMunkholm/chemlab/internal/logging"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	seedFile string
	logLevel string
}

// NewRootCmd creates the chemlab root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "chemlab",
		Short: "Experiment data workspace",
		Long: `chemlab organizes experiment CSV files in a folder tree and shows
the merged table of every file in a folder.

Run "chemlab serve" for the web UI. "tree" and "merge" work on the
seed dataset without starting a server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.seedFile, "seed", "", "YAML seed file (default: SEED_FILE or the built-in dataset)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newTreeCmd(opts))
	rootCmd.AddCommand(newMergeCmd(opts))
	return rootCmd
}

// ErrorMessage formats a command error for the terminal. Known failures get
// their user message and code; anything else is printed as is.
func ErrorMessage(err error) string {
	if core.IsUserFacing(err) {
		return fmt.Sprintf("%s\n  %v", core.FormatUserError(err), err)
	}
	return "Error: " + err.Error()
}

// offlineService builds a workspace for the tree and merge commands. Logs
// go to stderr so stdout stays machine readable.
func offlineService(cmd *cobra.Command, opts *rootOptions, cfg core.ServiceConfig) (*core.Service, error) {
	level := opts.logLevel
	if level == "" {
		level = "warn"
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, "text"))

	seed, err := core.LoadSeedFile(opts.seedFile)
	if err != nil {
		return nil, err
	}
	return core.NewService(seed, cfg)
}
