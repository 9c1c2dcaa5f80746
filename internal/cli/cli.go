// Package cli implements the ghdeps command-line interface.
//
// The single workhorse command is scan: search an organization's
// repositories by language, record metadata and the most recent commit of
// each, locate a dependency manifest anywhere in each repository tree,
// parse it, and export both tables as CSV.
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so every layer logs through one sink.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the ghdeps CLI and returns an error if any command fails.
// The context carries cancellation from process signals.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "ghdeps",
		Short:        "ghdeps inventories a GitHub organization's repositories and dependencies",
		Long:         `ghdeps searches a GitHub organization for repositories in a given language, records their metadata and most recent commit, finds each repository's dependency manifest, and exports repository and dependency tables as CSV.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("ghdeps %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newScanCmd())

	return root.ExecuteContext(ctx)
}
