// Package cli wires every query, edit, and indexing operation into a cobra
// command tree, rehomed around a project-local .rlm/config.toml instead
// of a $HOME-rooted YAML settings file.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/rlm/internal/rlmerr"
)

var outputPretty bool

var rootCmd = &cobra.Command{
	Use:   "rlm",
	Short: "rlm - a code context broker for coding agents",
	Long: `rlm scans a project tree, parses source files into a semantic
symbol/reference index, and exposes that index through this command
surface and an MCP tool server so that coding agents can navigate and
edit code without loading whole files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and translates any returned error into the
// taxonomy's exit code / JSON error envelope.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputPretty, "pretty", false, "pretty-print JSON output instead of minified")
}

// exitCodeFor maps an rlmerr.Kind to a non-zero process exit code; any
// error surfaced to the user is non-zero, and the specific value is not
// load-bearing beyond "zero means success".
func exitCodeFor(err error) int {
	switch rlmerr.KindOf(err) {
	case rlmerr.NotFound:
		return 2
	case rlmerr.Syntax:
		return 3
	case rlmerr.Config:
		return 4
	default:
		return 1
	}
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorEnvelope(err))
}
