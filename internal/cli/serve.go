package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/rlm/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server over stdio",
	Long: `Serve multiplexes every query and edit operation as a named MCP
tool over a stdio JSON-RPC channel. Unlike every other command here,
serve does NOT auto-index: if .rlm/index.db is absent, each tool call
returns an error directing the caller to run "rlm index" first.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "rlm MCP server starting on stdio, project root:", root)
	srv := mcpserver.New(root)
	return srv.Serve(context.Background())
}
