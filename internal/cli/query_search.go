package cli

import (
	"github.com/spf13/cobra"

	"github.com/mvp-joe/rlm/internal/query"
)

var searchLimit int
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over indexed chunks, best match first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Search(args[0], searchLimit)
		})
	},
}

var readSelector string
var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a file's full text, or a sub-slice by symbol, section, or line range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Read(args[0], readSelector)
		})
	},
}

var grepContext int
var grepPathFilter string
var grepCmd = &cobra.Command{
	Use:   "grep <pattern>",
	Short: "Regex match lines across currently-indexed files, with before/after context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Grep(args[0], grepContext, grepPathFilter)
		})
	},
}

var partitionStrategy string
var partitionCmd = &cobra.Command{
	Use:   "partition <path>",
	Short: `Split a file into slabs: "uniform:N", "semantic", or "keyword:REGEX"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Partition(args[0], partitionStrategy)
		})
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <path>",
	Short: "Per-file manifest: language, line count, symbols with signatures/visibility, description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Summarize(args[0])
		})
	},
}

var batchPerFileLimit int
var batchCmd = &cobra.Command{
	Use:   "batch <query>",
	Short: "Search projected to per-file buckets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Batch(args[0], batchPerFileLimit)
		})
	},
}

var diffSymbol string
var diffCmd = &cobra.Command{
	Use:   "diff <path>",
	Short: "Compare the stored content of a file (or one symbol) with its current disk bytes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Diff(args[0], diffSymbol)
		})
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns <query>",
	Short: "FTS hits projected to {kind, name, signature, line_count}",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Patterns(args[0])
		})
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)

	readCmd.Flags().StringVar(&readSelector, "symbol", "", "a symbol/section name, or a 1-based \"START-END\" line range")
	rootCmd.AddCommand(readCmd)

	grepCmd.Flags().IntVar(&grepContext, "context", 0, "lines of context before/after each match")
	grepCmd.Flags().StringVar(&grepPathFilter, "path", "", "restrict to paths with this prefix")
	rootCmd.AddCommand(grepCmd)

	partitionCmd.Flags().StringVar(&partitionStrategy, "strategy", "semantic", `"uniform:N", "semantic", or "keyword:REGEX"`)
	rootCmd.AddCommand(partitionCmd)

	rootCmd.AddCommand(summarizeCmd)

	batchCmd.Flags().IntVar(&batchPerFileLimit, "per-file-limit", 5, "maximum hits kept per file")
	rootCmd.AddCommand(batchCmd)

	diffCmd.Flags().StringVar(&diffSymbol, "symbol", "", "restrict the comparison to one symbol's chunk")
	rootCmd.AddCommand(diffCmd)

	rootCmd.AddCommand(patternsCmd)
}
