package cli

import (
	"github.com/spf13/cobra"

	"github.com/mvp-joe/rlm/internal/query"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print a hierarchical directory view of every indexed file's chunks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Tree()
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print file/chunk/ref counts, per-language histogram, and indexed-at range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Stats()
		})
	},
}

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "List files whose parse quality is not complete",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Quality()
		})
	},
}

var supportedCmd = &cobra.Command{
	Use:   "supported",
	Short: "Enumerate supported extensions, languages, and parser tiers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Supported(), nil
		})
	},
}

var mapPathFilter string
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Print one entry per file: language, line count, public symbols, description",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Map(mapPathFilter)
		})
	},
}

var peekPathFilter string
var peekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Like map, but chunk positions and kinds only, no content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Peek(peekPathFilter)
		})
	},
}

var verifyFix bool
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check storage integrity and cross-reference indexed paths against disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			report, err := e.Verify()
			if err != nil {
				return nil, err
			}
			if !verifyFix {
				return report, nil
			}
			// verify --fix propagates storage errors rather than
			// silently marking success.
			return e.Fix()
		})
	},
}

var (
	filesPathPrefix  string
	filesSkippedOnly bool
	filesIndexedOnly bool
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the union of indexed files and files present on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Files(query.FilesFilter{
				PathPrefix:  filesPathPrefix,
				SkippedOnly: filesSkippedOnly,
				IndexedOnly: filesIndexedOnly,
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(treeCmd, statsCmd, qualityCmd, supportedCmd, verifyCmd, filesCmd)

	mapCmd.Flags().StringVar(&mapPathFilter, "path", "", "restrict to paths with this prefix")
	rootCmd.AddCommand(mapCmd)

	peekCmd.Flags().StringVar(&peekPathFilter, "path", "", "restrict to paths with this prefix")
	rootCmd.AddCommand(peekCmd)

	verifyCmd.Flags().BoolVar(&verifyFix, "fix", false, "delete orphaned chunks/refs and records of files missing from disk, printing what was removed instead of the report")

	filesCmd.Flags().StringVar(&filesPathPrefix, "path-prefix", "", "restrict to paths with this prefix")
	filesCmd.Flags().BoolVar(&filesSkippedOnly, "skipped-only", false, "only files present on disk but not indexed")
	filesCmd.Flags().BoolVar(&filesIndexedOnly, "indexed-only", false, "only files present in the index")
}
