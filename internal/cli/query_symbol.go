package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/rlm/internal/query"
)

var refsCmd = &cobra.Command{
	Use:   "refs <symbol>",
	Short: "Every reference targeting an identifier across the repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Refs(args[0])
		})
	},
}

var signatureCmd = &cobra.Command{
	Use:   "signature <symbol>",
	Short: "Distinct signatures for an identifier plus its total reference count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Signature(args[0])
		})
	},
}

var callgraphCmd = &cobra.Command{
	Use:   "callgraph <symbol>",
	Short: "Callers and callees of a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Callgraph(args[0])
		})
	},
}

var impactCmd = &cobra.Command{
	Use:   "impact <symbol>",
	Short: "Flat list of every reference to a symbol: file, containing symbol, line, ref kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Impact(args[0])
		})
	},
}

var contextCmd = &cobra.Command{
	Use:   "context <symbol>",
	Short: "Bodies, signatures, caller count, and deduplicated callee names for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Context(args[0])
		})
	},
}

var depsCmd = &cobra.Command{
	Use:   "deps <path>",
	Short: "Sorted unique import targets for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Deps(args[0])
		})
	},
}

var scopeCmd = &cobra.Command{
	Use:   "scope <path> <line>",
	Short: "Chunks containing a line, and chunks visible (declared) by that point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return err
		}
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Scope(args[0], uint32(line))
		})
	},
}

var typeCmd = &cobra.Command{
	Use:   "type <symbol>",
	Short: `One representative chunk, preferring src/ over other over fixtures|test`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOpenEngine(func(e *query.Engine) (any, error) {
			return e.Type(args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(refsCmd, signatureCmd, callgraphCmd, impactCmd, contextCmd, depsCmd, scopeCmd, typeCmd)
}
