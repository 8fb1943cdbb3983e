package cli

import (
	"github.com/spf13/cobra"

	"github.com/mvp-joe/rlm/internal/edit"
	"github.com/mvp-joe/rlm/internal/storage"
)

var (
	replaceSymbol  string
	replaceCode    string
	replacePreview bool
)

var replaceCmd = &cobra.Command{
	Use:   "replace <path>",
	Short: "Replace a named symbol's chunk with new code, gated by a syntax check",
	Long: `Replace locates the chunk named --symbol inside path, splices --code
into its byte range, and validates the result parses before writing
anything. --preview returns a structured diff and never writes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := edit.Replace(cfg, db, args[0], replaceSymbol, replaceCode, replacePreview)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var (
	insertPosition string
	insertCode     string
)

var insertCmd = &cobra.Command{
	Use:   "insert <path>",
	Short: `Insert code at --position (top, bottom, before:N, after:N), gated by a syntax check`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pos, err := edit.ParsePosition(insertPosition)
		if err != nil {
			return err
		}

		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := edit.Insert(cfg, db, args[0], pos, insertCode)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	replaceCmd.Flags().StringVar(&replaceSymbol, "symbol", "", "the chunk identifier to replace (required)")
	replaceCmd.Flags().StringVar(&replaceCode, "code", "", "the replacement source text (required)")
	replaceCmd.Flags().BoolVar(&replacePreview, "preview", false, "return a diff without writing")
	replaceCmd.MarkFlagRequired("symbol")
	replaceCmd.MarkFlagRequired("code")
	rootCmd.AddCommand(replaceCmd)

	insertCmd.Flags().StringVar(&insertPosition, "position", "", `"top", "bottom", "before:N", or "after:N" (required)`)
	insertCmd.Flags().StringVar(&insertCode, "code", "", "the source text to insert (required)")
	insertCmd.MarkFlagRequired("position")
	insertCmd.MarkFlagRequired("code")
	rootCmd.AddCommand(insertCmd)
}
