package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/rlm/internal/indexer"
	"github.com/mvp-joe/rlm/internal/scanner"
)

var indexQuiet bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the project tree into .rlm/index.db",
	Long: `Index walks the project tree, parses each source file into chunks
and references, and stores the result in .rlm/index.db inside a single
transaction. Re-running index is incremental: unchanged files are
skipped by content hash, and files removed from disk are pruned from
the index.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&indexQuiet, "quiet", "q", false, "disable the progress bar")
}

func runIndex(cmd *cobra.Command, args []string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\ninterrupted, rolling back...")
		os.Exit(130)
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureRlmDir(); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	var seen int
	progress := func(c scanner.FileCandidate) {
		if indexQuiet {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("indexing"),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowCount(),
			)
		}
		seen++
		bar.Set(seen)
	}

	result, err := indexer.Run(cfg, progress)
	if err != nil {
		return err
	}
	if !indexQuiet && bar != nil {
		fmt.Println()
	}

	return printJSON(result)
}
