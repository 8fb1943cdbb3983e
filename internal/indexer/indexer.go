// Package indexer orchestrates a full scan-parse-store pass: walk the
// project tree, dispatch each file to the tree-sitter or text extractor for
// its language, and write everything inside one transaction, mirroring
// run_index's single BEGIN IMMEDIATE / COMMIT shape.
package indexer

import (
	"sort"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/parsers"
	"github.com/mvp-joe/rlm/internal/rlmerr"
	"github.com/mvp-joe/rlm/internal/scanner"
	"github.com/mvp-joe/rlm/internal/storage"
	"github.com/mvp-joe/rlm/internal/textparsers"
)

// Result reports what one indexing pass did, broken down by skip category
// so the CLI and quality operation can report accurate statistics.
type Result struct {
	FilesScanned      int
	FilesIndexed      int
	FilesSkipped      int
	ChunksCreated     int
	RefsCreated       int
	SkippedUnsupported int
	SkippedUnsupportedLanguage int
	SkippedTooLarge   int
	SkippedNonUTF8    int
	SkippedIOError    int
	SkippedParseError int
	SkippedUnchanged  int
	DeletedFromIndex  int
}

func (r *Result) skip(reason scanner.SkipReason) {
	r.FilesSkipped++
	switch reason {
	case scanner.SkipUnsupportedExtension:
		r.SkippedUnsupported++
	case scanner.SkipUnsupportedLanguage:
		r.SkippedUnsupportedLanguage++
	case scanner.SkipTooLarge:
		r.SkippedTooLarge++
	case scanner.SkipNonUTF8:
		r.SkippedNonUTF8++
	case scanner.SkipIOError:
		r.SkippedIOError++
	}
}

// Run performs a full (incremental) index of cfg.ProjectRoot into
// cfg.DBPath, inside a single transaction. Progress, if non-nil, is called
// once per scanned file candidate (for CLI progress bars).
func Run(cfg *config.Config, progress func(scanner.FileCandidate)) (*Result, error) {
	if err := cfg.EnsureRlmDir(); err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, cfg.RlmDir, err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return RunWithDB(cfg, db, progress)
}

// RunWithDB is Run against an already-open database, used by tests and by
// EnsureIndex to avoid opening the database twice.
func RunWithDB(cfg *config.Config, db *storage.DB, progress func(scanner.FileCandidate)) (*Result, error) {
	candidates, err := scanner.Walk(cfg)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, cfg.ProjectRoot, err)
	}

	result := &Result{FilesScanned: len(candidates)}

	scannedPaths := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		scannedPaths[c.RelPath] = true
	}

	if err := db.BeginImmediate(); err != nil {
		return nil, err
	}

	if txErr := indexTransaction(cfg, db, candidates, scannedPaths, result, progress); txErr != nil {
		_ = db.Rollback()
		return nil, txErr
	}

	if err := db.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func indexTransaction(
	cfg *config.Config,
	db *storage.DB,
	candidates []scanner.FileCandidate,
	scannedPaths map[string]bool,
	result *Result,
	progress func(scanner.FileCandidate),
) error {
	// Phase 1: drop files from the index that no longer exist on disk.
	indexedFiles, err := db.GetAllFiles()
	if err != nil {
		return err
	}
	for _, f := range indexedFiles {
		if !scannedPaths[f.Path] {
			if err := db.DeleteFile(f.ID); err != nil {
				return err
			}
			result.DeletedFromIndex++
		}
	}

	// Phase 2: index new/changed files.
	for _, cand := range candidates {
		if progress != nil {
			progress(cand)
		}

		if cand.Skip != scanner.SkipNone {
			result.skip(cand.Skip)
			continue
		}

		existing, err := db.GetFileByPath(cand.RelPath)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Hash == cand.Hash {
				result.FilesSkipped++
				result.SkippedUnchanged++
				continue
			}
			if err := db.DeleteChunksForFile(existing.ID); err != nil {
				return err
			}
		}

		if scanner.IsCodeLanguage(cand.Lang) {
			if _, ok := parsers.ForLanguage(cand.Lang); !ok {
				// The extension resolved to a code language (per
				// codeLanguages), but no tree-sitter grammar is wired
				// for it yet — distinct from an unrecognized extension.
				result.skip(scanner.SkipUnsupportedLanguage)
				continue
			}
		}

		source, readErr := scanner.ReadSource(cand.AbsPath)
		if readErr != nil {
			result.skip(scanner.SkipIOError)
			continue
		}

		fileRecord := &model.FileRecord{
			Path:      cand.RelPath,
			Hash:      cand.Hash,
			Lang:      cand.Lang,
			SizeBytes: cand.SizeBytes,
		}
		fileID, err := db.UpsertFile(fileRecord)
		if err != nil {
			return err
		}

		chunks, refs, quality, parseErr := extract(cand.Lang, source, fileID)
		if parseErr != nil {
			// A ParseWithQuality failure is a Parse-kind error, not an
			// IoError, per the REDESIGN FLAG — tracked in its own
			// counter rather than folded into SkippedIOError. The file
			// is skipped for this run rather than left half-indexed.
			result.FilesSkipped++
			result.SkippedParseError++
			continue
		}

		if quality != nil && quality.FallbackRecommended() {
			if err := db.SetFileParseQuality(fileID, quality.Tag); err != nil {
				return err
			}
			issues := config.IssuesFromQuality(cand.RelPath, cand.Lang, *quality, source)
			if err := cfg.LogQualityIssues(issues); err != nil {
				return err
			}
		}

		if ctx := scanner.DetectUIContext(cand.RelPath); ctx != "" {
			for _, c := range chunks {
				tag := ctx
				c.UIContext = &tag
			}
		}

		insertedChunks := make([]*model.Chunk, 0, len(chunks))
		for _, c := range chunks {
			id, err := db.InsertChunk(c)
			if err != nil {
				return err
			}
			c.ID = id
			insertedChunks = append(insertedChunks, c)
			result.ChunksCreated++
		}

		sort.Slice(insertedChunks, func(i, j int) bool {
			return insertedChunks[i].StartLine < insertedChunks[j].StartLine
		})

		for _, ref := range refs {
			if ref.ChunkID == 0 {
				ref.ChunkID = findContainingChunkID(insertedChunks, ref.Line)
			}
			if ref.ChunkID > 0 {
				if _, err := db.InsertRef(ref); err != nil {
					return err
				}
				result.RefsCreated++
			}
		}

		result.FilesIndexed++
	}

	return nil
}

// extract dispatches a file's source to the code parser framework (chunks,
// refs and a quality verdict, single pass) or the text extractor framework
// (chunks only, no quality verdict to report).
func extract(lang, source string, fileID int64) ([]*model.Chunk, []*model.Reference, *model.ParseQuality, error) {
	if !scanner.IsCodeLanguage(lang) {
		return textparsers.Parse(lang, source, fileID), nil, nil, nil
	}
	parser, ok := parsers.ForLanguage(lang)
	if !ok {
		return nil, nil, nil, rlmerr.New(rlmerr.Parse, "", "no parser registered for "+lang)
	}
	result, err := parser.ParseWithQuality(source, fileID)
	if err != nil {
		// A ParseWithQuality failure is a Parse-kind error, not an
		// IoError.
		return nil, nil, nil, rlmerr.Wrap(rlmerr.Parse, "", err)
	}
	return result.Chunks, result.Refs, &result.Quality, nil
}

// findContainingChunkID binary-searches chunks (already sorted by
// StartLine) for the innermost chunk containing line, the same
// partition_point-then-reverse-scan run_index uses once chunk ids are real.
func findContainingChunkID(chunks []*model.Chunk, line uint32) int64 {
	idx := sort.Search(len(chunks), func(i int) bool { return chunks[i].StartLine > line })
	for i := idx - 1; i >= 0; i-- {
		if line <= chunks[i].EndLine {
			return chunks[i].ID
		}
	}
	return 0
}

// EnsureIndex opens the index database at cfg.DBPath, running a full index
// first if it does not exist yet (auto-index), matching ensure_index.
func EnsureIndex(cfg *config.Config) (*storage.DB, error) {
	if !cfg.IndexExists() {
		if _, err := Run(cfg, nil); err != nil {
			return nil, err
		}
	}
	return storage.Open(cfg.DBPath)
}
