package query

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// DiffResult reports whether a file's (or, when Symbol is set, one chunk's)
// stored content still matches the current disk bytes.
//
// The original implementation's operations/diff.rs was not present in the
// retrieved reference pack, so this dispatch (diff_file vs diff_symbol
// behind one operation, keyed on whether Symbol is supplied) is designed
// directly rather than ported.
type DiffResult struct {
	Path    string `json:"p"`
	Symbol  string `json:"sym,omitempty"`
	Changed bool   `json:"ch"`
	Diff    string `json:"d,omitempty"`
}

// Diff compares the indexed content of path (or, when symbol is non-empty,
// just that chunk's stored content) against the current disk bytes.
func (e *Engine) Diff(path, symbol string) (*DiffResult, error) {
	abs := filepath.Join(e.Cfg.ProjectRoot, path)
	diskData, err := os.ReadFile(abs)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.NotFound, path, err)
	}

	f, err := e.DB.GetFileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, rlmerr.New(rlmerr.NotFound, path, "file not indexed")
	}

	if symbol == "" {
		// File-level: the index stores only the content hash, not the full
		// prior bytes, so there is no "before" side to diff against — report
		// changed alone rather than rendering the whole current file as a
		// fake all-additions diff.
		sum := sha256.Sum256(diskData)
		changed := hex.EncodeToString(sum[:]) != f.Hash
		return &DiffResult{Path: path, Changed: changed}, nil
	}

	chunks, err := e.DB.GetChunksForFile(f.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		if c.Ident != symbol {
			continue
		}
		var current string
		if int(c.EndByte) <= len(diskData) && c.StartByte <= c.EndByte {
			current = string(diskData[c.StartByte:c.EndByte])
		}
		changed := current != c.Content
		result := &DiffResult{Path: path, Symbol: symbol, Changed: changed}
		if changed {
			result.Diff = unifiedDiff(c.Content, current)
		}
		return result, nil
	}
	return nil, rlmerr.New(rlmerr.NotFound, path, "no symbol named "+symbol)
}

// unifiedDiff produces a minimal line-based diff, enough for a human or
// agent to see what moved without pulling in a diff library for one
// operation that only needs before/after line context.
func unifiedDiff(before, after string) string {
	var b strings.Builder
	if before != "" {
		for _, l := range strings.Split(before, "\n") {
			fmt.Fprintf(&b, "-%s\n", l)
		}
	}
	if after != "" {
		for _, l := range strings.Split(after, "\n") {
			fmt.Fprintf(&b, "+%s\n", l)
		}
	}
	return b.String()
}
