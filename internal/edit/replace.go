package edit

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/indexer"
	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
	"github.com/mvp-joe/rlm/internal/storage"
)

// ReplaceResult is the replace operation's full output: a structured
// diff when preview is true (no write performed), or confirmation that
// the write and re-index completed.
type ReplaceResult struct {
	File      string `json:"f"`
	Symbol    string `json:"sym"`
	StartLine uint32 `json:"sl"`
	EndLine   uint32 `json:"el"`
	OldCode   string `json:"old,omitempty"`
	NewCode   string `json:"new,omitempty"`
	Preview   bool   `json:"prev"`
	Written   bool   `json:"w"`
}

// Replace locates the chunk named symbol inside path, splices newCode
// into its byte range (source[:start_byte] + newCode + source[end_byte:]),
// and validates that the result still parses before writing anything.
//
// preview=true returns the structured diff without touching disk.
// Ambiguous symbols (more than one chunk sharing the name in this file)
// fail with an Other-kind disambiguation error rather than picking one
// arbitrarily. A failed validation leaves the file untouched and returns
// a Syntax-kind error naming the offending source.
func Replace(cfg *config.Config, db *storage.DB, path, symbol, newCode string, preview bool) (*ReplaceResult, error) {
	f, err := db.GetFileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, rlmerr.New(rlmerr.NotFound, path, "file not indexed")
	}

	chunks, err := db.GetChunksForFile(f.ID)
	if err != nil {
		return nil, err
	}

	var matches []*model.Chunk
	for _, c := range chunks {
		if c.Ident == symbol {
			matches = append(matches, c)
		}
	}
	switch {
	case len(matches) == 0:
		return nil, rlmerr.New(rlmerr.NotFound, path, "no symbol named "+symbol)
	case len(matches) > 1:
		return nil, rlmerr.New(rlmerr.Other, path,
			"symbol "+symbol+" is ambiguous across "+strconv.Itoa(len(matches))+" chunks in this file")
	}
	target := matches[0]

	abs := filepath.Join(cfg.ProjectRoot, path)
	source, err := os.ReadFile(abs)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, path, err)
	}
	if target.StartByte > target.EndByte || int(target.EndByte) > len(source) {
		return nil, rlmerr.New(rlmerr.Other, path, "chunk byte range is stale relative to disk contents, re-index first")
	}

	newContents := string(source[:target.StartByte]) + newCode + string(source[target.EndByte:])

	if !ValidateSyntax(f.Lang, newContents) {
		return nil, rlmerr.New(rlmerr.Syntax, path, "replacement produces a file that fails to parse")
	}

	result := &ReplaceResult{
		File:      path,
		Symbol:    symbol,
		StartLine: target.StartLine,
		EndLine:   target.EndLine,
		OldCode:   target.Content,
		NewCode:   newCode,
		Preview:   preview,
	}
	if preview {
		return result, nil
	}

	if err := os.WriteFile(abs, []byte(newContents), 0o644); err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, path, err)
	}
	result.Written = true

	if _, err := indexer.RunWithDB(cfg, db, nil); err != nil {
		return nil, err
	}
	return result, nil
}
