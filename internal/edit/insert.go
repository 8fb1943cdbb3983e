package edit

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/indexer"
	"github.com/mvp-joe/rlm/internal/rlmerr"
	"github.com/mvp-joe/rlm/internal/storage"
)

// Position is a parsed insert position: top, bottom, before:N, or after:N
// (N is 1-based).
type Position struct {
	Kind string // "top" | "bottom" | "before" | "after"
	Line uint32
	Raw  string
}

// ParsePosition parses the position flag syntax accepted by the insert
// operation.
func ParsePosition(s string) (Position, error) {
	switch {
	case s == "top":
		return Position{Kind: "top", Raw: s}, nil
	case s == "bottom":
		return Position{Kind: "bottom", Raw: s}, nil
	case strings.HasPrefix(s, "before:"):
		n, err := strconv.ParseUint(strings.TrimPrefix(s, "before:"), 10, 32)
		if err != nil {
			return Position{}, rlmerr.New(rlmerr.Other, "", "invalid position "+s)
		}
		return Position{Kind: "before", Line: uint32(n), Raw: s}, nil
	case strings.HasPrefix(s, "after:"):
		n, err := strconv.ParseUint(strings.TrimPrefix(s, "after:"), 10, 32)
		if err != nil {
			return Position{}, rlmerr.New(rlmerr.Other, "", "invalid position "+s)
		}
		return Position{Kind: "after", Line: uint32(n), Raw: s}, nil
	default:
		return Position{}, rlmerr.New(rlmerr.Other, "", "invalid position "+s)
	}
}

// InsertResult is the insert operation's full output.
type InsertResult struct {
	File     string `json:"f"`
	Position string `json:"pos"`
	Written  bool   `json:"w"`
}

// Insert splices code at the byte offset corresponding to pos
// (line-delimited: top prepends, bottom appends, before:N/after:N splice
// immediately before/after line N), validates the result parses, then
// writes and schedules a re-index.
func Insert(cfg *config.Config, db *storage.DB, path string, pos Position, code string) (*InsertResult, error) {
	f, err := db.GetFileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, rlmerr.New(rlmerr.NotFound, path, "file not indexed")
	}

	abs := filepath.Join(cfg.ProjectRoot, path)
	source, err := os.ReadFile(abs)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, path, err)
	}

	offsets := lineStartOffsets(source)
	lineCount := len(offsets)

	insertion := code
	if !strings.HasSuffix(insertion, "\n") {
		insertion += "\n"
	}

	var newContents string
	switch pos.Kind {
	case "top":
		newContents = insertion + string(source)
	case "bottom":
		if len(source) > 0 && source[len(source)-1] != '\n' {
			newContents = string(source) + "\n" + insertion
		} else {
			newContents = string(source) + insertion
		}
	case "before":
		if pos.Line < 1 || int(pos.Line) > lineCount {
			return nil, rlmerr.New(rlmerr.Other, path, "line out of range")
		}
		offset := offsets[pos.Line-1]
		newContents = string(source[:offset]) + insertion + string(source[offset:])
	case "after":
		if pos.Line < 1 || int(pos.Line) > lineCount {
			return nil, rlmerr.New(rlmerr.Other, path, "line out of range")
		}
		var offset int
		if int(pos.Line) < lineCount {
			offset = offsets[pos.Line]
		} else {
			offset = len(source)
		}
		newContents = string(source[:offset]) + insertion + string(source[offset:])
	default:
		return nil, rlmerr.New(rlmerr.Other, path, "invalid position "+pos.Raw)
	}

	if !ValidateSyntax(f.Lang, newContents) {
		return nil, rlmerr.New(rlmerr.Syntax, path, "insertion produces a file that fails to parse")
	}

	if err := os.WriteFile(abs, []byte(newContents), 0o644); err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, path, err)
	}

	if _, err := indexer.RunWithDB(cfg, db, nil); err != nil {
		return nil, err
	}

	return &InsertResult{File: path, Position: pos.Raw, Written: true}, nil
}

// lineStartOffsets returns the byte offset at which each 1-based line of
// source begins (offsets[0] is always 0).
func lineStartOffsets(source []byte) []int {
	offsets := []int{0}
	for i, b := range source {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
