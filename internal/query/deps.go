package query

import (
	"sort"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// DepsResult is the deps operation's full output: every distinct import
// target a file references, sorted.
type DepsResult struct {
	File string   `json:"f"`
	Deps []string `json:"d"`
}

// Deps returns the sorted, deduplicated target identifiers of every
// import-kind reference inside path, computed from the single file-level
// refs query (no per-chunk fan-out).
func (e *Engine) Deps(path string) (*DepsResult, error) {
	f, err := e.DB.GetFileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, rlmerr.New(rlmerr.NotFound, path, "file not indexed")
	}

	refs, err := e.DB.GetRefsForFile(f.ID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var deps []string
	for _, r := range refs {
		if r.RefKind != model.RefImport || seen[r.TargetIdent] {
			continue
		}
		seen[r.TargetIdent] = true
		deps = append(deps, r.TargetIdent)
	}
	sort.Strings(deps)

	return &DepsResult{File: path, Deps: deps}, nil
}
