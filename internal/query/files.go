package query

import (
	"sort"

	"github.com/mvp-joe/rlm/internal/scanner"
)

// FilesFilter narrows the files operation's result set.
type FilesFilter struct {
	PathPrefix   string
	SkippedOnly  bool // present on disk but not in the index
	IndexedOnly  bool // in the index regardless of disk presence
}

// FileEntry is one path in the files operation's union view.
type FileEntry struct {
	Path    string `json:"p"`
	Indexed bool   `json:"i"`
	Lang    string `json:"l,omitempty"`
}

// FilesResult is the files operation's full output.
type FilesResult struct {
	Files []FileEntry `json:"f"`
}

// Files returns the union of every indexed file (from storage) and every
// file currently present on disk (from a fresh scan), each tagged with
// whether it's indexed, honoring filter's path_prefix/skipped_only/
// indexed_only narrowing.
func (e *Engine) Files(filter FilesFilter) (*FilesResult, error) {
	indexed, err := e.DB.GetAllFiles()
	if err != nil {
		return nil, err
	}
	indexedByPath := make(map[string]string, len(indexed))
	for _, f := range indexed {
		indexedByPath[f.Path] = f.Lang
	}

	candidates, err := scanner.Walk(e.Cfg)
	if err != nil {
		return nil, err
	}
	onDisk := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.Skip == scanner.SkipNone || c.Skip == scanner.SkipUnsupportedExtension {
			onDisk[c.RelPath] = true
		}
	}

	seen := map[string]bool{}
	var out []FileEntry
	for path, lang := range indexedByPath {
		seen[path] = true
		if !matchesPathFilter(path, filter.PathPrefix) {
			continue
		}
		if filter.SkippedOnly {
			continue
		}
		out = append(out, FileEntry{Path: path, Indexed: true, Lang: lang})
	}
	if !filter.IndexedOnly {
		for path := range onDisk {
			if seen[path] {
				continue
			}
			if !matchesPathFilter(path, filter.PathPrefix) {
				continue
			}
			out = append(out, FileEntry{Path: path, Indexed: false})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return &FilesResult{Files: out}, nil
}
