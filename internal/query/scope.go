package query

import "github.com/mvp-joe/rlm/internal/rlmerr"

// ScopeResult is the scope operation's full output: what's active at a
// given line of a file.
type ScopeResult struct {
	File       string   `json:"f"`
	Line       uint32   `json:"l"`
	Containing []string `json:"co"` // "kind:name" chunks whose range includes Line
	Visible    []string `json:"v"`  // "kind:name" chunks starting at or before Line
}

// Scope reports which chunks contain line and which chunks are visible
// (declared) by that point in the file, the two views an editor-like agent
// needs to know what it can reference without reading the whole file.
func (e *Engine) Scope(path string, line uint32) (*ScopeResult, error) {
	f, err := e.DB.GetFileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, rlmerr.New(rlmerr.NotFound, path, "file not indexed")
	}

	chunks, err := e.DB.GetChunksForFile(f.ID)
	if err != nil {
		return nil, err
	}

	var containing, visible []string
	for _, c := range chunks {
		label := string(c.Kind) + ":" + c.Ident
		if c.Contains(line) {
			containing = append(containing, label)
		}
		if c.StartLine <= line {
			visible = append(visible, label)
		}
	}

	return &ScopeResult{File: path, Line: line, Containing: containing, Visible: visible}, nil
}
