package query

import "github.com/mvp-joe/rlm/internal/model"

// RefHit is one reference targeting the queried identifier.
type RefHit struct {
	Kind    model.RefKind `json:"k"`
	Line    uint32        `json:"l"`
	Col     uint32        `json:"c"`
	ChunkID int64         `json:"ch"`
}

// RefsResult is the refs operation's full output.
type RefsResult struct {
	Refs  []RefHit `json:"r"`
	Total int      `json:"t"`
}

// Refs returns every reference across the repository targeting symbol.
func (e *Engine) Refs(symbol string) (*RefsResult, error) {
	if e.refsCache != nil {
		if cached, ok := e.refsCache.Get(symbol); ok {
			return cached, nil
		}
	}

	refs, err := e.DB.GetRefsTo(symbol)
	if err != nil {
		return nil, err
	}
	out := make([]RefHit, 0, len(refs))
	for _, r := range refs {
		out = append(out, RefHit{Kind: r.RefKind, Line: r.Line, Col: r.Col, ChunkID: r.ChunkID})
	}
	result := &RefsResult{Refs: out, Total: len(out)}

	if e.refsCache != nil {
		e.refsCache.Set(symbol, result)
	}
	return result, nil
}
