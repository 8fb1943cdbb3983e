package query

import "github.com/mvp-joe/rlm/internal/model"

// ContextChunk is one definition site of the queried symbol, full body
// included.
type ContextChunk struct {
	File      string          `json:"f"`
	Kind      model.ChunkKind `json:"k"`
	Signature *string         `json:"sig,omitempty"`
	Content   string          `json:"c"`
	Line      [2]uint32       `json:"l"`
}

// ContextResult is the context operation's full output: every definition
// body for symbol, its total caller count, and the deduplicated names it
// calls out to.
type ContextResult struct {
	Symbol      string              `json:"sym"`
	Chunks      []ContextChunk      `json:"ch"`
	CallerCount int                 `json:"cac"`
	Callees     []string            `json:"ce"`
	Tokens      model.TokenEstimate `json:"t"`
}

// Context gathers everything an agent needs to understand symbol without a
// separate read: its definition bodies, how many places call it, and what
// it calls out to.
func (e *Engine) Context(symbol string) (*ContextResult, error) {
	idToPath, err := e.fileIDToPath()
	if err != nil {
		return nil, err
	}

	chunks, err := e.DB.GetChunksByIdent(symbol)
	if err != nil {
		return nil, err
	}

	out := make([]ContextChunk, 0, len(chunks))
	calleeSet := map[string]bool{}
	var outChars int
	for _, c := range chunks {
		out = append(out, ContextChunk{
			File:      idToPath[c.FileID],
			Kind:      c.Kind,
			Signature: c.Signature,
			Content:   c.Content,
			Line:      [2]uint32{c.StartLine, c.EndLine},
		})
		outChars += len(c.Content)

		refs, err := e.DB.GetRefsFromChunk(c.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range refs {
			if r.RefKind == model.RefCall {
				calleeSet[r.TargetIdent] = true
			}
		}
	}

	callers, err := e.DB.GetRefsTo(symbol)
	if err != nil {
		return nil, err
	}

	callees := sortedKeys(calleeSet)

	return &ContextResult{
		Symbol:      symbol,
		Chunks:      out,
		CallerCount: len(callers),
		Callees:     callees,
		Tokens:      model.EstimateIO(len(symbol), outChars),
	}, nil
}
