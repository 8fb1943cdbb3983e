package query

import "github.com/mvp-joe/rlm/internal/model"

// PatternHit is one FTS match projected to its structural shape rather
// than its full content, for scanning many candidates cheaply.
type PatternHit struct {
	Kind      model.ChunkKind `json:"k"`
	Name      string          `json:"n"`
	Signature *string         `json:"sig,omitempty"`
	LineCount int             `json:"lc"`
}

// PatternsResult is the patterns operation's full output.
type PatternsResult struct {
	Hits   []PatternHit        `json:"h"`
	Tokens model.TokenEstimate `json:"t"`
}

// Patterns runs an FTS query the same way search does but projects hits to
// their structural shape (kind, name, signature, line count) instead of
// full content, for a caller scanning for a naming or signature pattern
// across many candidates without paying for every body.
func (e *Engine) Patterns(queryStr string) (*PatternsResult, error) {
	chunks, err := e.DB.SearchFTS(queryStr, 1000)
	if err != nil {
		return nil, err
	}

	hits := make([]PatternHit, 0, len(chunks))
	var outChars int
	for _, c := range chunks {
		hit := PatternHit{Kind: c.Kind, Name: c.Ident, Signature: c.Signature, LineCount: int(c.LineCount())}
		hits = append(hits, hit)
		outChars += len(hit.Name)
		if hit.Signature != nil {
			outChars += len(*hit.Signature)
		}
	}

	return &PatternsResult{Hits: hits, Tokens: model.EstimateIO(len(queryStr), outChars)}, nil
}
