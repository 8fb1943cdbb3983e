package query

import "github.com/mvp-joe/rlm/internal/model"

// SearchHit is one FTS match.
type SearchHit struct {
	ChunkID int64           `json:"id"`
	Kind    model.ChunkKind `json:"k"`
	Name    string          `json:"n"`
	Line    [2]uint32       `json:"l"`
	Content string          `json:"c"`
}

// SearchResult is the search operation's full output.
type SearchResult struct {
	Results []SearchHit         `json:"r"`
	Tokens  model.TokenEstimate `json:"t"`
}

// Search runs an FTS query over the chunks mirror, best match first,
// capped at limit.
func (e *Engine) Search(queryStr string, limit int) (*SearchResult, error) {
	chunks, err := e.DB.SearchFTS(queryStr, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchHit, 0, len(chunks))
	var outChars int
	for _, c := range chunks {
		hit := SearchHit{
			ChunkID: c.ID,
			Kind:    c.Kind,
			Name:    c.Ident,
			Line:    [2]uint32{c.StartLine, c.EndLine},
			Content: c.Content,
		}
		results = append(results, hit)
		outChars += len(hit.Name) + len(hit.Content)
	}

	return &SearchResult{Results: results, Tokens: model.EstimateIO(len(queryStr), outChars)}, nil
}
