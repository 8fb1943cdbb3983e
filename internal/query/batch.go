package query

import "github.com/mvp-joe/rlm/internal/model"

// BatchHit is one search hit bucketed under its owning file.
type BatchHit struct {
	File string          `json:"f"`
	Kind model.ChunkKind `json:"k"`
	Name string          `json:"n"`
	Line    [2]uint32    `json:"l"`
	Content string       `json:"c"`
}

// BatchResult is the batch operation's full output.
type BatchResult struct {
	Query   string              `json:"q"`
	Results map[string][]BatchHit `json:"r"`
	Tokens  model.TokenEstimate `json:"t"`
}

// Batch runs an FTS search and projects hits into per-file buckets capped
// at perFileLimit, resolving every hit's owning path via a single
// pre-loaded id->path map rather than a per-hit lookup.
func (e *Engine) Batch(queryStr string, perFileLimit int) (*BatchResult, error) {
	idToPath, err := e.fileIDToPath()
	if err != nil {
		return nil, err
	}

	chunks, err := e.DB.SearchFTS(queryStr, 1000)
	if err != nil {
		return nil, err
	}

	results := map[string][]BatchHit{}
	var outChars int
	for _, c := range chunks {
		path := idToPath[c.FileID]
		if len(results[path]) >= perFileLimit {
			continue
		}
		hit := BatchHit{
			File:    path,
			Kind:    c.Kind,
			Name:    c.Ident,
			Line:    [2]uint32{c.StartLine, c.EndLine},
			Content: c.Content,
		}
		results[path] = append(results[path], hit)
		outChars += len(hit.File) + len(hit.Name) + len(hit.Content)
	}

	return &BatchResult{Query: queryStr, Results: results, Tokens: model.EstimateIO(len(queryStr), outChars)}, nil
}
