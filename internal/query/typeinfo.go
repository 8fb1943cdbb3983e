package query

import (
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// TypeResult is the type operation's full output: one representative
// chunk for symbol, picked when it's defined in more than one place.
type TypeResult struct {
	File      string          `json:"f"`
	Kind      model.ChunkKind `json:"k"`
	Signature *string         `json:"sig,omitempty"`
	Content   string          `json:"c"`
	Line      [2]uint32       `json:"l"`
}

// Type returns one representative chunk for symbol, preferring a
// definition under src/ over one elsewhere, and preferring anything over a
// fixture or test definition, per the operation's priority rule
// (src/ > other > fixtures|test).
func (e *Engine) Type(symbol string) (*TypeResult, error) {
	idToPath, err := e.fileIDToPath()
	if err != nil {
		return nil, err
	}

	chunks, err := e.DB.GetChunksByIdent(symbol)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, rlmerr.New(rlmerr.NotFound, "", "no symbol named "+symbol)
	}

	best := chunks[0]
	bestPath := idToPath[best.FileID]
	bestRank := pathRank(bestPath)
	for _, c := range chunks[1:] {
		path := idToPath[c.FileID]
		rank := pathRank(path)
		if rank < bestRank {
			best, bestPath, bestRank = c, path, rank
		}
	}

	return &TypeResult{
		File:      bestPath,
		Kind:      best.Kind,
		Signature: best.Signature,
		Content:   best.Content,
		Line:      [2]uint32{best.StartLine, best.EndLine},
	}, nil
}

// pathRank orders candidate definitions src/ first, fixtures/test last,
// everything else in between.
func pathRank(path string) int {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "src/") || strings.Contains(lower, "/src/"):
		return 0
	case strings.Contains(lower, "fixture") || strings.Contains(lower, "test"):
		return 2
	default:
		return 1
	}
}
