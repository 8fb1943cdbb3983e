package query

import (
	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// SymbolSummary is one chunk's manifest entry.
type SymbolSummary struct {
	Kind       model.ChunkKind `json:"k"`
	Name       string          `json:"n"`
	Signature  *string         `json:"sig,omitempty"`
	Visibility *string         `json:"v,omitempty"`
	LineCount  int             `json:"lc"`
}

// Summary is the summarize operation's per-file manifest.
type Summary struct {
	File                string              `json:"f"`
	Lang                string              `json:"l"`
	LineCount           int                 `json:"lc"`
	Symbols             []SymbolSummary     `json:"s"`
	Description         string              `json:"d"`
	FallbackRecommended bool                `json:"fallback_recommended,omitempty"`
	Tokens              model.TokenEstimate `json:"t"`
}

// Summarize produces a single file's manifest: language, line count, every
// symbol with its signature/visibility/line-count, and a human description.
func (e *Engine) Summarize(path string) (*Summary, error) {
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

	symbols := make([]SymbolSummary, 0, len(chunks))
	var outChars int
	for _, c := range chunks {
		if c.Ident == model.SyntheticImports {
			continue
		}
		sym := SymbolSummary{Kind: c.Kind, Name: c.Ident, Signature: c.Signature, Visibility: c.Visibility, LineCount: int(c.LineCount())}
		symbols = append(symbols, sym)
		outChars += len(sym.Name)
		if sym.Signature != nil {
			outChars += len(*sym.Signature)
		}
	}

	return &Summary{
		File:                f.Path,
		Lang:                f.Lang,
		LineCount:           fileLineCount(chunks),
		Symbols:             symbols,
		Description:         describeSymbols(chunks),
		FallbackRecommended: f.ParseQuality != "complete",
		Tokens:              model.EstimateIO(0, outChars),
	}, nil
}
