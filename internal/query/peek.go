package query

import "github.com/mvp-joe/rlm/internal/model"

// PeekSymbol is one chunk's position, with no content, for the
// cheapest-possible progressive-disclosure surface.
type PeekSymbol struct {
	Kind model.ChunkKind `json:"k"`
	Name string          `json:"n"`
	Line uint32          `json:"l"`
}

// PeekFile is one file's symbol outline. Quality is set only when the
// file's last parse was not "complete".
type PeekFile struct {
	Path      string       `json:"p"`
	Lang      string       `json:"l"`
	LineCount int          `json:"lc"`
	Symbols   []PeekSymbol `json:"s"`
	Quality   string       `json:"q,omitempty"`
}

// PeekResult is the peek operation's full output.
type PeekResult struct {
	Files  []PeekFile          `json:"f"`
	Tokens model.TokenEstimate `json:"t"`
}

// Peek lists chunk positions and kinds only, the cheapest surface above
// grep: enough to decide what to read next without paying for content.
func (e *Engine) Peek(pathFilter string) (*PeekResult, error) {
	files, err := e.sortedFiles(pathFilter)
	if err != nil {
		return nil, err
	}

	out := make([]PeekFile, 0, len(files))
	var outChars int
	for _, f := range files {
		chunks, err := e.DB.GetChunksForFile(f.ID)
		if err != nil {
			return nil, err
		}
		pf := PeekFile{Path: f.Path, Lang: f.Lang, LineCount: fileLineCount(chunks)}
		if f.ParseQuality != "complete" {
			pf.Quality = f.ParseQuality
		}
		for _, c := range chunks {
			if c.Ident == model.SyntheticImports {
				continue
			}
			pf.Symbols = append(pf.Symbols, PeekSymbol{Kind: c.Kind, Name: c.Ident, Line: c.StartLine})
			outChars += len(c.Ident) + len(c.Kind)
		}
		out = append(out, pf)
		outChars += len(pf.Path) + len(pf.Lang)
	}

	return &PeekResult{Files: out, Tokens: model.EstimateIO(0, outChars)}, nil
}
