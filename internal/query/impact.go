package query

import "github.com/mvp-joe/rlm/internal/model"

// ImpactHit is one reference to the queried symbol, with its containing
// symbol resolved so a caller can see blast radius without a second query.
type ImpactHit struct {
	File             string        `json:"f"`
	ContainingSymbol string        `json:"cs"`
	Line             uint32        `json:"l"`
	RefKind          model.RefKind `json:"k"`
}

// ImpactResult is the impact operation's full output.
type ImpactResult struct {
	Symbol  string              `json:"sym"`
	Hits    []ImpactHit         `json:"h"`
	Tokens  model.TokenEstimate `json:"t"`
}

// Impact returns every reference to symbol across the repository, each
// resolved to its owning file and containing symbol, for "what breaks if I
// change this" surveys.
func (e *Engine) Impact(symbol string) (*ImpactResult, error) {
	if e.impactCache != nil {
		if cached, ok := e.impactCache.Get(symbol); ok {
			return cached, nil
		}
	}

	idToPath, err := e.fileIDToPath()
	if err != nil {
		return nil, err
	}

	refs, err := e.DB.GetRefsTo(symbol)
	if err != nil {
		return nil, err
	}

	hits := make([]ImpactHit, 0, len(refs))
	var outChars int
	for _, r := range refs {
		c, err := e.DB.GetChunkByID(r.ChunkID)
		if err != nil {
			return nil, err
		}
		hit := ImpactHit{Line: r.Line, RefKind: r.RefKind}
		if c != nil {
			hit.File = idToPath[c.FileID]
			hit.ContainingSymbol = c.Ident
		}
		hits = append(hits, hit)
		outChars += len(hit.File) + len(hit.ContainingSymbol)
	}

	result := &ImpactResult{Symbol: symbol, Hits: hits, Tokens: model.EstimateIO(len(symbol), outChars)}

	if e.impactCache != nil {
		e.impactCache.Set(symbol, result)
	}
	return result, nil
}
