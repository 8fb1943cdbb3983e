package query

// SignatureResult is the signature operation's full output: the distinct
// signature strings a symbol has across every place it's defined, plus how
// many references target it in total.
type SignatureResult struct {
	Signatures []string `json:"s"`
	RefCount   int      `json:"t"`
}

// Signature returns every distinct signature recorded for symbol (a name
// may be defined in more than one place, e.g. overloads or trait impls)
// together with its total reference count.
func (e *Engine) Signature(symbol string) (*SignatureResult, error) {
	if e.signatureCache != nil {
		if cached, ok := e.signatureCache.Get(symbol); ok {
			return cached, nil
		}
	}

	chunks, err := e.DB.GetChunksByIdent(symbol)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var sigs []string
	for _, c := range chunks {
		if c.Signature == nil || seen[*c.Signature] {
			continue
		}
		seen[*c.Signature] = true
		sigs = append(sigs, *c.Signature)
	}

	refs, err := e.DB.GetRefsTo(symbol)
	if err != nil {
		return nil, err
	}

	result := &SignatureResult{Signatures: sigs, RefCount: len(refs)}

	if e.signatureCache != nil {
		e.signatureCache.Set(symbol, result)
	}
	return result, nil
}
