package query

import (
	"sort"

	"github.com/mvp-joe/rlm/internal/graph"
)

// CallgraphResult is the callgraph operation's full output: a name-level
// (not type-resolved) view of who calls symbol and what symbol calls.
type CallgraphResult struct {
	Callers []string `json:"ca"`
	Callees []string `json:"ce"`
}

// Callgraph returns the identifiers that call symbol directly (callers)
// and the distinct identifiers symbol calls directly (callees), built
// from a throwaway dominikbraun/graph graph over every call-kind
// reference currently in the index. Matching is by identifier only, per
// the project's explicit non-goal of whole-program, type-resolved call
// graphs.
func (e *Engine) Callgraph(symbol string) (*CallgraphResult, error) {
	if e.callgraphCache != nil {
		if cached, ok := e.callgraphCache.Get(symbol); ok {
			return cached, nil
		}
	}

	cg, err := graph.Build(e.DB)
	if err != nil {
		return nil, err
	}
	result := &CallgraphResult{Callers: cg.Callers(symbol), Callees: cg.Callees(symbol)}

	if e.callgraphCache != nil {
		e.callgraphCache.Set(symbol, result)
	}
	return result, nil
}

// Path returns the shortest call chain from one symbol to another,
// inclusive of both endpoints, or an empty slice if no call chain
// connects them.
func (e *Engine) Path(from, to string) ([]string, error) {
	cg, err := graph.Build(e.DB)
	if err != nil {
		return nil, err
	}
	return cg.Path(from, to), nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
