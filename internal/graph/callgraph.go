// Package graph builds a throwaway, name-level call graph from the
// chunks/refs tables for one callgraph or path query, the way
// internal/graph/searcher.go builds an in-memory dominikbraun/graph.Graph
// from its own storage layer on every Reload. Nothing here is persisted:
// the storage engine remains the sole owner of persistent state, and the
// graph here is rebuilt fresh per call rather than kept across queries.
package graph

import (
	"sort"

	dgraph "github.com/dominikbraun/graph"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/storage"
)

// CallGraph is a directed, name-level (not type-resolved) graph: vertices
// are identifiers, edges are call-kind references from the identifier of
// the chunk the call occurs in to the identifier it targets. Matching a
// reference's target text against chunk idents is the project's explicit
// non-goal boundary short of whole-program, type-resolved call graphs.
type CallGraph struct {
	g dgraph.Graph[string, string]
}

// Build constructs a CallGraph from every chunk and call-kind reference
// currently in db.
func Build(db *storage.DB) (*CallGraph, error) {
	chunks, err := db.GetAllChunks()
	if err != nil {
		return nil, err
	}

	g := dgraph.New(dgraph.StringHash, dgraph.Directed())
	for _, c := range chunks {
		_ = g.AddVertex(c.Ident)
	}

	for _, c := range chunks {
		refs, err := db.GetRefsFromChunk(c.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range refs {
			if r.RefKind != model.RefCall {
				continue
			}
			_ = g.AddVertex(r.TargetIdent)
			_ = g.AddEdge(c.Ident, r.TargetIdent)
		}
	}

	return &CallGraph{g: g}, nil
}

// Callees returns the distinct, sorted identifiers symbol calls directly.
func (cg *CallGraph) Callees(symbol string) []string {
	adj, err := cg.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	return sortedVertexKeys(adj[symbol])
}

// Callers returns the distinct, sorted identifiers that call symbol
// directly.
func (cg *CallGraph) Callers(symbol string) []string {
	pred, err := cg.g.PredecessorMap()
	if err != nil {
		return nil
	}
	return sortedVertexKeys(pred[symbol])
}

// Path returns the shortest call chain from -> to (inclusive of both
// endpoints), or nil if no such chain exists.
func (cg *CallGraph) Path(from, to string) []string {
	path, err := dgraph.ShortestPath(cg.g, from, to)
	if err != nil {
		return nil
	}
	return path
}

func sortedVertexKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
