// Package query implements every read-only operation the command surface
// and tool server expose: search, navigation, and reporting operations
// that read a consistent snapshot from the storage engine (and, where the
// operation names it explicitly, the current on-disk files).
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mvp-joe/rlm/internal/cache"
	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/storage"
)

// Engine is the shared handle every operation function is a method of: the
// open index plus the project config needed to resolve paths and re-walk
// the disk for operations that compare against live files.
type Engine struct {
	DB  *storage.DB
	Cfg *config.Config

	refsCache      *cache.Cache[*RefsResult]
	signatureCache *cache.Cache[*SignatureResult]
	callgraphCache *cache.Cache[*CallgraphResult]
	impactCache    *cache.Cache[*ImpactResult]
}

// New builds an Engine over an already-open index, with a read-through
// cache in front of the identifier-keyed operations (refs, signature,
// callgraph, impact) that a single agent session tends to re-query for
// the same symbol. A failure building any individual cache leaves that
// operation running uncached rather than failing Engine construction —
// caching is a latency optimization, not a correctness dependency.
func New(db *storage.DB, cfg *config.Config) *Engine {
	e := &Engine{DB: db, Cfg: cfg}
	e.refsCache, _ = cache.New[*RefsResult](cache.DefaultCapacity)
	e.signatureCache, _ = cache.New[*SignatureResult](cache.DefaultCapacity)
	e.callgraphCache, _ = cache.New[*CallgraphResult](cache.DefaultCapacity)
	e.impactCache, _ = cache.New[*ImpactResult](cache.DefaultCapacity)
	return e
}

// InvalidateCaches drops every cached identifier-keyed result. Callers
// that re-index while an Engine stays resident (the MCP server, a watch
// loop) must call this afterward, since a stale callgraph or refs answer
// is worse than the cache miss it would otherwise cost.
func (e *Engine) InvalidateCaches() {
	if e.refsCache != nil {
		e.refsCache.Invalidate()
	}
	if e.signatureCache != nil {
		e.signatureCache.Invalidate()
	}
	if e.callgraphCache != nil {
		e.callgraphCache.Invalidate()
	}
	if e.impactCache != nil {
		e.impactCache.Invalidate()
	}
}

// fileIDToPath builds the id->path map that query operations resolving
// many chunks to paths (batch, context, impact, type) pre-load once rather
// than looking up the owning file per hit.
func (e *Engine) fileIDToPath() (map[int64]string, error) {
	files, err := e.DB.GetAllFiles()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(files))
	for _, f := range files {
		out[f.ID] = f.Path
	}
	return out, nil
}

// publicSymbols formats every exported/public chunk of a file as
// "kind:name", the shape map uses for its symbol lists.
func publicSymbols(chunks []*model.Chunk) []string {
	var out []string
	for _, c := range chunks {
		if !isPublic(c) {
			continue
		}
		out = append(out, string(c.Kind)+":"+c.Ident)
	}
	return out
}

// isPublic reports whether a chunk's visibility tag counts as exported,
// treating an absent tag (text/structured chunks, languages with no
// visibility concept) as public by default.
func isPublic(c *model.Chunk) bool {
	if c.Visibility == nil {
		return true
	}
	switch *c.Visibility {
	case "private", "dunder":
		return false
	default:
		return true
	}
}

// describeSymbols builds the "N kind, M kind…" human summary map/summarize
// attach to each file, counting chunks by kind in first-seen order.
func describeSymbols(chunks []*model.Chunk) string {
	counts := map[model.ChunkKind]int{}
	var order []model.ChunkKind
	for _, c := range chunks {
		if c.Ident == model.SyntheticImports {
			continue
		}
		if _, ok := counts[c.Kind]; !ok {
			order = append(order, c.Kind)
		}
		counts[c.Kind]++
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, strconv.Itoa(counts[k])+" "+string(k))
	}
	return strings.Join(parts, ", ")
}

// matchesPathFilter reports whether path satisfies an optional path-prefix
// filter, as used by map/peek/grep/files.
func matchesPathFilter(path, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.HasPrefix(path, filter)
}

func lineCount(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// sortedFiles returns every file record ordered by path, the iteration
// order map/peek/grep all share.
func (e *Engine) sortedFiles(pathFilter string) ([]*model.FileRecord, error) {
	files, err := e.DB.GetAllFiles()
	if err != nil {
		return nil, err
	}
	out := files[:0]
	for _, f := range files {
		if matchesPathFilter(f.Path, pathFilter) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
