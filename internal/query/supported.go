package query

import "sort"

// SupportedEntry is one extension's parser coverage.
type SupportedEntry struct {
	Extension string `json:"ext"`
	Lang      string `json:"l"`
	Tier      string `json:"tier"` // tree-sitter | structural | semantic | plaintext
}

// SupportedResult is the supported operation's full output.
type SupportedResult struct {
	Entries []SupportedEntry `json:"e"`
}

// tierByLang classifies each recognized language's parser tier: tree-sitter
// grammar, structural (markdown/PDF heading/page splitting), semantic
// (JSON/YAML/TOML key-path chunking), or plaintext fallback.
var tierByLang = map[string]string{
	"rust": "tree-sitter", "go": "tree-sitter", "java": "tree-sitter",
	"csharp": "tree-sitter", "python": "tree-sitter", "php": "tree-sitter",
	"javascript": "tree-sitter", "typescript": "tree-sitter", "tsx": "tree-sitter",
	"html": "tree-sitter", "css": "tree-sitter",
	"markdown": "structural", "pdf": "structural",
	"json": "semantic", "yaml": "semantic", "toml": "semantic",
	"plaintext": "plaintext",
}

// extByLang lists every extension mapped to a language tag, the inverse of
// scanner's extToLang table kept local so this operation doesn't need to
// export scanner's internal map.
var extByLang = map[string][]string{
	"rust": {"rs"}, "go": {"go"}, "java": {"java"}, "csharp": {"cs"},
	"python": {"py", "pyi"}, "php": {"php"},
	"javascript": {"js", "jsx", "mjs", "cjs"}, "typescript": {"ts"}, "tsx": {"tsx"},
	"html": {"html", "htm"}, "css": {"css"},
	"markdown": {"md", "markdown"}, "pdf": {"pdf"},
	"json": {"json"}, "yaml": {"yaml", "yml"}, "toml": {"toml"},
	"plaintext": {"txt"},
}

// Supported enumerates every extension rlm recognizes with its language
// and parser tier, so a caller can tell a grammar-backed language from a
// heuristic one before choosing which operation to spend tokens on.
func (e *Engine) Supported() *SupportedResult {
	var out []SupportedEntry
	for lang, exts := range extByLang {
		tier := tierByLang[lang]
		for _, ext := range exts {
			out = append(out, SupportedEntry{Extension: ext, Lang: lang, Tier: tier})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Extension < out[j].Extension })
	return &SupportedResult{Entries: out}
}
