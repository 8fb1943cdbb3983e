// Package scanner walks a project tree and classifies each file by
// extension, the way indexer.rs's walk loop decides what to hand to the
// code/text extractors versus what to skip.
package scanner

import "strings"

// extToLang maps a lowercased file extension (without the dot) to the
// language identifier used throughout the index (parser dispatch, the
// files table's lang column, the supported-languages query).
var extToLang = map[string]string{
	"rs":    "rust",
	"go":    "go",
	"java":  "java",
	"cs":    "csharp",
	"py":    "python",
	"pyi":   "python",
	"php":   "php",
	"js":    "javascript",
	"jsx":   "javascript",
	"mjs":   "javascript",
	"cjs":   "javascript",
	"ts":    "typescript",
	"tsx":   "tsx",
	"html":  "html",
	"htm":   "html",
	"css":   "css",
	"md":    "markdown",
	"markdown": "markdown",
	"pdf":   "pdf",
	"json":  "json",
	"yaml":  "yaml",
	"yml":   "yaml",
	"toml":  "toml",
	"txt":   "plaintext",
}

// codeLanguages is the subset of languages handled by the tree-sitter
// parser framework rather than the text/structured extractors.
var codeLanguages = map[string]bool{
	"rust": true, "go": true, "java": true, "csharp": true,
	"python": true, "php": true, "javascript": true, "typescript": true,
	"tsx": true, "html": true, "css": true,
}

// LanguageForPath resolves the language identifier for path, honoring any
// custom extension mappings a project's config supplies. Returns "" for
// extensions rlm does not recognize.
func LanguageForPath(path string, customMappings map[string]string) string {
	ext := extension(path)
	if ext == "" {
		return ""
	}
	if custom, ok := customMappings[ext]; ok {
		return custom
	}
	if lang, ok := extToLang[ext]; ok {
		return lang
	}
	return ""
}

// IsCodeLanguage reports whether lang is parsed by the tree-sitter
// extractor framework (as opposed to a text/structured extractor).
func IsCodeLanguage(lang string) bool {
	return codeLanguages[lang]
}

// SupportedLanguages returns every language identifier rlm can index, for
// the `supported` query operation.
func SupportedLanguages() []string {
	seen := map[string]bool{}
	var out []string
	for _, lang := range extToLang {
		if !seen[lang] {
			seen[lang] = true
			out = append(out, lang)
		}
	}
	return out
}

func extension(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[idx+1:])
}
