package parsers

import "sync"

var (
	registryOnce sync.Once
	registry     map[string]func() CodeParser
)

func buildRegistry() map[string]func() CodeParser {
	return map[string]func() CodeParser{
		"rust":       NewRustParser,
		"go":         NewGoParser,
		"java":       NewJavaParser,
		"csharp":     NewCSharpParser,
		"python":     NewPythonParser,
		"php":        NewPhpParser,
		"javascript": NewJavaScriptParser,
		"typescript": NewTypeScriptParser,
		"tsx":        NewTSXParser,
		"html":       NewHTMLParser,
		"css":        NewCSSParser,
	}
}

// ForLanguage returns a fresh CodeParser for lang, or ok=false if lang has
// no tree-sitter grammar registered. Parsers are built per call (tree-sitter
// Parser/Query state is not safe to share across concurrent files).
func ForLanguage(lang string) (CodeParser, bool) {
	registryOnce.Do(func() { registry = buildRegistry() })
	ctor, ok := registry[lang]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// SupportedLanguages returns every language tag with a registered parser.
func SupportedLanguages() []string {
	registryOnce.Do(func() { registry = buildRegistry() })
	out := make([]string, 0, len(registry))
	for lang := range registry {
		out = append(out, lang)
	}
	return out
}
