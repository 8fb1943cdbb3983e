// Package edit implements the two syntax-gated write primitives the
// command surface and tool server expose: replace and insert. Both
// compute the proposed file contents in memory, validate them against
// the file's language parser, and only then perform the write — never
// write first and validate after.
package edit

import (
	"github.com/mvp-joe/rlm/internal/parsers"
	"github.com/mvp-joe/rlm/internal/scanner"
)

// ValidateSyntax reports whether contents parses without ERROR nodes for
// lang. Text/structured languages have no tree-sitter grammar and accept
// any content, the same default the language-configuration trait gives
// non-code formats.
func ValidateSyntax(lang, contents string) bool {
	if !scanner.IsCodeLanguage(lang) {
		return true
	}
	parser, ok := parsers.ForLanguage(lang)
	if !ok {
		return true
	}
	return parser.ValidateSyntax(contents)
}
