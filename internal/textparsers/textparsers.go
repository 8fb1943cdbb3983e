// Package textparsers extracts chunks from the non-code languages rlm
// indexes by structure rather than grammar: markdown headings, PDF text
// pages, and nested-key structured documents (JSON/YAML/TOML), falling
// back to a single whole-file chunk for plaintext. None of these produce
// references; the indexer only calls Parse for a text-language file.
package textparsers

import "github.com/mvp-joe/rlm/internal/model"

// Parse dispatches to the extractor registered for lang, or to the
// plaintext fallback when lang is unrecognized.
func Parse(lang, source string, fileID int64) []*model.Chunk {
	switch lang {
	case "markdown":
		return ParseMarkdown(source, fileID)
	case "pdf":
		return ParsePDF(source, fileID)
	case "json":
		return ParseJSON(source, fileID)
	case "yaml":
		return ParseYAML(source, fileID)
	case "toml":
		return ParseTOML(source, fileID)
	default:
		return ParsePlaintext(source, fileID)
	}
}
