// Package parsers implements the tree-sitter-based code extractor
// framework: a single generic BaseParser driven by a per-language
// LanguageConfig, the way base.rs's BaseParser<C: LanguageConfig> drives
// rlm-cli's language-specific parsers.
package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/rlm/internal/model"
)

// ChunkCaptureResult is what a LanguageConfig reports when it recognizes a
// chunk-query capture: either the symbol's name/kind, or (when
// IsDefinitionNode is true) a signal that this capture's node is the chunk's
// definition node, whose extent becomes the chunk's byte/line range.
type ChunkCaptureResult struct {
	Name             string
	Kind             model.ChunkKind
	IsDefinitionNode bool
}

// LanguageConfig parameterizes BaseParser over one tree-sitter grammar.
// Every method mirrors a method on base.rs's LanguageConfig trait.
type LanguageConfig interface {
	Language() *sitter.Language
	ChunkQuery() *sitter.Query
	RefQuery() *sitter.Query
	LanguageName() string

	// MapChunkCapture maps a chunk-query capture name to chunk info, or
	// reports ok=false when the capture should be ignored.
	MapChunkCapture(captureName, text string) (ChunkCaptureResult, bool)

	// MapRefCapture maps a ref-query capture name (and its captured text,
	// needed e.g. to tell a PascalCase JSX component from a lowercase HTML
	// tag) to a RefKind, or reports ok=false when the capture should be
	// ignored.
	MapRefCapture(captureName, text string) (model.RefKind, bool)

	// SplitRefTargets turns one capture's raw text into the target
	// identifier(s) it records a reference to. Most captures produce exactly
	// one target; HTML's class attribute produces one per space-separated
	// class name. The default (baseConfig) returns text unchanged as a
	// single-element slice.
	SplitRefTargets(captureName, text string) []string

	// ExtractVisibility inspects the definition node (and, when it needs to
	// look outward — e.g. a wrapping export_statement — its ancestors) plus
	// its source text to report a visibility tag.
	ExtractVisibility(node *sitter.Node, content string) *string
	ExtractSignature(content string, kind model.ChunkKind) *string
	FindParent(node *sitter.Node, source []byte) *string
	CollectDocComment(node *sitter.Node, source []byte) *string
	CollectAttributes(node *sitter.Node, source []byte) *string

	// ImportCaptureName is the chunk-query capture name that marks an
	// import/use declaration, folded into a single synthetic _imports chunk
	// instead of emitted individually.
	ImportCaptureName() string

	// NeedsDeduplication reports whether this grammar's chunk query can
	// match the same definition more than once (seen by name+start_line).
	NeedsDeduplication() bool

	// PostProcessChunks runs after the initial extraction pass, letting a
	// config append derived chunks (e.g. methods pulled out of a class body).
	PostProcessChunks(chunks *[]*model.Chunk, tree *sitter.Tree, source []byte, fileID int64)

	// ShouldSkipFunction reports whether a would-be chunk should be dropped
	// (e.g. a method already captured by PostProcessChunks).
	ShouldSkipFunction(kind model.ChunkKind, parent *string) bool
}

// baseConfig gives LanguageConfig implementations sane no-op defaults for
// the optional hooks, the way base.rs gives LanguageConfig trait methods
// default bodies.
type baseConfig struct{}

func (baseConfig) NeedsDeduplication() bool { return false }

func (baseConfig) SplitRefTargets(_, text string) []string { return []string{text} }

func (baseConfig) PostProcessChunks(*[]*model.Chunk, *sitter.Tree, []byte, int64) {}

func (baseConfig) ShouldSkipFunction(model.ChunkKind, *string) bool { return false }
