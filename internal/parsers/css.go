package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	css "github.com/tree-sitter/tree-sitter-css/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const cssChunkQuerySrc = `
    (rule_set
        (selectors) @rule_name) @rule_def

    (keyframes_statement
        (keyframes_name) @keyframes_name) @keyframes_def

    (media_statement) @media_def

    (import_statement) @import_decl
`

const cssRefQuerySrc = `
    (class_selector (class_name) @class_ref)
    (id_selector (id_name) @id_ref)
    (tag_name) @element_ref
    (call_expression (function_name) @fn_ref)
`

// cssConfig grounds the CSS LanguageConfig on css.rs: rule blocks keyed by
// selector text, with @media/@keyframes as their own chunks.
type cssConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewCSSParser builds the CodeParser for CSS source.
func NewCSSParser() CodeParser {
	lang := sitter.NewLanguage(css.Language())
	return NewBaseParser(&cssConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, cssChunkQuerySrc, "CSS chunk"),
		refQuery:   compileQuery(lang, cssRefQuerySrc, "CSS ref"),
	})
}

func (c *cssConfig) Language() *sitter.Language { return c.lang }
func (c *cssConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *cssConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *cssConfig) LanguageName() string        { return "css" }
func (c *cssConfig) ImportCaptureName() string   { return "import_decl" }
func (c *cssConfig) NeedsDeduplication() bool    { return true }

func (c *cssConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "rule_name":
		return ChunkCaptureResult{Name: strings.TrimSpace(text), Kind: model.ChunkKind("rule")}, true
	case "keyframes_name":
		return ChunkCaptureResult{Name: text, Kind: model.ChunkKind("keyframes")}, true
	case "rule_def", "keyframes_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	case "media_def":
		return ChunkCaptureResult{Name: "@media", Kind: model.ChunkKind("media"), IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

func (c *cssConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "class_ref", "id_ref", "element_ref":
		return model.RefTypeUse, true
	case "fn_ref":
		return model.RefCall, true
	default:
		return "", false
	}
}

func (c *cssConfig) ExtractVisibility(*sitter.Node, string) *string { return nil }

func (c *cssConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	if idx := strings.IndexByte(content, '{'); idx >= 0 {
		return strPtr(strings.TrimSpace(content[:idx]))
	}
	return strPtr(strings.TrimSpace(content))
}

// FindParent reports "@media" for a rule nested inside an @media block, nil
// otherwise; CSS has no other nesting worth tracking as a parent.
func (c *cssConfig) FindParent(node *sitter.Node, source []byte) *string {
	current := node.Parent()
	for current != nil {
		if current.Kind() == "media_statement" {
			return strPtr("@media")
		}
		current = current.Parent()
	}
	return nil
}

func (c *cssConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	return collectLeadingComments(node, source, []string{"comment"}, nil, nil)
}

func (c *cssConfig) CollectAttributes(node *sitter.Node, source []byte) *string { return nil }
