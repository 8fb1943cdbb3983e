package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const javascriptChunkQuerySrc = `
    (function_declaration name: (identifier) @fn_name) @fn_def
    (generator_function_declaration name: (identifier) @gen_fn_name) @gen_fn_def

    (lexical_declaration
        (variable_declarator
            name: (identifier) @arrow_name
            value: (arrow_function))) @arrow_def
    (variable_declaration
        (variable_declarator
            name: (identifier) @arrow_name
            value: (arrow_function))) @arrow_def

    (class_declaration name: (identifier) @class_name) @class_def

    (method_definition
        name: (property_identifier) @method_name) @method_def

    (import_statement) @import_decl

    (lexical_declaration
        (variable_declarator
            value: (call_expression
                function: (identifier) @_require_fn
                (#eq? @_require_fn "require")))) @require_decl
    (variable_declaration
        (variable_declarator
            value: (call_expression
                function: (identifier) @_require_fn
                (#eq? @_require_fn "require")))) @require_decl
`

const javascriptRefQuerySrc = `
    (call_expression
        function: (identifier) @call_name)
    (call_expression
        function: (member_expression
            property: (property_identifier) @method_call))

    (import_statement
        source: (string) @import_path)

    (call_expression
        function: (identifier) @_require
        arguments: (arguments (string) @require_path)
        (#eq? @_require "require"))

    (jsx_element
        open_tag: (jsx_opening_element
            name: (identifier) @jsx_component))
    (jsx_self_closing_element
        name: (identifier) @jsx_component)
`

// javascriptConfig grounds the JavaScript/JSX LanguageConfig on javascript.rs.
type javascriptConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewJavaScriptParser builds the CodeParser for JavaScript/JSX source.
func NewJavaScriptParser() CodeParser {
	lang := sitter.NewLanguage(javascript.Language())
	return NewBaseParser(&javascriptConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, javascriptChunkQuerySrc, "JavaScript chunk"),
		refQuery:   compileQuery(lang, javascriptRefQuerySrc, "JavaScript ref"),
	})
}

func (c *javascriptConfig) Language() *sitter.Language { return c.lang }
func (c *javascriptConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *javascriptConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *javascriptConfig) LanguageName() string        { return "javascript" }
func (c *javascriptConfig) ImportCaptureName() string   { return "import_decl require_decl" }
func (c *javascriptConfig) NeedsDeduplication() bool    { return true }

func (c *javascriptConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "fn_name", "gen_fn_name", "arrow_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindFunction}, true
	case "class_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindClass}, true
	case "method_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindMethod}, true
	case "fn_def", "gen_fn_def", "arrow_def", "class_def", "method_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

// MapRefCapture only records a jsx_component reference when its name is
// PascalCase (javascript.rs:288-290) — a lowercase JSX tag is a plain HTML
// element, not a component reference.
func (c *javascriptConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name", "method_call":
		return model.RefCall, true
	case "import_path", "require_path":
		return model.RefImport, true
	case "jsx_component":
		if startsWithUpper(text) {
			return model.RefTypeUse, true
		}
		return "", false
	default:
		return "", false
	}
}

// ExtractVisibility checks whether node sits directly under an
// export_statement rather than string-matching the declaration's own text,
// since "export" is a sibling keyword on the wrapping statement, not a
// prefix of the declaration node itself — a re-exported or wrapped
// declaration's content never starts with "export".
func (c *javascriptConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	return jsExportVisibility(node)
}

func jsExportVisibility(node *sitter.Node) *string {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "export_statement" {
		return nil
	}
	for i := uint(0); i < parent.ChildCount(); i++ {
		if child := parent.Child(i); child != nil && child.Kind() == "default" {
			return strPtr("export default")
		}
	}
	return strPtr("export")
}

func (c *javascriptConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	switch kind {
	case model.KindFunction:
		if idx := strings.IndexByte(content, '{'); idx >= 0 {
			return strPtr(strings.TrimSpace(content[:idx]))
		}
		if idx := strings.Index(content, "=>"); idx >= 0 {
			return strPtr(strings.TrimSpace(content[:idx+2]))
		}
		if line, _, found := strings.Cut(content, "\n"); found {
			return strPtr(strings.TrimSpace(line))
		}
		return strPtr(strings.TrimSpace(content))
	case model.KindClass, model.KindMethod:
		if idx := strings.IndexByte(content, '{'); idx >= 0 {
			return strPtr(strings.TrimSpace(content[:idx]))
		}
		return nil
	default:
		return nil
	}
}

func (c *javascriptConfig) FindParent(node *sitter.Node, source []byte) *string {
	current := node.Parent()
	for current != nil {
		if current.Kind() == "class_body" {
			if classDecl := current.Parent(); classDecl != nil {
				if classDecl.Kind() == "class_declaration" || classDecl.Kind() == "class" {
					for i := uint(0); i < classDecl.ChildCount(); i++ {
						child := classDecl.Child(i)
						if child != nil && child.Kind() == "identifier" {
							return strPtr(nodeText(child, source))
						}
					}
				}
			}
		}
		current = current.Parent()
	}
	return nil
}

// CollectDocComment only accepts a directly preceding "/**"-style comment,
// matching collect_js_doc_comment's single-sibling check (no skip-over).
func (c *javascriptConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	sib := node.PrevSibling()
	if sib == nil || sib.Kind() != "comment" {
		return nil
	}
	text := nodeText(sib, source)
	if !strings.HasPrefix(text, "/**") {
		return nil
	}
	return strPtr(text)
}

// CollectAttributes: JS has no decorator/attribute syntax in this grammar.
func (c *javascriptConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	return nil
}
