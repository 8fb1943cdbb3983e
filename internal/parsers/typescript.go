package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const typescriptChunkQuerySrc = `
    (function_declaration name: (identifier) @fn_name) @fn_def
    (generator_function_declaration name: (identifier) @gen_fn_name) @gen_fn_def

    (lexical_declaration
        (variable_declarator
            name: (identifier) @arrow_name
            value: (arrow_function))) @arrow_def

    (class_declaration name: (type_identifier) @class_name) @class_def
    (abstract_class_declaration name: (type_identifier) @abs_class_name) @abs_class_def

    (method_definition
        name: (property_identifier) @method_name) @method_def

    (interface_declaration name: (type_identifier) @iface_name) @iface_def

    (type_alias_declaration name: (type_identifier) @type_alias_name) @type_alias_def

    (enum_declaration name: (identifier) @enum_name) @enum_def

    (import_statement) @import_decl

    (module name: (identifier) @namespace_name) @namespace_def
    (internal_module name: (identifier) @internal_namespace_name) @internal_namespace_def
`

const typescriptRefQuerySrc = `
    (call_expression
        function: (identifier) @call_name)
    (call_expression
        function: (member_expression
            property: (property_identifier) @method_call))

    (import_statement
        source: (string) @import_path)

    (type_identifier) @type_ref

    (type_arguments (type_identifier) @generic_type_ref)

    (decorator (call_expression function: (identifier) @decorator_name))
    (decorator (identifier) @decorator_name)
`

const tsxRefQueryAddition = `
    (jsx_element
        open_tag: (jsx_opening_element
            name: (identifier) @jsx_component))
    (jsx_self_closing_element
        name: (identifier) @jsx_component)
`

// typescriptConfig grounds the TypeScript/TSX LanguageConfig on
// typescript.rs. The same struct backs both .ts and .tsx files; only the
// grammar and ref query differ (TSX adds JSX element capture), matching
// TypeScriptParser::new vs ::new_tsx sharing one Rust struct.
type typescriptConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
	name       string
}

// NewTypeScriptParser builds the CodeParser for plain .ts source.
func NewTypeScriptParser() CodeParser {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return NewBaseParser(&typescriptConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, typescriptChunkQuerySrc, "TypeScript chunk"),
		refQuery:   compileQuery(lang, typescriptRefQuerySrc, "TypeScript ref"),
		name:       "typescript",
	})
}

// NewTSXParser builds the CodeParser for .tsx source, whose ref query also
// captures JSX elements.
func NewTSXParser() CodeParser {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return NewBaseParser(&typescriptConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, typescriptChunkQuerySrc, "TSX chunk"),
		refQuery:   compileQuery(lang, typescriptRefQuerySrc+tsxRefQueryAddition, "TSX ref"),
		name:       "tsx",
	})
}

func (c *typescriptConfig) Language() *sitter.Language { return c.lang }
func (c *typescriptConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *typescriptConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *typescriptConfig) LanguageName() string        { return c.name }
func (c *typescriptConfig) ImportCaptureName() string   { return "import_decl" }
func (c *typescriptConfig) NeedsDeduplication() bool    { return true }

func (c *typescriptConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "fn_name", "gen_fn_name", "arrow_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindFunction}, true
	case "class_name", "abs_class_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindClass}, true
	case "method_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindMethod}, true
	case "iface_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindInterface}, true
	case "type_alias_name":
		return ChunkCaptureResult{Name: text, Kind: model.ChunkKind("type_alias")}, true
	case "enum_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindEnum}, true
	case "namespace_name", "internal_namespace_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindModule}, true
	case "fn_def", "gen_fn_def", "arrow_def", "class_def", "abs_class_def", "method_def",
		"iface_def", "type_alias_def", "enum_def", "namespace_def", "internal_namespace_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

// MapRefCapture maps decorator_name to RefCall, but a JSX component
// reference only counts when it's PascalCase (typescript.rs:327-333) — a
// lowercase jsx_component capture is a plain HTML tag, not a component, and
// is dropped rather than recorded.
func (c *typescriptConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name", "method_call":
		return model.RefCall, true
	case "import_path":
		return model.RefImport, true
	case "type_ref", "generic_type_ref":
		return model.RefTypeUse, true
	case "decorator_name":
		return model.RefCall, true
	case "jsx_component":
		if startsWithUpper(text) {
			return model.RefTypeUse, true
		}
		return "", false
	default:
		return "", false
	}
}

// ExtractVisibility checks the node's export_statement ancestor structurally
// (content never carries an "export" prefix — that keyword lives on the
// wrapping statement, not the declaration node) and only falls back to
// prefix matching for the accessibility modifiers TypeScript does embed
// directly in a class member's own text (public/private/protected).
func (c *typescriptConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	if v := jsExportVisibility(node); v != nil {
		return v
	}
	trimmed := strings.TrimLeft(content, " \t\r\n")
	switch {
	case strings.HasPrefix(trimmed, "public"):
		return strPtr("public")
	case strings.HasPrefix(trimmed, "private"):
		return strPtr("private")
	case strings.HasPrefix(trimmed, "protected"):
		return strPtr("protected")
	default:
		return nil
	}
}

func (c *typescriptConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
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
	case model.KindClass, model.KindInterface, model.KindMethod, model.KindEnum:
		if idx := strings.IndexByte(content, '{'); idx >= 0 {
			return strPtr(strings.TrimSpace(content[:idx]))
		}
		return nil
	case model.ChunkKind("type_alias"):
		if idx := strings.IndexByte(content, '='); idx >= 0 {
			return strPtr(strings.TrimSpace(content[:idx]))
		}
		return nil
	default:
		if line, _, found := strings.Cut(content, "\n"); found {
			return strPtr(strings.TrimSpace(line))
		}
		return strPtr(strings.TrimSpace(content))
	}
}

func (c *typescriptConfig) FindParent(node *sitter.Node, source []byte) *string {
	current := node.Parent()
	for current != nil {
		switch current.Kind() {
		case "class_body":
			if classDecl := current.Parent(); classDecl != nil {
				if classDecl.Kind() == "class_declaration" || classDecl.Kind() == "class" {
					for i := uint(0); i < classDecl.ChildCount(); i++ {
						child := classDecl.Child(i)
						if child != nil && (child.Kind() == "type_identifier" || child.Kind() == "identifier") {
							return strPtr(nodeText(child, source))
						}
					}
				}
			}
		case "interface_declaration":
			for i := uint(0); i < current.ChildCount(); i++ {
				child := current.Child(i)
				if child != nil && child.Kind() == "type_identifier" {
					return strPtr(nodeText(child, source))
				}
			}
		}
		current = current.Parent()
	}
	return nil
}

// CollectDocComment skips over decorator siblings before checking for a
// leading "/**" or "//" comment, matching collect_ts_doc_comment.
func (c *typescriptConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	current := node.PrevSibling()
	for current != nil {
		if current.Kind() == "decorator" {
			current = current.PrevSibling()
			continue
		}
		if current.Kind() == "comment" {
			text := nodeText(current, source)
			if strings.HasPrefix(text, "/**") || strings.HasPrefix(text, "//") {
				return strPtr(text)
			}
		}
		break
	}
	return nil
}

func (c *typescriptConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	var decorators []string
	current := node.PrevSibling()
	for current != nil {
		kind := current.Kind()
		if kind == "decorator" {
			decorators = append(decorators, nodeText(current, source))
			current = current.PrevSibling()
			continue
		}
		if kind == "comment" {
			current = current.PrevSibling()
			continue
		}
		break
	}
	reverseStrings(decorators)
	if len(decorators) == 0 {
		return nil
	}
	return strPtr(strings.Join(decorators, "\n"))
}
