package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const phpChunkQuerySrc = `
    (function_definition name: (name) @fn_name) @fn_def
    (class_declaration name: (name) @class_name) @class_def
    (interface_declaration name: (name) @iface_name) @iface_def
    (method_declaration name: (name) @method_name) @method_def
    (trait_declaration name: (name) @trait_name) @trait_def
    (namespace_use_declaration) @use_decl
`

const phpRefQuerySrc = `
    (function_call_expression function: (name) @call_name)
    (member_call_expression name: (name) @method_call)
    (namespace_use_clause (qualified_name) @use_path)
    (namespace_use_clause (name) @use_simple)
    (named_type (name) @type_ref)
    (named_type (qualified_name) @type_ref_qualified)
`

// phpConfig grounds the PHP LanguageConfig on php.rs.
type phpConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewPhpParser builds the CodeParser for PHP source.
func NewPhpParser() CodeParser {
	lang := sitter.NewLanguage(php.LanguagePHP())
	return NewBaseParser(&phpConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, phpChunkQuerySrc, "PHP chunk"),
		refQuery:   compileQuery(lang, phpRefQuerySrc, "PHP ref"),
	})
}

func (c *phpConfig) Language() *sitter.Language { return c.lang }
func (c *phpConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *phpConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *phpConfig) LanguageName() string        { return "php" }
func (c *phpConfig) ImportCaptureName() string   { return "use_decl" }
func (c *phpConfig) NeedsDeduplication() bool    { return true }

func (c *phpConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "fn_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindFunction}, true
	case "class_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindClass}, true
	case "iface_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindInterface}, true
	case "method_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindMethod}, true
	case "trait_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindTrait}, true
	case "fn_def", "class_def", "iface_def", "method_def", "trait_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

func (c *phpConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name", "method_call":
		return model.RefCall, true
	case "use_path", "use_simple":
		return model.RefImport, true
	case "type_ref", "type_ref_qualified":
		return model.RefTypeUse, true
	default:
		return "", false
	}
}

// ExtractVisibility defaults to public, PHP's implicit member visibility.
func (c *phpConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	return visibilityFromPrefixes(content, [][2]string{
		{"public", "public"},
		{"protected", "protected"},
		{"private", "private"},
	}, "public")
}

// ExtractSignature trims at the opening brace for callables, and reuses the
// type-signature cut (brace, else first line) for class-like containers,
// matching extract_php_type_signature.
func (c *phpConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	switch kind {
	case model.KindFunction, model.KindMethod:
		if idx := strings.IndexByte(content, '{'); idx >= 0 {
			return strPtr(strings.TrimSpace(content[:idx]))
		}
		return nil
	case model.KindClass, model.KindInterface, model.KindTrait:
		if idx := strings.IndexByte(content, '{'); idx >= 0 {
			return strPtr(strings.TrimSpace(content[:idx]))
		}
		if line, _, found := strings.Cut(content, "\n"); found {
			return strPtr(strings.TrimSpace(line))
		}
		return strPtr(strings.TrimSpace(content))
	default:
		return nil
	}
}

func (c *phpConfig) FindParent(node *sitter.Node, source []byte) *string {
	return findParentByKind(node, source, []string{"class_declaration", "interface_declaration", "trait_declaration"}, "", "name")
}

// CollectDocComment only accepts a directly preceding block comment starting
// with "/**", matching collect_php_doc_comment's single-sibling check.
func (c *phpConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	sib := node.PrevSibling()
	for sib != nil && sib.Kind() == "attribute_list" {
		sib = sib.PrevSibling()
	}
	if sib == nil || sib.Kind() != "comment" {
		return nil
	}
	text := nodeText(sib, source)
	if !strings.HasPrefix(text, "/**") {
		return nil
	}
	return strPtr(text)
}

// CollectAttributes gathers PHP attribute groups (#[...]) walking back over
// comments, matching collect_php_attributes.
func (c *phpConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	var attrs []string
	current := node.PrevSibling()
	for current != nil {
		kind := current.Kind()
		if kind == "attribute_list" || kind == "attribute_group" {
			attrs = append(attrs, nodeText(current, source))
			current = current.PrevSibling()
			continue
		}
		if kind == "comment" {
			current = current.PrevSibling()
			continue
		}
		break
	}
	reverseStrings(attrs)
	if len(attrs) == 0 {
		return nil
	}
	return strPtr(strings.Join(attrs, "\n"))
}
