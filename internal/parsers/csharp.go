package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const csharpChunkQuerySrc = `
    (class_declaration name: (identifier) @class_name) @class_def
    (interface_declaration name: (identifier) @iface_name) @iface_def
    (enum_declaration name: (identifier) @enum_name) @enum_def
    (struct_declaration name: (identifier) @struct_name) @struct_def
    (method_declaration name: (identifier) @method_name) @method_def
    (constructor_declaration name: (identifier) @ctor_name) @ctor_def
    (namespace_declaration name: (identifier) @ns_name) @ns_def
    (using_directive) @using_decl
`

const csharpRefQuerySrc = `
    (invocation_expression function: (identifier) @call_name)
    (invocation_expression function: (member_access_expression name: (identifier) @method_call))
    (using_directive (qualified_name) @using_path)
    (using_directive (identifier) @using_simple)
    (generic_name (identifier) @type_ref)
    (predefined_type) @type_ref
`

// csharpConfig grounds the C# LanguageConfig on csharp.rs.
type csharpConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewCSharpParser builds the CodeParser for C# source.
func NewCSharpParser() CodeParser {
	lang := sitter.NewLanguage(csharp.Language())
	return NewBaseParser(&csharpConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, csharpChunkQuerySrc, "C# chunk"),
		refQuery:   compileQuery(lang, csharpRefQuerySrc, "C# ref"),
	})
}

func (c *csharpConfig) Language() *sitter.Language { return c.lang }
func (c *csharpConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *csharpConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *csharpConfig) LanguageName() string        { return "csharp" }
func (c *csharpConfig) ImportCaptureName() string   { return "using_decl" }
func (c *csharpConfig) NeedsDeduplication() bool     { return true }

func (c *csharpConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "class_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindClass}, true
	case "iface_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindInterface}, true
	case "enum_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindEnum}, true
	case "struct_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindStruct}, true
	case "method_name", "ctor_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindMethod}, true
	case "ns_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindModule}, true
	case "class_def", "iface_def", "enum_def", "struct_def", "method_def", "ctor_def", "ns_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

func (c *csharpConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name", "method_call":
		return model.RefCall, true
	case "using_path", "using_simple":
		return model.RefImport, true
	case "type_ref":
		return model.RefTypeUse, true
	default:
		return "", false
	}
}

func (c *csharpConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	return visibilityFromPrefixes(content, [][2]string{
		{"public", "public"},
		{"protected", "protected"},
		{"private", "private"},
		{"internal", "internal"},
	}, "private")
}

func (c *csharpConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	switch kind {
	case model.KindMethod, model.KindClass, model.KindInterface, model.KindEnum, model.KindStruct:
		return signatureUpToBraceOrSemi(content)
	default:
		return nil
	}
}

func (c *csharpConfig) FindParent(node *sitter.Node, source []byte) *string {
	return findParentByKind(node, source, []string{"class_declaration", "struct_declaration", "interface_declaration"}, "", "identifier")
}

func (c *csharpConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	return collectLeadingComments(node, source, []string{"comment"}, []string{"///"}, []string{"attribute_list"})
}

func (c *csharpConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	return collectLeadingAttributes(node, source, []string{"attribute_list"}, []string{"comment"}, []string{"///"})
}
