package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const javaChunkQuerySrc = `
    (class_declaration name: (identifier) @class_name) @class_def
    (interface_declaration name: (identifier) @iface_name) @iface_def
    (enum_declaration name: (identifier) @enum_name) @enum_def
    (method_declaration name: (identifier) @method_name) @method_def
    (constructor_declaration name: (identifier) @ctor_name) @ctor_def
    (import_declaration) @import_decl
`

const javaRefQuerySrc = `
    (method_invocation name: (identifier) @call_name)
    (import_declaration (scoped_identifier) @import_path)
    (import_declaration (identifier) @import_simple)
    (type_identifier) @type_ref
`

// javaConfig grounds the Java LanguageConfig on java.rs.
type javaConfig struct {
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewJavaParser builds the CodeParser for Java source.
func NewJavaParser() CodeParser {
	lang := sitter.NewLanguage(java.Language())
	return NewBaseParser(&javaConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, javaChunkQuerySrc, "Java chunk"),
		refQuery:   compileQuery(lang, javaRefQuerySrc, "Java ref"),
	})
}

func (c *javaConfig) Language() *sitter.Language { return c.lang }
func (c *javaConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *javaConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *javaConfig) LanguageName() string        { return "java" }
func (c *javaConfig) ImportCaptureName() string   { return "import_decl" }
func (c *javaConfig) NeedsDeduplication() bool     { return true }
func (c *javaConfig) PostProcessChunks(*[]*model.Chunk, *sitter.Tree, []byte, int64) {}
func (c *javaConfig) ShouldSkipFunction(model.ChunkKind, *string) bool { return false }
func (c *javaConfig) SplitRefTargets(_, text string) []string          { return []string{text} }

func (c *javaConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "class_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindClass}, true
	case "iface_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindInterface}, true
	case "enum_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindEnum}, true
	case "method_name", "ctor_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindMethod}, true
	case "class_def", "iface_def", "enum_def", "method_def", "ctor_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

func (c *javaConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name":
		return model.RefCall, true
	case "import_path", "import_simple":
		return model.RefImport, true
	case "type_ref":
		return model.RefTypeUse, true
	default:
		return "", false
	}
}

func (c *javaConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	return visibilityFromPrefixes(content, [][2]string{
		{"public", "public"},
		{"protected", "protected"},
		{"private", "private"},
	}, "package")
}

func (c *javaConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	switch kind {
	case model.KindMethod, model.KindClass, model.KindInterface, model.KindEnum:
		return signatureUpToBraceOrSemi(content)
	default:
		return nil
	}
}

func (c *javaConfig) FindParent(node *sitter.Node, source []byte) *string {
	return findParentByKind(node, source, []string{"class_declaration", "interface_declaration"}, "", "identifier")
}

func (c *javaConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	return collectJavadocStyleComment(node, source, "block_comment", "line_comment", "/**")
}

func (c *javaConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	return collectChildAnnotations(node, source, "modifiers", []string{"marker_annotation", "annotation"})
}
