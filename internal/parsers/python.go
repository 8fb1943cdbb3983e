package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const pythonChunkQuerySrc = `
    (function_definition name: (identifier) @fn_name) @fn_def
    (class_definition name: (identifier) @class_name) @class_def
    (import_statement) @import_decl
    (import_from_statement) @import_decl
`

const pythonRefQuerySrc = `
    (call function: (identifier) @call_name)
    (call function: (attribute attribute: (identifier) @method_call))
    (import_statement name: (dotted_name) @import_name)
    (import_from_statement module_name: (dotted_name) @import_from_module)
    (import_from_statement name: (dotted_name) @import_from_name)
    (aliased_import name: (dotted_name) @import_alias)
    (type) @type_ref
`

// pythonConfig grounds the Python LanguageConfig on python.rs.
type pythonConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewPythonParser builds the CodeParser for Python source.
func NewPythonParser() CodeParser {
	lang := sitter.NewLanguage(python.Language())
	return NewBaseParser(&pythonConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, pythonChunkQuerySrc, "Python chunk"),
		refQuery:   compileQuery(lang, pythonRefQuerySrc, "Python ref"),
	})
}

func (c *pythonConfig) Language() *sitter.Language { return c.lang }
func (c *pythonConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *pythonConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *pythonConfig) LanguageName() string        { return "python" }
func (c *pythonConfig) ImportCaptureName() string   { return "import_decl" }

func (c *pythonConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "fn_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindFunction}, true
	case "class_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindClass}, true
	case "fn_def", "class_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

func (c *pythonConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name", "method_call":
		return model.RefCall, true
	case "import_name", "import_from_module", "import_from_name", "import_alias":
		return model.RefImport, true
	case "type_ref":
		return model.RefTypeUse, true
	default:
		return "", false
	}
}

// ExtractVisibility follows the underscore convention (_private, __dunder__).
func (c *pythonConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	// content starts at "def "/"class ", so peel the keyword to see the name.
	name := trimmed
	for _, kw := range []string{"async def ", "def ", "class "} {
		if strings.HasPrefix(trimmed, kw) {
			name = strings.TrimPrefix(trimmed, kw)
			break
		}
	}
	switch {
	case strings.HasPrefix(name, "__") && hasDunderSuffix(name):
		return strPtr("dunder")
	case strings.HasPrefix(name, "_"):
		return strPtr("private")
	default:
		return strPtr("public")
	}
}

func hasDunderSuffix(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '(' || name[i] == ':' || name[i] == '.' {
			return strings.HasSuffix(name[:i], "__")
		}
	}
	return strings.HasSuffix(name, "__")
}

func (c *pythonConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	switch kind {
	case model.KindFunction, model.KindMethod:
		return signatureUpToDelim(content, ':')
	case model.KindClass:
		return signatureUpToDelim(content, ':')
	default:
		return nil
	}
}

func (c *pythonConfig) FindParent(node *sitter.Node, source []byte) *string {
	return findParentByKind(node, source, []string{"class_definition"}, "", "identifier")
}

func (c *pythonConfig) ShouldSkipFunction(model.ChunkKind, *string) bool { return false }

// PostProcessChunks reclassifies functions nested in a class as methods,
// matching find_python_parent's "parent.is_some() => Method" promotion,
// which base.rs's single-pass extraction loop can't express directly since
// parent is computed from the already-emitted chunk's kind, not known until
// after MapChunkCapture runs.
func (c *pythonConfig) PostProcessChunks(chunks *[]*model.Chunk, tree *sitter.Tree, source []byte, fileID int64) {
	for _, chunk := range *chunks {
		if chunk.Kind == model.KindFunction && chunk.Parent != nil {
			chunk.Kind = model.KindMethod
		}
	}
}

func (c *pythonConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	if doc := collectPythonDocstring(node, source); doc != nil {
		return doc
	}
	return collectPythonLeadingComment(node, source)
}

func collectPythonDocstring(node *sitter.Node, source []byte) *string {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "expression_statement" {
			if first := child.Child(0); first != nil && first.Kind() == "string" {
				return strPtr(nodeText(first, source))
			}
		}
		if child.Kind() != "comment" && child.Kind() != "expression_statement" {
			break
		}
	}
	return nil
}

func collectPythonLeadingComment(node *sitter.Node, source []byte) *string {
	checkNode := node
	if parent := node.Parent(); parent != nil && parent.Kind() == "decorated_definition" {
		checkNode = parent
	}
	var lines []string
	current := checkNode.PrevSibling()
	for current != nil && current.Kind() == "comment" {
		lines = append(lines, nodeText(current, source))
		current = current.PrevSibling()
	}
	reverseStrings(lines)
	if len(lines) == 0 {
		return nil
	}
	return strPtr(strings.Join(lines, "\n"))
}

func (c *pythonConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}
	var decorators []string
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child != nil && child.Kind() == "decorator" {
			decorators = append(decorators, nodeText(child, source))
		}
	}
	if len(decorators) == 0 {
		return nil
	}
	return strPtr(strings.Join(decorators, "\n"))
}
