package parsers

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const goChunkQuerySrc = `
    (function_declaration name: (identifier) @fn_name) @fn_def
    (method_declaration name: (field_identifier) @method_name) @method_def
    (type_declaration (type_spec name: (type_identifier) @type_name)) @type_def
    (import_declaration) @import_decl
`

const goRefQuerySrc = `
    (call_expression function: (identifier) @call_name)
    (call_expression function: (selector_expression field: (field_identifier) @method_call))
    (import_spec path: (interpreted_string_literal) @import_path)
    (import_spec name: (package_identifier) @import_alias)
    (type_identifier) @type_ref
`

// goConfig grounds the Go LanguageConfig on go.rs.
type goConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewGoParser builds the CodeParser for Go source.
func NewGoParser() CodeParser {
	lang := sitter.NewLanguage(golang.Language())
	return NewBaseParser(&goConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, goChunkQuerySrc, "Go chunk"),
		refQuery:   compileQuery(lang, goRefQuerySrc, "Go ref"),
	})
}

func (c *goConfig) Language() *sitter.Language { return c.lang }
func (c *goConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *goConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *goConfig) LanguageName() string        { return "go" }
func (c *goConfig) ImportCaptureName() string   { return "import_decl" }

func (c *goConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "fn_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindFunction}, true
	case "method_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindMethod}, true
	case "type_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindStruct}, true
	case "fn_def", "method_def", "type_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

func (c *goConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name", "method_call":
		return model.RefCall, true
	case "import_path", "import_alias":
		return model.RefImport, true
	case "type_ref":
		return model.RefTypeUse, true
	default:
		return "", false
	}
}

// ExtractVisibility follows Go's exported-by-capitalization convention
// rather than a keyword, the way go.rs's extract_visibility does. content
// is the full declaration text ("func "/"type " keyword included, plus any
// method receiver), so the declared name has to be picked out first.
func (c *goConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	name := goDeclName(content)
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return strPtr("pub")
	}
	return strPtr("private")
}

// goDeclName recovers the declared identifier from a function, method, or
// type declaration's full source text.
func goDeclName(content string) string {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	switch {
	case strings.HasPrefix(trimmed, "func "):
		rest := strings.TrimLeft(strings.TrimPrefix(trimmed, "func "), " \t")
		if strings.HasPrefix(rest, "(") {
			idx := strings.Index(rest, ")")
			if idx == -1 {
				return ""
			}
			rest = strings.TrimLeft(rest[idx+1:], " \t")
		}
		return goLeadingIdent(rest)
	case strings.HasPrefix(trimmed, "type "):
		return goLeadingIdent(strings.TrimLeft(strings.TrimPrefix(trimmed, "type "), " \t"))
	default:
		return ""
	}
}

func goLeadingIdent(s string) string {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			i += size
		} else {
			break
		}
	}
	return s[:i]
}

func (c *goConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	switch kind {
	case model.KindFunction, model.KindMethod, model.KindStruct:
		return signatureUpToBraceOrSemi(content)
	default:
		return nil
	}
}

func (c *goConfig) FindParent(node *sitter.Node, source []byte) *string {
	return nil
}

func (c *goConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	return collectLeadingComments(node, source, []string{"comment"}, nil, nil)
}

func (c *goConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	return nil
}
