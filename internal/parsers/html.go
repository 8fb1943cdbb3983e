package parsers

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	html "github.com/tree-sitter/tree-sitter-html/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const htmlChunkQuerySrc = `
    (element
        (start_tag
            (tag_name) @tag_name
            (attribute
                (attribute_name) @attr_name
                (quoted_attribute_value) @id_value
                (#eq? @attr_name "id")))
        ) @element_with_id

    (script_element) @script_el

    (style_element) @style_el

    (doctype) @doctype_el
`

const htmlRefQuerySrc = `
    (attribute
        (attribute_name) @_class_attr
        (quoted_attribute_value) @class_value
        (#eq? @_class_attr "class"))

    (attribute
        (attribute_name) @_href_attr
        (quoted_attribute_value) @href_value
        (#eq? @_href_attr "href"))

    (attribute
        (attribute_name) @_src_attr
        (quoted_attribute_value) @src_value
        (#eq? @_src_attr "src"))
`

// htmlConfig grounds the HTML LanguageConfig on html.rs: only elements that
// carry an id attribute become chunks (keyed by the id value), plus one
// synthetic chunk apiece for the doctype and any inline <script>/<style>
// element.
type htmlConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewHTMLParser builds the CodeParser for HTML source.
func NewHTMLParser() CodeParser {
	lang := sitter.NewLanguage(html.Language())
	return NewBaseParser(&htmlConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, htmlChunkQuerySrc, "HTML chunk"),
		refQuery:   compileQuery(lang, htmlRefQuerySrc, "HTML ref"),
	})
}

func (c *htmlConfig) Language() *sitter.Language { return c.lang }
func (c *htmlConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *htmlConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *htmlConfig) LanguageName() string        { return "html" }
func (c *htmlConfig) ImportCaptureName() string   { return "" }
func (c *htmlConfig) NeedsDeduplication() bool    { return true }

func (c *htmlConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "id_value":
		return ChunkCaptureResult{Name: trimAttrQuotes(text), Kind: model.ChunkKind("element")}, true
	case "element_with_id":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	case "script_el":
		return ChunkCaptureResult{Name: "_script", Kind: model.ChunkKind("script"), IsDefinitionNode: true}, true
	case "style_el":
		return ChunkCaptureResult{Name: "_style", Kind: model.ChunkKind("style"), IsDefinitionNode: true}, true
	case "doctype_el":
		return ChunkCaptureResult{Name: "_doctype", Kind: model.ChunkKind("doctype"), IsDefinitionNode: true}, true
	default:
		// "tag_name" and "attr_name" only feed ExtractSignature via the
		// element's own content; they name nothing on their own.
		return ChunkCaptureResult{}, false
	}
}

func (c *htmlConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "class_value":
		return model.RefTypeUse, true
	case "href_value", "src_value":
		return model.RefImport, true
	default:
		return "", false
	}
}

// SplitRefTargets quote-trims every HTML ref target, and further splits a
// class attribute's value into its space-separated class names, matching
// extract_refs_from_tree's classes.split_whitespace() loop.
func (c *htmlConfig) SplitRefTargets(capName, text string) []string {
	trimmed := trimAttrQuotes(text)
	if capName == "class_value" {
		return strings.Fields(trimmed)
	}
	return []string{trimmed}
}

func (c *htmlConfig) ExtractVisibility(*sitter.Node, string) *string { return nil }

// ExtractSignature reconstructs "<tag id=\"name\">" from the element's own
// content for id-bearing elements, matching html.rs's signature; script,
// style, and doctype chunks get no signature, since html.rs's tag_name
// never fires for those patterns either.
func (c *htmlConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	if kind != model.ChunkKind("element") {
		return nil
	}
	tag, id := htmlTagAndID(content)
	if tag == "" {
		return nil
	}
	return strPtr("<" + tag + ` id="` + id + `">`)
}

func htmlTagAndID(content string) (tag, id string) {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, "<") {
		return "", ""
	}
	rest := trimmed[1:]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '>' || r == '/'
	})
	if end < 0 {
		tag = rest
	} else {
		tag = rest[:end]
	}
	for _, quote := range []string{`id="`, `id='`} {
		idx := strings.Index(rest, quote)
		if idx < 0 {
			continue
		}
		start := idx + len(quote)
		closing := quote[len(quote)-1]
		if closeIdx := strings.IndexByte(rest[start:], closing); closeIdx >= 0 {
			id = rest[start : start+closeIdx]
			break
		}
	}
	return tag, id
}

// FindParent always reports nil: html.rs never tracks a containing element
// as a chunk's parent.
func (c *htmlConfig) FindParent(node *sitter.Node, source []byte) *string {
	return nil
}

func (c *htmlConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	return collectLeadingComments(node, source, []string{"comment"}, nil, nil)
}

func (c *htmlConfig) CollectAttributes(node *sitter.Node, source []byte) *string { return nil }
