package parsers

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/mvp-joe/rlm/internal/model"
)

const rustChunkQuerySrc = `
    (function_item name: (identifier) @fn_name) @fn_def
    (struct_item name: (type_identifier) @struct_name) @struct_def
    (enum_item name: (type_identifier) @enum_name) @enum_def
    (trait_item name: (type_identifier) @trait_name) @trait_def
    (impl_item type: (type_identifier) @impl_name) @impl_def
    (const_item name: (identifier) @const_name) @const_def
    (static_item name: (identifier) @static_name) @static_def
    (mod_item name: (identifier) @mod_name) @mod_def
    (use_declaration) @use_decl
    (macro_definition name: (identifier) @macro_name) @macro_def
    (type_item name: (type_identifier) @type_alias_name) @type_alias_def
`

const rustRefQuerySrc = `
    (call_expression function: (identifier) @call_name)
    (call_expression function: (scoped_identifier name: (identifier) @scoped_call))
    (call_expression function: (field_expression field: (field_identifier) @method_call))
    (use_declaration argument: (scoped_identifier name: (identifier) @use_name))
    (use_declaration argument: (scoped_identifier) @use_path)
    (use_declaration argument: (use_as_clause path: (scoped_identifier) @use_as_path))
    (use_declaration argument: (use_list (identifier) @use_list_item))
    (use_declaration argument: (use_list (scoped_identifier name: (identifier) @use_list_scoped)))
    (use_declaration argument: (scoped_use_list path: (scoped_identifier) @use_group_path))
    (use_declaration argument: (identifier) @use_simple)
    (type_identifier) @type_ref
`

// rustConfig grounds the Rust LanguageConfig on rust.rs.
type rustConfig struct {
	baseConfig
	lang       *sitter.Language
	chunkQuery *sitter.Query
	refQuery   *sitter.Query
}

// NewRustParser builds the CodeParser for Rust source.
func NewRustParser() CodeParser {
	lang := sitter.NewLanguage(rust.Language())
	return NewBaseParser(&rustConfig{
		lang:       lang,
		chunkQuery: compileQuery(lang, rustChunkQuerySrc, "Rust chunk"),
		refQuery:   compileQuery(lang, rustRefQuerySrc, "Rust ref"),
	})
}

func (c *rustConfig) Language() *sitter.Language { return c.lang }
func (c *rustConfig) ChunkQuery() *sitter.Query   { return c.chunkQuery }
func (c *rustConfig) RefQuery() *sitter.Query     { return c.refQuery }
func (c *rustConfig) LanguageName() string        { return "rust" }
func (c *rustConfig) ImportCaptureName() string   { return "use_decl" }

func (c *rustConfig) MapChunkCapture(capName, text string) (ChunkCaptureResult, bool) {
	switch capName {
	case "fn_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindFunction}, true
	case "struct_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindStruct}, true
	case "enum_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindEnum}, true
	case "trait_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindTrait}, true
	case "impl_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindImpl}, true
	case "const_name", "static_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindConst}, true
	case "mod_name":
		return ChunkCaptureResult{Name: text, Kind: model.KindModule}, true
	case "macro_name":
		return ChunkCaptureResult{Name: text, Kind: model.ChunkKind("macro")}, true
	case "type_alias_name":
		return ChunkCaptureResult{Name: text, Kind: model.ChunkKind("type_alias")}, true
	case "fn_def", "struct_def", "enum_def", "trait_def", "impl_def",
		"const_def", "static_def", "mod_def", "macro_def", "type_alias_def":
		return ChunkCaptureResult{IsDefinitionNode: true}, true
	default:
		return ChunkCaptureResult{}, false
	}
}

func (c *rustConfig) MapRefCapture(capName, text string) (model.RefKind, bool) {
	switch capName {
	case "call_name", "scoped_call", "method_call":
		return model.RefCall, true
	case "use_name", "use_path", "use_as_path", "use_list_item", "use_list_scoped", "use_group_path", "use_simple":
		return model.RefImport, true
	case "type_ref":
		return model.RefTypeUse, true
	default:
		return "", false
	}
}

func (c *rustConfig) ExtractVisibility(node *sitter.Node, content string) *string {
	return visibilityFromPrefixes(content, [][2]string{
		{"pub(crate)", "pub(crate)"},
		{"pub(super)", "pub(super)"},
		{"pub", "pub"},
	}, "private")
}

func (c *rustConfig) ExtractSignature(content string, kind model.ChunkKind) *string {
	switch kind {
	case model.KindFunction, model.KindStruct, model.KindEnum, model.KindTrait:
		return signatureUpToBraceOrSemi(content)
	default:
		return nil
	}
}

func (c *rustConfig) FindParent(node *sitter.Node, source []byte) *string {
	return findParentByKind(node, source, []string{"impl_item"}, "", "type_identifier")
}

func (c *rustConfig) CollectDocComment(node *sitter.Node, source []byte) *string {
	return collectLeadingComments(node, source, []string{"line_comment"}, []string{"///", "//!"}, []string{"attribute_item"})
}

func (c *rustConfig) CollectAttributes(node *sitter.Node, source []byte) *string {
	return collectLeadingAttributes(node, source, []string{"attribute_item"}, []string{"line_comment"}, []string{"///", "//!"})
}

func (c *rustConfig) ShouldSkipFunction(kind model.ChunkKind, parent *string) bool {
	return kind == model.KindFunction && parent != nil
}

func (c *rustConfig) PostProcessChunks(chunks *[]*model.Chunk, tree *sitter.Tree, source []byte, fileID int64) {
	var implNodes []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Kind() == "impl_item" {
			implNodes = append(implNodes, n)
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if child := n.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(tree.RootNode())

	for _, implNode := range implNodes {
		implName := ""
		if nameNode := implNode.ChildByFieldName("type"); nameNode != nil {
			implName = nodeText(nameNode, source)
		}
		if implName == "" {
			continue
		}
		for i := uint(0); i < implNode.ChildCount(); i++ {
			body := implNode.Child(i)
			if body == nil || body.Kind() != "declaration_list" {
				continue
			}
			for j := uint(0); j < body.ChildCount(); j++ {
				item := body.Child(j)
				if item == nil || item.Kind() != "function_item" {
					continue
				}
				fnName := ""
				for k := uint(0); k < item.ChildCount(); k++ {
					nameNode := item.Child(k)
					if nameNode != nil && nameNode.Kind() == "identifier" {
						fnName = nodeText(nameNode, source)
						break
					}
				}
				if fnName == "" {
					continue
				}
				content := nodeText(item, source)
				*chunks = append(*chunks, &model.Chunk{
					FileID:     fileID,
					StartLine:  uint32(item.StartPosition().Row) + 1,
					EndLine:    uint32(item.EndPosition().Row) + 1,
					StartByte:  uint32(item.StartByte()),
					EndByte:    uint32(item.EndByte()),
					Kind:       model.KindMethod,
					Ident:      fnName,
					Parent:     strPtr(implName),
					Signature:  signatureUpToBraceOrSemi(content),
					Visibility: c.ExtractVisibility(item, content),
					DocComment: c.CollectDocComment(item, source),
					Attributes: c.CollectAttributes(item, source),
					Content:    content,
				})
			}
		}
	}
}
