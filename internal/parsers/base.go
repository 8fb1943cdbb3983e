package parsers

import (
	"sort"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// ParseResult is a parse that also reports how much of the source
// tree-sitter could actually make sense of, so callers can decide whether
// to fall back to grep/read instead of trusting the AST.
type ParseResult struct {
	Chunks  []*model.Chunk
	Refs    []*model.Reference
	Quality model.ParseQuality
}

// CodeParser is the interface the indexer dispatches to for every
// code-language file.
type CodeParser interface {
	LanguageName() string
	ParseChunks(source string, fileID int64) ([]*model.Chunk, error)
	ExtractRefs(source string, chunks []*model.Chunk) ([]*model.Reference, error)
	ParseChunksAndRefs(source string, fileID int64) ([]*model.Chunk, []*model.Reference, error)
	ValidateSyntax(source string) bool
	ParseWithQuality(source string, fileID int64) (*ParseResult, error)
}

// BaseParser drives any LanguageConfig through the shared chunk/ref
// extraction algorithm, mirroring base.rs's generic BaseParser<C>.
type BaseParser struct {
	cfg LanguageConfig
}

// NewBaseParser wraps cfg in the shared extraction algorithm.
func NewBaseParser(cfg LanguageConfig) *BaseParser {
	return &BaseParser{cfg: cfg}
}

func (p *BaseParser) LanguageName() string { return p.cfg.LanguageName() }

func (p *BaseParser) makeParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(p.cfg.Language())
	return parser
}

func (p *BaseParser) parseTree(source string) (*sitter.Tree, error) {
	parser := p.makeParser()
	defer parser.Close()
	tree := parser.Parse([]byte(source), nil)
	if tree == nil {
		return nil, rlmerr.New(rlmerr.Parse, "", "tree-sitter parse returned nil")
	}
	return tree, nil
}

func (p *BaseParser) ParseChunks(source string, fileID int64) ([]*model.Chunk, error) {
	tree, err := p.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return p.extractChunks(tree, []byte(source), fileID), nil
}

func (p *BaseParser) ExtractRefs(source string, chunks []*model.Chunk) ([]*model.Reference, error) {
	tree, err := p.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return p.extractRefs(tree, []byte(source), chunks), nil
}

func (p *BaseParser) ParseChunksAndRefs(source string, fileID int64) ([]*model.Chunk, []*model.Reference, error) {
	tree, err := p.parseTree(source)
	if err != nil {
		return nil, nil, err
	}
	defer tree.Close()
	src := []byte(source)
	chunks := p.extractChunks(tree, src, fileID)
	refs := p.extractRefs(tree, src, chunks)
	return chunks, refs, nil
}

func (p *BaseParser) ValidateSyntax(source string) bool {
	tree, err := p.parseTree(source)
	if err != nil {
		return false
	}
	defer tree.Close()
	return !tree.RootNode().HasError()
}

func (p *BaseParser) ParseWithQuality(source string, fileID int64) (*ParseResult, error) {
	tree, err := p.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	src := []byte(source)
	chunks := p.extractChunks(tree, src, fileID)
	refs := p.extractRefs(tree, src, chunks)

	root := tree.RootNode()
	var quality model.ParseQuality
	if root.HasError() {
		lines := findErrorLines(root)
		quality = model.Partial(len(lines), lines)
	} else {
		quality = model.Complete()
	}
	return &ParseResult{Chunks: chunks, Refs: refs, Quality: quality}, nil
}

func (p *BaseParser) extractChunks(tree *sitter.Tree, source []byte, fileID int64) []*model.Chunk {
	var chunks []*model.Chunk
	root := tree.RootNode()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(p.cfg.ChunkQuery(), root, source)

	var importDecls []*sitter.Node
	seen := map[string]bool{}
	// ImportCaptureName may list more than one capture (space-separated),
	// e.g. JavaScript's "import_decl require_decl" for ES modules and
	// CommonJS require() both feeding the same synthetic imports chunk.
	importCaptures := strings.Fields(p.cfg.ImportCaptureName())

	for match := matches.Next(); match != nil; match = matches.Next() {
		var name string
		var kind model.ChunkKind
		defNode := root
		isImport := false

		for _, cap := range match.Captures {
			capName := p.cfg.ChunkQuery().CaptureNames()[cap.Index]
			node := cap.Node
			text := nodeText(&node, source)

			if containsStr(importCaptures, capName) {
				isImport = true
				importDecls = append(importDecls, &node)
				continue
			}

			result, ok := p.cfg.MapChunkCapture(capName, text)
			if !ok {
				continue
			}
			if result.IsDefinitionNode {
				defNode = &node
			}
			if result.Name != "" {
				name = result.Name
				kind = result.Kind
			}
		}

		if isImport || name == "" {
			continue
		}

		startLine := uint32(defNode.StartPosition().Row) + 1
		if p.cfg.NeedsDeduplication() {
			key := name + "#" + strconv.Itoa(int(startLine))
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		content := nodeText(defNode, source)
		parent := p.cfg.FindParent(defNode, source)
		if p.cfg.ShouldSkipFunction(kind, parent) {
			continue
		}

		chunks = append(chunks, &model.Chunk{
			FileID:      fileID,
			StartLine:   startLine,
			EndLine:     uint32(defNode.EndPosition().Row) + 1,
			StartByte:   uint32(defNode.StartByte()),
			EndByte:     uint32(defNode.EndByte()),
			Kind:        kind,
			Ident:       name,
			Parent:      parent,
			Signature:   p.cfg.ExtractSignature(content, kind),
			Visibility:  p.cfg.ExtractVisibility(defNode, content),
			DocComment:  p.cfg.CollectDocComment(defNode, source),
			Attributes:  p.cfg.CollectAttributes(defNode, source),
			Content:     content,
		})
	}

	p.cfg.PostProcessChunks(&chunks, tree, source, fileID)

	if len(importDecls) > 0 {
		chunks = append(chunks, buildImportsChunk(importDecls, source, fileID))
	}

	return chunks
}

func buildImportsChunk(nodes []*sitter.Node, source []byte, fileID int64) *model.Chunk {
	startLine, endLine := nodes[0].StartPosition().Row, nodes[0].EndPosition().Row
	startByte, endByte := nodes[0].StartByte(), nodes[0].EndByte()
	for _, n := range nodes[1:] {
		if n.StartPosition().Row < startLine {
			startLine = n.StartPosition().Row
		}
		if n.EndPosition().Row > endLine {
			endLine = n.EndPosition().Row
		}
		if n.StartByte() < startByte {
			startByte = n.StartByte()
		}
		if n.EndByte() > endByte {
			endByte = n.EndByte()
		}
	}
	var content string
	for i, n := range nodes {
		if i > 0 {
			content += "\n"
		}
		content += nodeText(n, source)
	}
	return &model.Chunk{
		FileID:    fileID,
		StartLine: uint32(startLine) + 1,
		EndLine:   uint32(endLine) + 1,
		StartByte: uint32(startByte),
		EndByte:   uint32(endByte),
		Kind:      model.ChunkKind("imports"),
		Ident:     model.SyntheticImports,
		Content:   content,
	}
}

func (p *BaseParser) extractRefs(tree *sitter.Tree, source []byte, chunks []*model.Chunk) []*model.Reference {
	var refs []*model.Reference
	root := tree.RootNode()

	sortedByStart := append([]*model.Chunk(nil), chunks...)
	sort.Slice(sortedByStart, func(i, j int) bool { return sortedByStart[i].StartLine < sortedByStart[j].StartLine })

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	matches := qc.Matches(p.cfg.RefQuery(), root, source)

	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, cap := range match.Captures {
			capName := p.cfg.RefQuery().CaptureNames()[cap.Index]
			node := cap.Node
			text := nodeText(&node, source)

			refKind, ok := p.cfg.MapRefCapture(capName, text)
			if !ok {
				continue
			}
			pos := node.StartPosition()
			line := uint32(pos.Row) + 1

			chunkID := findContainingChunkID(sortedByStart, line)
			for _, target := range p.cfg.SplitRefTargets(capName, text) {
				refs = append(refs, &model.Reference{
					ChunkID:     chunkID,
					TargetIdent: target,
					RefKind:     refKind,
					Line:        line,
					Col:         uint32(pos.Column),
				})
			}
		}
	}
	return refs
}

// findContainingChunkID binary-searches sortedByStart (ordered by
// StartLine) for the innermost chunk whose [StartLine, EndLine] contains
// line, the same partition_point-then-reverse-scan the indexer uses once
// chunks carry real database ids.
func findContainingChunkID(sortedByStart []*model.Chunk, line uint32) int64 {
	idx := sort.Search(len(sortedByStart), func(i int) bool {
		return sortedByStart[i].StartLine > line
	})
	for i := idx - 1; i >= 0; i-- {
		if line <= sortedByStart[i].EndLine {
			return sortedByStart[i].ID
		}
	}
	return 0
}

func findErrorLines(root *sitter.Node) []uint32 {
	var lines []uint32
	seen := map[uint32]bool{}
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.IsError() || n.IsMissing() {
			line := uint32(n.StartPosition().Row) + 1
			if !seen[line] {
				seen[line] = true
				lines = append(lines, line)
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child != nil {
				visit(child)
			}
		}
	}
	visit(root)
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}

func nodeText(n *sitter.Node, source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if end > uint(len(source)) || start > end {
		return ""
	}
	return string(source[start:end])
}
