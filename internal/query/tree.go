package query

import (
	"sort"
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
)

// SymbolInfo is one chunk's position within a TreeNode leaf.
type SymbolInfo struct {
	Kind model.ChunkKind `json:"k"`
	Name string          `json:"n"`
	Line uint32          `json:"l"`
}

// TreeNode is one directory or file entry in the hierarchical tree view.
type TreeNode struct {
	Name     string      `json:"n"`
	Path     string      `json:"p"`
	Dir      bool        `json:"dir"`
	Symbols  []SymbolInfo `json:"s,omitempty"`
	Children []*TreeNode `json:"ch,omitempty"`
}

// Tree builds a hierarchical directory view of every indexed file, each
// leaf carrying its chunks' {kind, name, start_line}.
func (e *Engine) Tree() (*TreeNode, error) {
	files, err := e.DB.GetAllFiles()
	if err != nil {
		return nil, err
	}

	root := &TreeNode{Name: "", Path: "", Dir: true}
	dirs := map[string]*TreeNode{"": root}

	for _, f := range files {
		chunks, err := e.DB.GetChunksForFile(f.ID)
		if err != nil {
			return nil, err
		}
		parent := ensureDir(dirs, root, dirname(f.Path))
		leaf := &TreeNode{Name: basename(f.Path), Path: f.Path}
		for _, c := range chunks {
			if c.Ident == model.SyntheticImports {
				continue
			}
			leaf.Symbols = append(leaf.Symbols, SymbolInfo{Kind: c.Kind, Name: c.Ident, Line: c.StartLine})
		}
		parent.Children = append(parent.Children, leaf)
	}

	sortTree(root)
	return root, nil
}

// ensureDir walks/creates the directory-node chain down to dirPath,
// returning its TreeNode.
func ensureDir(dirs map[string]*TreeNode, root *TreeNode, dirPath string) *TreeNode {
	if dirPath == "" {
		return root
	}
	if node, ok := dirs[dirPath]; ok {
		return node
	}
	parent := ensureDir(dirs, root, dirname(dirPath))
	node := &TreeNode{Name: basename(dirPath), Path: dirPath, Dir: true}
	parent.Children = append(parent.Children, node)
	dirs[dirPath] = node
	return node
}

func dirname(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

func basename(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

func sortTree(n *TreeNode) {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Dir != b.Dir {
			return a.Dir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.Dir {
			sortTree(c)
		}
	}
}
