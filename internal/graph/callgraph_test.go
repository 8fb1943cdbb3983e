package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/indexer"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestBuildCallGraphCalleesAndCallers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs",
		"fn main() {\n    helper();\n}\n\nfn helper() {\n    leaf();\n}\n\nfn leaf() {}\n")

	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	cg, err := Build(db)
	require.NoError(t, err)

	assert.Equal(t, []string{"helper"}, cg.Callees("main"))
	assert.Equal(t, []string{"leaf"}, cg.Callees("helper"))
	assert.Equal(t, []string{"main"}, cg.Callers("helper"))
	assert.Empty(t, cg.Callees("leaf"))
}

func TestCallGraphPathFindsShortestChain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs",
		"fn main() {\n    helper();\n}\n\nfn helper() {\n    leaf();\n}\n\nfn leaf() {}\n")

	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	cg, err := Build(db)
	require.NoError(t, err)

	path := cg.Path("main", "leaf")
	assert.Equal(t, []string{"main", "helper", "leaf"}, path)
}

func TestCallGraphPathReturnsNilWhenUnreachable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", "fn main() {}\n\nfn isolated() {}\n")

	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	cg, err := Build(db)
	require.NoError(t, err)

	assert.Nil(t, cg.Path("main", "isolated"))
}
