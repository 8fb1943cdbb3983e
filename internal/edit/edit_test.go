package edit

import (
	"os"
	"path/filepath"
	"strings"
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

// TestReplacePreviewDoesNotWrite covers E3: preview=true returns a diff and
// leaves the file on disk untouched.
func TestReplacePreviewDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sample.rs", "pub fn helper(x: i32) -> i32 { x * 2 }\n")
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	result, err := Replace(cfg, db, "sample.rs", "helper",
		"pub fn helper(x: i32) -> i32 { x * 3 }", true)
	require.NoError(t, err)
	assert.True(t, result.Preview)
	assert.False(t, result.Written)

	onDisk, err := os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), "x * 2")
	assert.NotContains(t, string(onDisk), "x * 3")
}

// TestReplaceWritesAndReindexes covers the non-preview path: the file is
// rewritten on disk and the symbol's chunk reflects the new source on
// re-index.
func TestReplaceWritesAndReindexes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sample.rs", "pub fn helper(x: i32) -> i32 { x * 2 }\n")
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	result, err := Replace(cfg, db, "sample.rs", "helper",
		"pub fn helper(x: i32) -> i32 { x * 3 }", false)
	require.NoError(t, err)
	assert.True(t, result.Written)

	onDisk, err := os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), "x * 3")

	f, err := db.GetFileByPath("sample.rs")
	require.NoError(t, err)
	chunks, err := db.GetChunksForFile(f.ID)
	require.NoError(t, err)
	var found bool
	for _, c := range chunks {
		if c.Ident == "helper" {
			found = true
			assert.Contains(t, c.Content, "x * 3")
		}
	}
	assert.True(t, found)
}

// TestReplaceWithBrokenSyntaxLeavesFileUnchanged covers E4: a syntactically
// invalid replacement is rejected and the file on disk is untouched.
func TestReplaceWithBrokenSyntaxLeavesFileUnchanged(t *testing.T) {
	root := t.TempDir()
	original := "pub fn helper(x: i32) -> i32 { x * 2 }\n"
	writeFile(t, root, "sample.rs", original)
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = Replace(cfg, db, "sample.rs", "helper", "pub fn helper( {", false)
	require.Error(t, err)

	onDisk, err := os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	assert.Equal(t, original, string(onDisk))
}

func TestReplaceAmbiguousSymbolFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sample.rs",
		"pub fn dup() -> i32 { 1 }\n\nimpl Foo { pub fn dup() -> i32 { 2 } }\n")
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = Replace(cfg, db, "sample.rs", "dup", "pub fn dup() -> i32 { 3 }", true)
	require.Error(t, err)
}

func TestInsertTopPrepends(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sample.rs", "pub fn helper() {}\n")
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	pos, err := ParsePosition("top")
	require.NoError(t, err)
	_, err = Insert(cfg, db, "sample.rs", pos, "pub fn added() {}")
	require.NoError(t, err)

	onDisk, err := os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	assert.Contains(t, string(onDisk)[:20], "added")
}

func TestInsertBottomAppends(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sample.rs", "pub fn helper() {}\n")
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	pos, err := ParsePosition("bottom")
	require.NoError(t, err)
	_, err = Insert(cfg, db, "sample.rs", pos, "pub fn added() {}")
	require.NoError(t, err)

	onDisk, err := os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	assert.True(t, len(onDisk) > 0)
	assert.Contains(t, string(onDisk), "added")
	idxHelper := strings.Index(string(onDisk), "helper")
	idxAdded := strings.Index(string(onDisk), "added")
	assert.Less(t, idxHelper, idxAdded)
}

func TestInsertBeforeAndAfterLine(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sample.rs", "pub fn a() {}\npub fn b() {}\npub fn c() {}\n")
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	posBefore, err := ParsePosition("before:2")
	require.NoError(t, err)
	_, err = Insert(cfg, db, "sample.rs", posBefore, "pub fn zz() {}")
	require.NoError(t, err)

	onDisk, err := os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(onDisk), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[1], "zz")

	posAfter, err := ParsePosition("after:3")
	require.NoError(t, err)
	_, err = Insert(cfg, db, "sample.rs", posAfter, "pub fn yy() {}")
	require.NoError(t, err)

	onDisk, err = os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	lines = strings.Split(strings.TrimRight(string(onDisk), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[3], "yy")
}

func TestInsertWithBrokenSyntaxLeavesFileUnchanged(t *testing.T) {
	root := t.TempDir()
	original := "pub fn a() {}\n"
	writeFile(t, root, "sample.rs", original)
	cfg := config.New(root)
	db, err := indexer.EnsureIndex(cfg)
	require.NoError(t, err)
	defer db.Close()

	pos, err := ParsePosition("bottom")
	require.NoError(t, err)
	_, err = Insert(cfg, db, "sample.rs", pos, "pub fn broken( {")
	require.Error(t, err)

	onDisk, err := os.ReadFile(filepath.Join(root, "sample.rs"))
	require.NoError(t, err)
	assert.Equal(t, original, string(onDisk))
}
