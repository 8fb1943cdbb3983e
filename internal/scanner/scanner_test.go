package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/rlm/internal/config"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, data, 0o644))
}

func candidateFor(t *testing.T, cands []FileCandidate, rel string) FileCandidate {
	t.Helper()
	for _, c := range cands {
		if c.RelPath == rel {
			return c
		}
	}
	t.Fatalf("no candidate for %s among %d candidates", rel, len(cands))
	return FileCandidate{}
}

func TestWalkCategorizesSkipReasons(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", []byte("fn main() {}\n"))
	writeFile(t, root, "notes.unknownext", []byte("hello\n"))
	writeFile(t, root, "bin.rs", []byte{0xFF, 0xFE, 0x00, 0x01})

	cfg := config.New(root)
	cands, err := Walk(cfg)
	require.NoError(t, err)

	assert.Equal(t, SkipNone, candidateFor(t, cands, "src/main.rs").Skip)
	assert.Equal(t, SkipUnsupportedExtension, candidateFor(t, cands, "notes.unknownext").Skip)
	assert.Equal(t, SkipNonUTF8, candidateFor(t, cands, "bin.rs").Skip)
}

func TestWalkSkipsTooLargeFiles(t *testing.T) {
	root := t.TempDir()
	big := make([]byte, 200)
	for i := range big {
		big[i] = 'a'
	}
	writeFile(t, root, "big.rs", big)

	cfg := config.New(root)
	cfg.Settings.Indexing.MaxFileSizeMB = 0
	cands, err := Walk(cfg)
	require.NoError(t, err)

	assert.Equal(t, SkipTooLarge, candidateFor(t, cands, "big.rs").Skip)
}

func TestWalkSkipsDefaultIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.rs", []byte("fn main() {}\n"))
	writeFile(t, root, "node_modules/pkg/index.js", []byte("module.exports = {}\n"))
	writeFile(t, root, ".git/HEAD", []byte("ref: refs/heads/main\n"))

	cfg := config.New(root)
	cands, err := Walk(cfg)
	require.NoError(t, err)

	for _, c := range cands {
		assert.NotContains(t, c.RelPath, "node_modules")
		assert.NotContains(t, c.RelPath, ".git/")
	}
}

func TestWalkHashesAreStableAndContentSensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rs", []byte("fn a() {}\n"))
	writeFile(t, root, "b.rs", []byte("fn a() {}\n"))
	writeFile(t, root, "c.rs", []byte("fn b() {}\n"))

	cfg := config.New(root)
	cands, err := Walk(cfg)
	require.NoError(t, err)

	a := candidateFor(t, cands, "a.rs")
	b := candidateFor(t, cands, "b.rs")
	c := candidateFor(t, cands, "c.rs")

	assert.Equal(t, a.Hash, b.Hash, "identical content must hash identically")
	assert.NotEqual(t, a.Hash, c.Hash, "different content must hash differently")
}

func TestWalkHonorsGitignorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", []byte("generated/\n*.gen.go\n"))
	writeFile(t, root, "src/main.rs", []byte("fn main() {}\n"))
	writeFile(t, root, "generated/out.rs", []byte("fn gen() {}\n"))
	writeFile(t, root, "api.gen.go", []byte("package api\n"))

	cfg := config.New(root)
	cands, err := Walk(cfg)
	require.NoError(t, err)

	for _, c := range cands {
		assert.NotContains(t, c.RelPath, "generated/")
		assert.NotContains(t, c.RelPath, ".gen.go")
	}
	assert.Equal(t, SkipNone, candidateFor(t, cands, "src/main.rs").Skip)
}

func TestLanguageForPathCustomMappingOverridesDefault(t *testing.T) {
	assert.Equal(t, "rust", LanguageForPath("src/main.rs", nil))
	assert.Equal(t, "", LanguageForPath("src/main.zzz", nil))
	custom := map[string]string{"zzz": "rust"}
	assert.Equal(t, "rust", LanguageForPath("src/main.zzz", custom))
}

func TestIsCodeLanguage(t *testing.T) {
	assert.True(t, IsCodeLanguage("rust"))
	assert.True(t, IsCodeLanguage("tsx"))
	assert.False(t, IsCodeLanguage("markdown"))
	assert.False(t, IsCodeLanguage("plaintext"))
	assert.False(t, IsCodeLanguage("nonexistent"))
}

func TestDetectUIContext(t *testing.T) {
	assert.Equal(t, "component", DetectUIContext("src/components/Button.tsx"))
	assert.Equal(t, "page", DetectUIContext("src/Pages/Home.tsx"))
	assert.Equal(t, "", DetectUIContext("src/lib.rs"))
}
