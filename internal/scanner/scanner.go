package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/rlm/internal/config"
)

// defaultSkipDirs mirrors the default exclude set indexing.exclude_patterns
// ships with, applied even when a project has no .rlm/config.toml yet.
var defaultSkipDirs = map[string]bool{
	".git": true, "node_modules": true, "target": true, "dist": true,
	"__pycache__": true, ".venv": true, "vendor": true,
}

// SkipReason categorizes why a candidate file was not indexed.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipUnsupportedExtension
	SkipUnsupportedLanguage
	SkipTooLarge
	SkipNonUTF8
	SkipIOError
)

// FileCandidate is one file found by Walk, ready to be handed to the
// dispatcher once the caller decides it should be (re-)indexed.
type FileCandidate struct {
	AbsPath      string
	RelPath      string
	Extension    string
	Lang         string
	SizeBytes    int64
	Hash         string
	Skip         SkipReason
}

// Walk scans cfg.ProjectRoot for candidate files, honoring its exclude
// patterns and the default skip-list, hashing content and classifying
// language along the way. Directories are skipped outright (not reported),
// and so are hidden, excluded and .gitignore-matched files; every other
// file is reported, tagged with a SkipReason when it cannot be indexed, so
// the caller can produce accurate skip statistics.
func Walk(cfg *config.Config) ([]FileCandidate, error) {
	var out []FileCandidate
	ignored := loadGitignoreMatchers(cfg.ProjectRoot)

	err := filepath.WalkDir(cfg.ProjectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(cfg.ProjectRoot, path)
		if relErr != nil {
			return nil
		}
		rel = strings.ReplaceAll(rel, "\\", "/")
		if rel == "." {
			return nil
		}
		base := d.Name()

		if d.IsDir() {
			if defaultSkipDirs[base] || (strings.HasPrefix(base, ".") && base != ".") || cfg.ShouldExclude(rel) || matchesAny(ignored, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(base, ".") || cfg.ShouldExclude(rel) || matchesAny(ignored, rel) {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			out = append(out, FileCandidate{AbsPath: path, RelPath: rel, Skip: SkipIOError})
			return nil
		}

		cand := FileCandidate{
			AbsPath:   path,
			RelPath:   rel,
			Extension: extension(rel),
			SizeBytes: info.Size(),
		}
		cand.Lang = LanguageForPath(rel, cfg.Settings.Languages.CustomMappings)
		if cand.Lang == "" {
			cand.Skip = SkipUnsupportedExtension
			out = append(out, cand)
			return nil
		}
		if cfg.IsFileTooLarge(cand.SizeBytes) {
			cand.Skip = SkipTooLarge
			out = append(out, cand)
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			cand.Skip = SkipIOError
			out = append(out, cand)
			return nil
		}
		if !utf8.Valid(data) {
			cand.Skip = SkipNonUTF8
			out = append(out, cand)
			return nil
		}

		sum := sha256.Sum256(data)
		cand.Hash = hex.EncodeToString(sum[:])
		out = append(out, cand)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// loadGitignoreMatchers compiles the project root's .gitignore into glob
// matchers, the same compile-once idiom the config exclude patterns use.
// Negation patterns ("!...") are not honored; a path a .gitignore line
// matches is simply never indexed.
func loadGitignoreMatchers(root string) []glob.Glob {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	var out []glob.Glob
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		trimmed := strings.Trim(line, "/")
		g, compileErr := glob.Compile("*" + trimmed + "*")
		if compileErr != nil {
			continue
		}
		out = append(out, g)
	}
	return out
}

func matchesAny(matchers []glob.Glob, rel string) bool {
	for _, m := range matchers {
		if m.Match(rel) {
			return true
		}
	}
	return false
}

// ReadSource re-reads a candidate's content as a string. Walk only hashes
// the bytes; the indexer calls this once it has decided the file actually
// needs (re-)parsing, avoiding holding every file's content in memory for
// the whole scan.
func ReadSource(absPath string) (string, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// uiContextRules maps a path-segment marker to the tag applied to every
// chunk extracted from a matching file.
var uiContextRules = []struct {
	marker string
	tag    string
}{
	{"/components/", "component"},
	{"/views/", "view"},
	{"/pages/", "page"},
	{"/templates/", "template"},
	{"/layouts/", "layout"},
	{"/screens/", "screen"},
}

// DetectUIContext classifies UI-related paths (views/, pages/, components/,
// ...) into a tag applied to all chunks of that file. Returns "" when relPath
// carries no recognized UI marker.
func DetectUIContext(relPath string) string {
	padded := "/" + strings.ToLower(relPath)
	for _, rule := range uiContextRules {
		if strings.Contains(padded, rule.marker) {
			return rule.tag
		}
	}
	return ""
}
