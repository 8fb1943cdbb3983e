package textparsers

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/rlm/internal/model"
)

const maxStructuredDepth = 3

// ParseJSON chunks a JSON document by its top-level-through-depth-3 keys.
// Each key path becomes a chunk whose content is that subtree re-marshaled
// as indented JSON. A document that cannot be parsed as an object (or is
// empty) becomes a single "_root" chunk holding the whole file.
func ParseJSON(source string, fileID int64) []*model.Chunk {
	var root any
	if err := json.Unmarshal([]byte(source), &root); err != nil {
		return rootFallback(source, fileID)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return rootFallback(source, fileID)
	}
	entries := collectEntries(obj, nil, 1)
	return buildStructuredChunks(source, fileID, entries, func(v any) string {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	})
}

// ParseYAML chunks a YAML document the same way as ParseJSON, using
// gopkg.in/yaml.v3 (already an indirect dependency via viper) to decode.
func ParseYAML(source string, fileID int64) []*model.Chunk {
	var root any
	if err := yaml.Unmarshal([]byte(source), &root); err != nil {
		return rootFallback(source, fileID)
	}
	obj, ok := normalizeYAMLMap(root)
	if !ok {
		return rootFallback(source, fileID)
	}
	entries := collectEntries(obj, nil, 1)
	return buildStructuredChunks(source, fileID, entries, func(v any) string {
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return strings.TrimRight(string(b), "\n")
	})
}

// ParseTOML chunks a TOML document the same way, using pelletier/go-toml/v2.
func ParseTOML(source string, fileID int64) []*model.Chunk {
	var obj map[string]any
	if err := toml.Unmarshal([]byte(source), &obj); err != nil {
		return rootFallback(source, fileID)
	}
	entries := collectEntries(obj, nil, 1)
	return buildStructuredChunks(source, fileID, entries, func(v any) string {
		b, err := toml.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return strings.TrimRight(string(b), "\n")
	})
}

// normalizeYAMLMap coerces yaml.v3's map[string]interface{} (for string
// keys) result into map[string]any, since yaml.v3 always decodes mapping
// nodes to map[string]interface{} when the target is `any`.
func normalizeYAMLMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

type structuredEntry struct {
	path  string
	key   string
	value any
}

// collectEntries walks obj recording one entry per key reachable within
// maxStructuredDepth levels, descending into nested maps while budget
// remains and leaving deeper subtrees folded into their depth-3 ancestor's
// entry. Arrays whose elements are all objects (JSON arrays of objects,
// YAML/TOML arrays of tables) are iterated per element under a "key[i]"
// path segment rather than collapsed into one opaque leaf.
func collectEntries(obj map[string]any, prefix []string, depth int) []structuredEntry {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []structuredEntry
	for _, k := range keys {
		path := append(append([]string{}, prefix...), k)
		v := obj[k]
		if depth < maxStructuredDepth {
			if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
				out = append(out, collectEntries(nested, path, depth+1)...)
				continue
			}
			if elems := objectElements(v); len(elems) > 0 {
				for i, elem := range elems {
					elemPath := append(append([]string{}, prefix...), k+"["+strconv.Itoa(i)+"]")
					if len(elem) > 0 {
						out = append(out, collectEntries(elem, elemPath, depth+1)...)
					} else {
						out = append(out, structuredEntry{path: strings.Join(elemPath, "."), key: k, value: elem})
					}
				}
				continue
			}
		}
		out = append(out, structuredEntry{path: strings.Join(path, "."), key: k, value: v})
	}
	return out
}

// objectElements returns v's elements when v is a non-empty array whose
// entries are all objects, nil otherwise. go-toml decodes an array of
// tables as []map[string]any while encoding/json and yaml.v3 produce
// []any, so both shapes are accepted.
func objectElements(v any) []map[string]any {
	switch arr := v.(type) {
	case []map[string]any:
		return arr
	case []any:
		out := make([]map[string]any, 0, len(arr))
		for _, item := range arr {
			m, ok := item.(map[string]any)
			if !ok {
				return nil
			}
			out = append(out, m)
		}
		return out
	default:
		return nil
	}
}

// keyRoleKind tags a chunk by its key's conventional role in common
// config files (package.json, tsconfig, lint configs), falling back to
// the value's type name, mirroring determine_json_kind.
func keyRoleKind(key string, value any) model.ChunkKind {
	switch strings.ToLower(key) {
	case "name", "version", "main", "module", "types":
		return model.ChunkKind("package")
	case "scripts":
		return model.ChunkKind("scripts")
	case "dependencies", "devdependencies", "peerdependencies", "optionaldependencies":
		return model.ChunkKind("deps")
	case "engines", "browserslist":
		return model.ChunkKind("compat")
	case "compileroptions":
		return model.ChunkKind("tsconfig")
	case "include", "exclude", "files":
		return model.ChunkKind("files")
	case "extends":
		return model.ChunkKind("extends")
	case "rules":
		return model.ChunkKind("rules")
	case "plugins":
		return model.ChunkKind("plugins")
	case "env", "environment", "globals":
		return model.ChunkKind("env")
	case "config", "settings", "options":
		return model.ChunkKind("config")
	default:
		return model.ChunkKind(typeName(value))
	}
}

// typeName names a decoded value's type in the JSON vocabulary all three
// structured formats share.
func typeName(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any, []map[string]any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case nil:
		return "null"
	case int, int64, uint64, float32, float64, json.Number:
		return "number"
	default:
		return "string"
	}
}

// buildStructuredChunks turns each entry into a chunk tagged by the role of
// its top-level key (or, for a key with no role, by the value's type) with
// a `"<key>": <type-name>` signature, locating
// its best-effort start line by searching source for the entry's key, and
// falling back to a single _root chunk if no entries were found at all.
func buildStructuredChunks(source string, fileID int64, entries []structuredEntry, render func(any) string) []*model.Chunk {
	if len(entries) == 0 {
		return rootFallback(source, fileID)
	}
	lineStarts := lineStartOffsets(source)

	var chunks []*model.Chunk
	for _, e := range entries {
		line := findKeyLine(source, lineStarts, e.key)
		content := render(e.value)
		sig := `"` + e.key + `": ` + typeName(e.value)
		topKey, _, _ := strings.Cut(e.path, ".")
		topKey, _, _ = strings.Cut(topKey, "[")
		chunks = append(chunks, &model.Chunk{
			FileID:    fileID,
			StartLine: line,
			EndLine:   line + uint32(strings.Count(content, "\n")),
			StartByte: lineStarts[line-1],
			EndByte:   lineStarts[line-1] + uint32(len(content)),
			Kind:      keyRoleKind(topKey, e.value),
			Ident:     e.path,
			Signature: &sig,
			Content:   content,
		})
	}
	return chunks
}

func rootFallback(source string, fileID int64) []*model.Chunk {
	return []*model.Chunk{{
		FileID:    fileID,
		StartLine: 1,
		EndLine:   uint32(strings.Count(source, "\n") + 1),
		StartByte: 0,
		EndByte:   uint32(len(source)),
		Kind:      model.KindSection,
		Ident:     "_root",
		Content:   source,
	}}
}

func lineStartOffsets(source string) []uint32 {
	offsets := []uint32{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			offsets = append(offsets, uint32(i+1))
		}
	}
	return offsets
}

// findKeyLine returns the 1-based line of the first occurrence of a
// quoted-or-bare key token matching leaf, or 1 if not found.
func findKeyLine(source string, lineStarts []uint32, leaf string) uint32 {
	candidates := []string{"\"" + leaf + "\"", leaf + ":", leaf + " ="}
	bestIdx := -1
	for _, c := range candidates {
		if idx := strings.Index(source, c); idx >= 0 && (bestIdx == -1 || idx < bestIdx) {
			bestIdx = idx
		}
	}
	if bestIdx == -1 {
		return 1
	}
	line := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > uint32(bestIdx) })
	if line == 0 {
		return 1
	}
	return uint32(line)
}
