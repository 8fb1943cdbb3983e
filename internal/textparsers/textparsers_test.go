package textparsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/rlm/internal/model"
)

func TestParseMarkdownSingleChunkWhenNoHeadings(t *testing.T) {
	chunks := ParseMarkdown("just some text\nwith no headings\n", 1)
	require.Len(t, chunks, 1)
	assert.Equal(t, "(document)", chunks[0].Ident)
	assert.Equal(t, model.KindSection, chunks[0].Kind)
}

func TestParseMarkdownNestsHeadingsByLevel(t *testing.T) {
	source := "# Top\n\nintro\n\n## Sub\n\nbody\n\n## Sub2\n\nmore\n"
	chunks := ParseMarkdown(source, 1)
	require.Len(t, chunks, 3)

	byIdent := map[string]*model.Chunk{}
	for _, c := range chunks {
		byIdent[c.Ident] = c
	}

	require.Contains(t, byIdent, "Top")
	require.Contains(t, byIdent, "Sub")
	require.Contains(t, byIdent, "Sub2")

	assert.Nil(t, byIdent["Top"].Parent)
	require.NotNil(t, byIdent["Sub"].Parent)
	assert.Equal(t, "Top", *byIdent["Sub"].Parent)
	require.NotNil(t, byIdent["Sub2"].Parent)
	assert.Equal(t, "Top", *byIdent["Sub2"].Parent)

	assert.Contains(t, byIdent["Sub"].Content, "body")
	assert.NotContains(t, byIdent["Sub"].Content, "more")
}

func TestParseMarkdownByteExactContent(t *testing.T) {
	source := "# Title\n\nhello world\n"
	chunks := ParseMarkdown(source, 1)
	require.Len(t, chunks, 1)
	c := chunks[0]
	assert.Equal(t, source[c.StartByte:c.EndByte], c.Content)
}

func TestParsePDFSplitsOnFormFeed(t *testing.T) {
	source := "page one text\nmore\f page two text\f"
	chunks := ParsePDF(source, 1)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Page 1", chunks[0].Ident)
	assert.Equal(t, model.KindPage, chunks[0].Kind)
	assert.Contains(t, chunks[0].Content, "page one text")
	assert.Equal(t, "Page 2", chunks[1].Ident)
	assert.Contains(t, chunks[1].Content, "page two text")
}

func TestParsePDFSinglePageNoFormFeed(t *testing.T) {
	chunks := ParsePDF("only one page\n", 1)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Page 1", chunks[0].Ident)
}

func TestParsePDFSkipsEmptyPages(t *testing.T) {
	chunks := ParsePDF("first\f\f\fsecond\f", 1)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Page 1", chunks[0].Ident)
	assert.Equal(t, "Page 4", chunks[1].Ident)
}

func TestParsePlaintextWholeFileSingleChunk(t *testing.T) {
	source := "line one\nline two\nline three\n"
	chunks := ParsePlaintext(source, 1)
	require.Len(t, chunks, 1)
	assert.Equal(t, "_root", chunks[0].Ident)
	assert.Equal(t, source, chunks[0].Content)
	assert.Equal(t, uint32(1), chunks[0].StartLine)
}

func TestParseJSONChunksTopLevelKeys(t *testing.T) {
	source := `{"name": "widget", "version": "1.0", "nested": {"inner": "value"}}`
	chunks := ParseJSON(source, 1)
	require.NotEmpty(t, chunks)

	byIdent := map[string]*model.Chunk{}
	for _, c := range chunks {
		byIdent[c.Ident] = c
	}
	require.Contains(t, byIdent, "name")
	require.Contains(t, byIdent, "version")
	require.Contains(t, byIdent, "nested.inner")

	// package.json-style keys are tagged by role, everything else by the
	// value's type, and every chunk carries a "<key>": <type> signature.
	assert.Equal(t, model.ChunkKind("package"), byIdent["name"].Kind)
	assert.Equal(t, model.ChunkKind("package"), byIdent["version"].Kind)
	assert.Equal(t, model.ChunkKind("string"), byIdent["nested.inner"].Kind)
	require.NotNil(t, byIdent["nested.inner"].Signature)
	assert.Equal(t, `"inner": string`, *byIdent["nested.inner"].Signature)
}

func TestParseJSONTagsKindByKeyRole(t *testing.T) {
	source := `{"scripts": {"build": "tsc"}, "dependencies": {"left-pad": "1.0.0"}, "count": 3, "enabled": true}`
	chunks := ParseJSON(source, 1)
	require.NotEmpty(t, chunks)

	kinds := map[string]model.ChunkKind{}
	sigs := map[string]string{}
	for _, c := range chunks {
		kinds[c.Ident] = c.Kind
		if c.Signature != nil {
			sigs[c.Ident] = *c.Signature
		}
	}
	assert.Equal(t, model.ChunkKind("scripts"), kinds["scripts.build"])
	assert.Equal(t, model.ChunkKind("deps"), kinds["dependencies.left-pad"])
	assert.Equal(t, model.ChunkKind("number"), kinds["count"])
	assert.Equal(t, model.ChunkKind("bool"), kinds["enabled"])
	assert.Equal(t, `"count": number`, sigs["count"])
	assert.Equal(t, `"enabled": bool`, sigs["enabled"])
}

func TestParseJSONIteratesArraysOfObjects(t *testing.T) {
	source := `{"servers": [{"host": "a"}, {"host": "b"}]}`
	chunks := ParseJSON(source, 1)
	require.NotEmpty(t, chunks)

	idents := map[string]bool{}
	for _, c := range chunks {
		idents[c.Ident] = true
	}
	assert.True(t, idents["servers[0].host"])
	assert.True(t, idents["servers[1].host"])
	assert.False(t, idents["servers"], "an array of objects must be iterated, not collapsed to one leaf")
}

func TestParseJSONFallsBackToRootOnInvalidJSON(t *testing.T) {
	chunks := ParseJSON("not json at all {{{", 1)
	require.Len(t, chunks, 1)
	assert.Equal(t, "_root", chunks[0].Ident)
}

func TestParseJSONFallsBackToRootForNonObjectTop(t *testing.T) {
	chunks := ParseJSON(`["a", "b", "c"]`, 1)
	require.Len(t, chunks, 1)
	assert.Equal(t, "_root", chunks[0].Ident)
}

func TestParseYAMLChunksTopLevelKeys(t *testing.T) {
	source := "name: widget\nversion: \"1.0\"\nnested:\n  inner: value\n"
	chunks := ParseYAML(source, 1)
	require.NotEmpty(t, chunks)

	idents := map[string]bool{}
	for _, c := range chunks {
		idents[c.Ident] = true
	}
	assert.True(t, idents["name"])
	assert.True(t, idents["nested.inner"])
}

func TestParseTOMLChunksTopLevelKeys(t *testing.T) {
	source := "name = \"widget\"\n\n[nested]\ninner = \"value\"\n"
	chunks := ParseTOML(source, 1)
	require.NotEmpty(t, chunks)

	idents := map[string]bool{}
	for _, c := range chunks {
		idents[c.Ident] = true
	}
	assert.True(t, idents["name"])
	assert.True(t, idents["nested.inner"])
}

func TestParseTOMLIteratesArraysOfTables(t *testing.T) {
	source := "[[servers]]\nhost = \"a\"\n\n[[servers]]\nhost = \"b\"\n"
	chunks := ParseTOML(source, 1)
	require.NotEmpty(t, chunks)

	idents := map[string]bool{}
	for _, c := range chunks {
		idents[c.Ident] = true
	}
	assert.True(t, idents["servers[0].host"])
	assert.True(t, idents["servers[1].host"])
}

func TestParseYAMLIteratesArraysOfMappings(t *testing.T) {
	source := "servers:\n  - host: a\n  - host: b\n"
	chunks := ParseYAML(source, 1)
	require.NotEmpty(t, chunks)

	idents := map[string]bool{}
	for _, c := range chunks {
		idents[c.Ident] = true
	}
	assert.True(t, idents["servers[0].host"])
	assert.True(t, idents["servers[1].host"])
}

func TestStructuredDepthLimitFoldsDeeperLevelsIntoParent(t *testing.T) {
	source := `{"a": {"b": {"c": {"d": "too deep"}}}}`
	chunks := ParseJSON(source, 1)
	require.NotEmpty(t, chunks)

	var found bool
	for _, c := range chunks {
		if c.Ident == "a.b.c" {
			found = true
			assert.Contains(t, c.Content, "d")
		}
		assert.NotEqual(t, "a.b.c.d", c.Ident, "depth beyond 3 must fold into its depth-3 ancestor")
	}
	assert.True(t, found, "expected a depth-3 chunk a.b.c")
}

func TestParseDispatchesByLanguage(t *testing.T) {
	mdChunks := Parse("markdown", "# Heading\n\nbody\n", 1)
	require.Len(t, mdChunks, 1)
	assert.Equal(t, "Heading", mdChunks[0].Ident)

	jsonChunks := Parse("json", `{"k": "v"}`, 1)
	require.Len(t, jsonChunks, 1)
	assert.Equal(t, "k", jsonChunks[0].Ident)

	plainChunks := Parse("plaintext", "anything\n", 1)
	require.Len(t, plainChunks, 1)
	assert.Equal(t, "_root", plainChunks[0].Ident)

	unknownChunks := Parse("some-unregistered-lang", "fallback text\n", 1)
	require.Len(t, unknownChunks, 1)
	assert.Equal(t, "_root", unknownChunks[0].Ident)
}

func TestParseMarkdownEndLineExcludesNextHeading(t *testing.T) {
	source := "# A\nline1\n# B\nline2\n"
	chunks := ParseMarkdown(source, 1)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		if c.Ident == "A" {
			assert.False(t, strings.Contains(c.Content, "# B"))
		}
	}
}
