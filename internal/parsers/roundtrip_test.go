package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/rlm/internal/model"
)

// assertByteExact checks the byte-exact invariant (spec §8 property 1) for
// every non-synthetic chunk: source[StartByte:EndByte] must equal Content.
func assertByteExact(t *testing.T, source string, chunks []*model.Chunk) {
	t.Helper()
	src := []byte(source)
	for _, c := range chunks {
		if c.Ident == model.SyntheticImports {
			continue
		}
		require.LessOrEqual(t, c.EndByte, uint32(len(src)), "chunk %s end byte out of range", c.Ident)
		require.LessOrEqual(t, c.StartByte, c.EndByte, "chunk %s start > end", c.Ident)
		assert.Equal(t, c.Content, string(src[c.StartByte:c.EndByte]), "byte-exact mismatch for chunk %s", c.Ident)
	}
}

func TestRustRoundTripE1Scenario(t *testing.T) {
	source := "pub struct Config { pub name: String, pub value: i64 }\n\n" +
		"pub fn helper(x: i32) -> i32 { x * 2 }\n\n" +
		"impl Config { pub fn new(name: String, value: i64) -> Self { Self { name, value } } }\n"

	p := NewRustParser()
	chunks, refs, err := p.ParseChunksAndRefs(source, 1)
	require.NoError(t, err)
	assertByteExact(t, source, chunks)

	var haveConfigStruct, haveHelperFn, haveNewMethod bool
	for _, c := range chunks {
		switch {
		case c.Ident == "Config" && c.Kind == model.KindStruct:
			haveConfigStruct = true
		case c.Ident == "helper" && c.Kind == model.KindFunction:
			haveHelperFn = true
		case c.Ident == "new" && c.Kind == model.KindMethod:
			haveNewMethod = true
			require.NotNil(t, c.Parent)
			assert.Equal(t, "Config", *c.Parent)
		}
	}
	assert.True(t, haveConfigStruct, "expected Config struct chunk")
	assert.True(t, haveHelperFn, "expected helper fn chunk")
	assert.True(t, haveNewMethod, "expected new method chunk with parent Config")

	assert.True(t, p.ValidateSyntax(source))
	_ = refs
}

func TestRustRoundTripUnicodeIdentifiers(t *testing.T) {
	source := "pub fn résumé_calc(café: i32) -> i32 {\n    café + 1\n}\n"
	p := NewRustParser()
	chunks, _, err := p.ParseChunksAndRefs(source, 1)
	require.NoError(t, err)
	assertByteExact(t, source, chunks)

	var found bool
	for _, c := range chunks {
		if c.Ident == "résumé_calc" {
			found = true
		}
	}
	assert.True(t, found, "expected unicode-identifier fn chunk")
}

func TestRustRoundTripCRLF(t *testing.T) {
	source := "pub fn add(a: i32, b: i32) -> i32 {\r\n    a + b\r\n}\r\n"
	p := NewRustParser()
	chunks, _, err := p.ParseChunksAndRefs(source, 1)
	require.NoError(t, err)
	assertByteExact(t, source, chunks)
}

func TestGoRoundTrip(t *testing.T) {
	source := "package main\n\nfunc Helper(x int) int {\n\treturn x * 2\n}\n\ntype Server struct {\n\tAddr string\n}\n\nfunc (s *Server) Start() error {\n\treturn nil\n}\n"
	p := NewGoParser()
	chunks, _, err := p.ParseChunksAndRefs(source, 1)
	require.NoError(t, err)
	assertByteExact(t, source, chunks)

	var haveHelper, haveServer, haveStart bool
	for _, c := range chunks {
		switch c.Ident {
		case "Helper":
			haveHelper = true
			require.NotNil(t, c.Visibility)
			assert.Equal(t, "pub", *c.Visibility)
		case "Server":
			haveServer = true
		case "Start":
			haveStart = true
			assert.Equal(t, model.KindMethod, c.Kind)
		}
	}
	assert.True(t, haveHelper)
	assert.True(t, haveServer)
	assert.True(t, haveStart)
}

func TestPythonRoundTripVisibility(t *testing.T) {
	source := "class Widget:\n    def __init__(self):\n        pass\n\n    def _private(self):\n        pass\n\n    def public(self):\n        pass\n"
	p := NewPythonParser()
	chunks, _, err := p.ParseChunksAndRefs(source, 1)
	require.NoError(t, err)
	assertByteExact(t, source, chunks)

	vis := map[string]string{}
	for _, c := range chunks {
		if c.Visibility != nil {
			vis[c.Ident] = *c.Visibility
		}
	}
	assert.Equal(t, "dunder", vis["__init__"])
	assert.Equal(t, "private", vis["_private"])
	assert.Equal(t, "public", vis["public"])
}

func TestParseWithQualityReportsPartialOnBrokenSource(t *testing.T) {
	p := NewRustParser()
	broken := "pub fn broken( {\n"
	res, err := p.ParseWithQuality(broken, 1)
	require.NoError(t, err)
	assert.NotEqual(t, "complete", res.Quality.Tag)
	assert.True(t, res.Quality.FallbackRecommended())
	assert.NotEmpty(t, res.Quality.ErrorLines)
}

func TestParseWithQualityReportsCompleteOnCleanSource(t *testing.T) {
	p := NewRustParser()
	clean := "pub fn clean(x: i32) -> i32 { x }\n"
	res, err := p.ParseWithQuality(clean, 1)
	require.NoError(t, err)
	assert.Equal(t, "complete", res.Quality.Tag)
	assert.False(t, res.Quality.FallbackRecommended())
}
