package query

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// ReadResult is the read operation's full output. FallbackRecommended is
// set when the file's last parse was not complete, warning the caller that
// symbol-addressed reads may not line up with the source.
type ReadResult struct {
	Path                string              `json:"p"`
	Content             string              `json:"c"`
	FallbackRecommended bool                `json:"fallback_recommended,omitempty"`
	Tokens              model.TokenEstimate `json:"t"`
}

// Read returns path's full text, or a sub-slice selected by a symbol name
// (the chunk named symbol within the file), a section heading (matched by
// chunk identifier the same way, for markdown's section chunks), or a
// 1-based inclusive "START-END" line range.
func (e *Engine) Read(path, selector string) (*ReadResult, error) {
	abs := filepath.Join(e.Cfg.ProjectRoot, path)
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.NotFound, path, err)
	}
	source := string(data)

	f, err := e.DB.GetFileByPath(path)
	if err != nil {
		return nil, err
	}
	fallback := f != nil && f.ParseQuality != "complete"

	if selector == "" {
		return &ReadResult{Path: path, Content: source, FallbackRecommended: fallback, Tokens: model.EstimateIO(0, len(source))}, nil
	}

	if start, end, ok := parseLineRange(selector); ok {
		lines := strings.Split(source, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		content := sliceLines(lines, start, end)
		return &ReadResult{Path: path, Content: content, FallbackRecommended: fallback, Tokens: model.EstimateIO(0, len(content))}, nil
	}

	if f == nil {
		return nil, rlmerr.New(rlmerr.NotFound, path, "file not indexed")
	}
	chunks, err := e.DB.GetChunksForFile(f.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		if c.Ident == selector {
			return &ReadResult{Path: path, Content: c.Content, FallbackRecommended: fallback, Tokens: model.EstimateIO(0, len(c.Content))}, nil
		}
	}
	return nil, rlmerr.New(rlmerr.NotFound, path, "no symbol or section named "+selector)
}

// parseLineRange recognizes a 1-based inclusive "START-END" selector.
func parseLineRange(s string) (start, end int, ok bool) {
	idx := strings.IndexByte(s, '-')
	if idx <= 0 || idx == len(s)-1 {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(s[:idx])
	end, err2 := strconv.Atoi(s[idx+1:])
	if err1 != nil || err2 != nil || start < 1 || end < start {
		return 0, 0, false
	}
	return start, end, true
}
