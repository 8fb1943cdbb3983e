package query

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// GrepMatch is one matched line, with optional before/after context.
type GrepMatch struct {
	File    string   `json:"f"`
	Line    int      `json:"l"`
	Content string   `json:"c"`
	Before  []string `json:"b,omitempty"`
	After   []string `json:"a,omitempty"`
}

// GrepResult is the grep operation's full output.
type GrepResult struct {
	Matches []GrepMatch         `json:"m"`
	Tokens  model.TokenEstimate `json:"t"`
}

// Grep regex-matches lines across currently-indexed files read fresh off
// disk (not the FTS mirror, which only covers chunk text), with context
// lines before/after each hit.
func (e *Engine) Grep(pattern string, context int, pathFilter string) (*GrepResult, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, rlmerr.New(rlmerr.Other, "", "invalid grep pattern: "+err.Error())
	}

	files, err := e.sortedFiles(pathFilter)
	if err != nil {
		return nil, err
	}

	var matches []GrepMatch
	var outChars int
	for _, f := range files {
		abs := filepath.Join(e.Cfg.ProjectRoot, f.Path)
		data, readErr := os.ReadFile(abs)
		if readErr != nil {
			continue
		}
		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			m := GrepMatch{File: f.Path, Line: i + 1, Content: line}
			if context > 0 {
				m.Before = lines[max(0, i-context):i]
				m.After = lines[i+1 : min(len(lines), i+1+context)]
			}
			matches = append(matches, m)
			outChars += len(m.File) + len(m.Content)
			for _, b := range m.Before {
				outChars += len(b)
			}
			for _, a := range m.After {
				outChars += len(a)
			}
		}
	}

	return &GrepResult{Matches: matches, Tokens: model.EstimateIO(len(pattern), outChars)}, nil
}
