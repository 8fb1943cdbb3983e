package query

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// Partition is one slab of a partitioned file. Tokens here is a bare count
// (not a TokenEstimate pair), matching the original's per-partition shape.
type Partition struct {
	Index     int    `json:"i"`
	StartLine int    `json:"sl"`
	EndLine   int    `json:"el"`
	Content   string `json:"c"`
	Tokens    uint64 `json:"t"`
}

// PartitionResult is the partition operation's full output.
type PartitionResult struct {
	File       string              `json:"f"`
	Partitions []Partition         `json:"p"`
	Tokens     model.TokenEstimate `json:"t"`
}

// Partition splits path's content into slabs per strategy:
//   - "uniform:N"  — equal N-line slabs.
//   - "semantic"   — existing chunks, in start_line order.
//   - "keyword:RE" — a new slab whenever a line matches RE.
//
// semantic falls back to uniform(50) when the file is unindexed or has no
// chunks, since there is nothing to partition by otherwise.
func (e *Engine) Partition(path, strategy string) (*PartitionResult, error) {
	abs := filepath.Join(e.Cfg.ProjectRoot, path)
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.NotFound, path, err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var parts []Partition
	switch {
	case strategy == "semantic":
		parts, err = e.semanticPartition(path, lines)
	case strings.HasPrefix(strategy, "uniform:"):
		parts = uniformPartition(lines, parseIntOr(strings.TrimPrefix(strategy, "uniform:"), 50))
	case strings.HasPrefix(strategy, "keyword:"):
		parts, err = keywordPartition(lines, strings.TrimPrefix(strategy, "keyword:"))
	default:
		parts = uniformPartition(lines, 50)
	}
	if err != nil {
		return nil, err
	}

	var outChars int
	for _, p := range parts {
		outChars += len(p.Content)
	}
	return &PartitionResult{File: path, Partitions: parts, Tokens: model.EstimateIO(len(data), outChars)}, nil
}

func (e *Engine) semanticPartition(path string, lines []string) ([]Partition, error) {
	f, err := e.DB.GetFileByPath(path)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return uniformPartition(lines, 50), nil
	}
	chunks, err := e.DB.GetChunksForFile(f.ID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return uniformPartition(lines, 50), nil
	}

	parts := make([]Partition, 0, len(chunks))
	for i, c := range chunks {
		parts = append(parts, Partition{
			Index:     i,
			StartLine: int(c.StartLine),
			EndLine:   int(c.EndLine),
			Content:   sliceLines(lines, int(c.StartLine), int(c.EndLine)),
			Tokens:    model.EstimateTokensStr(c.Content),
		})
	}
	return parts, nil
}

func uniformPartition(lines []string, size int) []Partition {
	if size <= 0 {
		size = 50
	}
	var parts []Partition
	for start := 1; start <= len(lines); start += size {
		end := start + size - 1
		if end > len(lines) {
			end = len(lines)
		}
		content := sliceLines(lines, start, end)
		parts = append(parts, Partition{
			Index:     len(parts),
			StartLine: start,
			EndLine:   end,
			Content:   content,
			Tokens:    model.EstimateTokensStr(content),
		})
	}
	return parts
}

func keywordPartition(lines []string, pattern string) ([]Partition, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, rlmerr.New(rlmerr.Other, "", "invalid keyword pattern: "+err.Error())
	}
	var parts []Partition
	start := 1
	for i, line := range lines {
		lineNo := i + 1
		if re.MatchString(line) && lineNo > start {
			content := sliceLines(lines, start, lineNo-1)
			parts = append(parts, Partition{
				Index: len(parts), StartLine: start, EndLine: lineNo - 1,
				Content: content, Tokens: model.EstimateTokensStr(content),
			})
			start = lineNo
		}
	}
	if start <= len(lines) {
		content := sliceLines(lines, start, len(lines))
		parts = append(parts, Partition{
			Index: len(parts), StartLine: start, EndLine: len(lines),
			Content: content, Tokens: model.EstimateTokensStr(content),
		})
	}
	return parts, nil
}

// sliceLines returns the 1-based inclusive [start, end] line range joined
// by newlines.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

func parseIntOr(s string, fallback int) int {
	n := 0
	any := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		any = true
		n = n*10 + int(r-'0')
	}
	if !any {
		return fallback
	}
	return n
}
