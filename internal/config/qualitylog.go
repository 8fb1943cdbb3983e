package config

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/rlm/internal/model"
	"github.com/mvp-joe/rlm/internal/rlmerr"
)

// QualityIssueKind tags the category of a partial-parse incident.
type QualityIssueKind string

const (
	IssueErrorNode       QualityIssueKind = "error_node"
	IssueIncompleteParse QualityIssueKind = "incomplete_parse"
	IssueParseFailed     QualityIssueKind = "parse_failed"
)

// QualityIssue is one append-only record in the quality log. ID is a
// fresh identifier for this one entry; every logged issue gets its own.
type QualityIssue struct {
	ID        string           `json:"id"`
	Timestamp int64            `json:"ts"`
	File      string           `json:"file"`
	Lang      string           `json:"lang"`
	Issue     QualityIssueKind `json:"issue"`
	Line      uint32           `json:"line,omitempty"`
	Context   string           `json:"context,omitempty"`
	Known     bool             `json:"known"`
	Test      string           `json:"test,omitempty"`
}

// knownIssuePattern matches a partial parse against a tracked
// tree-sitter grammar limitation, so that a recurring *covered* limit
// doesn't read as a fresh regression every time it's hit.
type knownIssuePattern struct {
	lang     string
	patterns []string
	testName string
}

func (k knownIssuePattern) matches(lang, context string) bool {
	if k.lang != lang || context == "" {
		return false
	}
	for _, p := range k.patterns {
		if strings.Contains(context, p) {
			return true
		}
	}
	return false
}

// knownIssues is the static known-issues registry: language + context
// substrings that map to tracked grammar limitations rather than live
// state, so the set of "expected" limitations doesn't drift at runtime.
var knownIssues = []knownIssuePattern{
	{lang: "java", patterns: []string{"record ", "sealed ", "permits "}, testName: "java_records"},
	{lang: "java", patterns: []string{"switch (", "case ", "->", "yield "}, testName: "java_pattern_switch"},
	{lang: "csharp", patterns: []string{"record ", "record struct"}, testName: "csharp_records"},
	{lang: "php", patterns: []string{"enum "}, testName: "php_enums"},
}

// annotateKnownIssue reports whether issue matches a tracked grammar
// limitation, returning the matching pattern's test name.
func annotateKnownIssue(lang, context string) (known bool, testName string) {
	for _, k := range knownIssues {
		if k.matches(lang, context) {
			return true, k.testName
		}
	}
	return false, ""
}

// extractContext trims line to at most 50 characters for a log entry's
// context slice.
func extractContext(source string, line uint32) string {
	if line == 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	idx := int(line) - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	trimmed := strings.TrimSpace(lines[idx])
	if len(trimmed) > 50 {
		return trimmed[:47] + "..."
	}
	return trimmed
}

// IssuesFromQuality builds the quality-log entries for one file's parse
// result. A Complete parse yields no entries.
func IssuesFromQuality(path, lang string, quality model.ParseQuality, source string) []QualityIssue {
	now := time.Now().Unix()
	switch quality.Tag {
	case "complete", "":
		return nil
	case "failed":
		return []QualityIssue{{ID: uuid.NewString(), Timestamp: now, File: path, Lang: lang, Issue: IssueParseFailed}}
	}

	if len(quality.ErrorLines) == 0 {
		return []QualityIssue{{ID: uuid.NewString(), Timestamp: now, File: path, Lang: lang, Issue: IssueIncompleteParse}}
	}

	out := make([]QualityIssue, 0, len(quality.ErrorLines))
	for _, line := range quality.ErrorLines {
		context := extractContext(source, line)
		known, testName := annotateKnownIssue(lang, context)
		out = append(out, QualityIssue{
			ID:        uuid.NewString(),
			Timestamp: now,
			File:      path,
			Lang:      lang,
			Issue:     IssueErrorNode,
			Line:      line,
			Context:   context,
			Known:     known,
			Test:      testName,
		})
	}
	return out
}

// LogQualityIssues appends issues to the configured quality log,
// dropping known issues unless quality.log_all_issues is set. A nil or
// empty issues slice is a no-op.
func (c *Config) LogQualityIssues(issues []QualityIssue) error {
	if len(issues) == 0 {
		return nil
	}
	if err := c.EnsureRlmDir(); err != nil {
		return err
	}

	path := c.GetQualityLogPath()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return rlmerr.Wrap(rlmerr.IO, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, issue := range issues {
		if issue.Known && !c.Settings.Quality.LogAllIssues {
			continue
		}
		data, err := json.Marshal(issue)
		if err != nil {
			return rlmerr.Wrap(rlmerr.Other, path, err)
		}
		if _, err := w.Write(data); err != nil {
			return rlmerr.Wrap(rlmerr.IO, path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return rlmerr.Wrap(rlmerr.IO, path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return rlmerr.Wrap(rlmerr.IO, path, err)
	}
	return nil
}

// ReadQualityLog reads every entry of the configured quality log,
// returning an empty slice (not an error) when the log does not exist
// yet.
func (c *Config) ReadQualityLog() ([]QualityIssue, error) {
	path := c.GetQualityLogPath()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, path, err)
	}
	defer f.Close()

	var issues []QualityIssue
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var issue QualityIssue
		if err := json.Unmarshal(line, &issue); err != nil {
			continue
		}
		issues = append(issues, issue)
	}
	if err := scanner.Err(); err != nil {
		return nil, rlmerr.Wrap(rlmerr.IO, path, err)
	}
	return issues, nil
}

// QualityLogSummary is the by-language/by-issue histogram produced by
// scanning the quality log, plus the known-vs-unknown split.
type QualityLogSummary struct {
	Total      int            `json:"total"`
	Known      int            `json:"known"`
	Unknown    int            `json:"unknown"`
	ByLanguage map[string]int `json:"by_lang"`
	ByIssue    map[string]int `json:"by_issue"`
}

// SummarizeQualityLog scans the configured quality log and returns its
// histograms.
func (c *Config) SummarizeQualityLog() (*QualityLogSummary, error) {
	issues, err := c.ReadQualityLog()
	if err != nil {
		return nil, err
	}

	summary := &QualityLogSummary{ByLanguage: map[string]int{}, ByIssue: map[string]int{}}
	for _, issue := range issues {
		summary.Total++
		summary.ByLanguage[issue.Lang]++
		summary.ByIssue[string(issue.Issue)]++
		if issue.Known {
			summary.Known++
		} else {
			summary.Unknown++
		}
	}
	return summary, nil
}
