package query

import (
	"github.com/mvp-joe/rlm/internal/config"
	"github.com/mvp-joe/rlm/internal/storage"
)

// StatsResult is the stats operation's full output: index-wide counts.
type StatsResult struct {
	Files         int64              `json:"f"`
	Chunks        int64              `json:"c"`
	Refs          int64              `json:"r"`
	TotalBytes    int64              `json:"b"`
	Languages     []storage.LangCount `json:"l"`
	OldestIndexed int64              `json:"old"`
	NewestIndexed int64              `json:"new"`
}

// Stats aggregates file/chunk/ref counts, total bytes, the per-language
// histogram, and the oldest/newest indexed-at timestamps.
func (e *Engine) Stats() (*StatsResult, error) {
	s, err := e.DB.GetStats()
	if err != nil {
		return nil, err
	}
	return &StatsResult{
		Files:         s.FileCount,
		Chunks:        s.ChunkCount,
		Refs:          s.RefCount,
		TotalBytes:    s.TotalBytes,
		Languages:     s.Languages,
		OldestIndexed: s.OldestIndexed,
		NewestIndexed: s.NewestIndexed,
	}, nil
}

// QualityFile is one file whose parse did not come back complete.
type QualityFile struct {
	Path    string `json:"p"`
	Lang    string `json:"l"`
	Quality string `json:"q"`
}

// QualityResult is the quality operation's full output: the files whose
// parse did not come back complete, plus the quality log's by-language/
// by-issue histograms and known-vs-unknown split.
type QualityResult struct {
	Files []QualityFile             `json:"f"`
	Log   *config.QualityLogSummary `json:"log,omitempty"`
}

// Quality lists every indexed file whose parse_quality is not "complete",
// together with a summary of the append-only quality log (histograms by
// language and issue kind, split by whether each incident matched the
// static known-issues registry).
func (e *Engine) Quality() (*QualityResult, error) {
	files, err := e.DB.GetFilesWithQualityIssues()
	if err != nil {
		return nil, err
	}
	out := make([]QualityFile, 0, len(files))
	for _, f := range files {
		out = append(out, QualityFile{Path: f.Path, Lang: f.Lang, Quality: f.ParseQuality})
	}

	result := &QualityResult{Files: out}
	if e.Cfg != nil {
		if summary, sumErr := e.Cfg.SummarizeQualityLog(); sumErr == nil && summary.Total > 0 {
			result.Log = summary
		}
	}
	return result, nil
}
