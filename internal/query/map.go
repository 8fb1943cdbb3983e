package query

import "github.com/mvp-joe/rlm/internal/model"

// MapEntry is one file's public-surface summary. Quality carries the
// file's parse-quality tag only when it is not "complete", the
// fallback_recommended advisory in this surface's compact form.
type MapEntry struct {
	File          string   `json:"f"`
	Lang          string   `json:"l"`
	LineCount     int      `json:"lc"`
	PublicSymbols []string `json:"s"`
	Description   string   `json:"d"`
	Quality       string   `json:"q,omitempty"`
}

// MapResult is the map operation's full output.
type MapResult struct {
	Entries []MapEntry          `json:"m"`
	Tokens  model.TokenEstimate `json:"t"`
}

// Map summarizes every indexed file (optionally filtered by path prefix):
// language, line count, public symbols, and a human description, the
// coarsest of the progressive-disclosure surfaces (peek/grep/map/tree/
// search/read).
func (e *Engine) Map(pathFilter string) (*MapResult, error) {
	files, err := e.sortedFiles(pathFilter)
	if err != nil {
		return nil, err
	}

	entries := make([]MapEntry, 0, len(files))
	var outChars int
	for _, f := range files {
		chunks, err := e.DB.GetChunksForFile(f.ID)
		if err != nil {
			return nil, err
		}
		entry := MapEntry{
			File:          f.Path,
			Lang:          f.Lang,
			LineCount:     fileLineCount(chunks),
			PublicSymbols: publicSymbols(chunks),
			Description:   describeSymbols(chunks),
		}
		if f.ParseQuality != "complete" {
			entry.Quality = f.ParseQuality
		}
		entries = append(entries, entry)
		outChars += len(entry.File) + len(entry.Lang) + len(entry.Description)
		for _, s := range entry.PublicSymbols {
			outChars += len(s)
		}
	}

	return &MapResult{
		Entries: entries,
		Tokens:  model.EstimateIO(0, outChars),
	}, nil
}

// fileLineCount derives a file's total line count from the max end_line
// across its chunks, since the files table does not store it directly.
func fileLineCount(chunks []*model.Chunk) int {
	var max uint32
	for _, c := range chunks {
		if c.EndLine > max {
			max = c.EndLine
		}
	}
	return int(max)
}
