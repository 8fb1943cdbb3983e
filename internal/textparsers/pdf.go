package textparsers

import (
	"strconv"
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
)

// ParsePDF splits already-extracted PDF text on form-feed characters (\f),
// the page-boundary convention most PDF-to-text extraction tools emit, and
// produces one "page" chunk per non-empty page. No PDF parsing library is
// involved: the indexer passes the file's content as read from disk, and a
// .pdf whose bytes are not valid UTF-8 is skipped by the scanner before it
// gets here.
func ParsePDF(source string, fileID int64) []*model.Chunk {
	pages := strings.Split(source, "\f")

	var chunks []*model.Chunk
	var byteOffset uint32
	lineOffset := uint32(0)
	for i, page := range pages {
		lineCount := uint32(strings.Count(page, "\n"))
		if strings.TrimSpace(page) == "" {
			byteOffset += uint32(len(page)) + 1
			lineOffset += lineCount + 1
			continue
		}
		chunks = append(chunks, &model.Chunk{
			FileID:    fileID,
			StartLine: lineOffset + 1,
			EndLine:   lineOffset + lineCount + 1,
			StartByte: byteOffset,
			EndByte:   byteOffset + uint32(len(page)),
			Kind:      model.KindPage,
			Ident:     "Page " + strconv.Itoa(i+1),
			Content:   page,
		})
		byteOffset += uint32(len(page)) + 1 // +1 for the \f separator consumed
		lineOffset += lineCount + 1
	}
	return chunks
}
