package textparsers

import (
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
)

// ParsePlaintext returns the whole file as a single "section" chunk, the
// extractor of last resort for any text-language file that isn't markdown,
// PDF, or a recognized structured format.
func ParsePlaintext(source string, fileID int64) []*model.Chunk {
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
