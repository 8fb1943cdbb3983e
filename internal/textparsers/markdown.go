package textparsers

import (
	"strings"

	"github.com/mvp-joe/rlm/internal/model"
)

// ParseMarkdown splits source into one chunk per heading, each chunk
// spanning from its heading line to just before the next heading of any
// level. A heading's parent is the nearest preceding heading
// at a shallower level. A document with no headings becomes a single
// "(document)" chunk covering the whole file.
func ParseMarkdown(source string, fileID int64) []*model.Chunk {
	lines := strings.Split(source, "\n")

	type section struct {
		level     int
		title     string
		startLine int // 1-based
	}
	var sections []section
	for i, line := range lines {
		level, title, ok := headingLevel(line)
		if !ok {
			continue
		}
		sections = append(sections, section{level: level, title: title, startLine: i + 1})
	}

	if len(sections) == 0 {
		return []*model.Chunk{{
			FileID:    fileID,
			StartLine: 1,
			EndLine:   uint32(len(lines)),
			StartByte: 0,
			EndByte:   uint32(len(source)),
			Kind:      model.KindSection,
			Ident:     "(document)",
			Content:   source,
		}}
	}

	byteOffsets := lineByteOffsets(source, lines)

	var chunks []*model.Chunk
	var parentStack []section
	for idx, sec := range sections {
		endLine := uint32(len(lines))
		if idx+1 < len(sections) {
			endLine = uint32(sections[idx+1].startLine - 1)
		}
		startLine := uint32(sec.startLine)

		for len(parentStack) > 0 && parentStack[len(parentStack)-1].level >= sec.level {
			parentStack = parentStack[:len(parentStack)-1]
		}
		var parent *string
		if len(parentStack) > 0 {
			p := parentStack[len(parentStack)-1].title
			parent = &p
		}
		parentStack = append(parentStack, sec)

		startByte := byteOffsets[startLine-1]
		var endByte uint32
		if int(endLine) < len(byteOffsets) {
			endByte = byteOffsets[endLine]
		} else {
			endByte = uint32(len(source))
		}
		content := source[startByte:endByte]
		content = strings.TrimRight(content, "\n")

		chunks = append(chunks, &model.Chunk{
			FileID:    fileID,
			StartLine: startLine,
			EndLine:   endLine,
			StartByte: startByte,
			EndByte:   startByte + uint32(len(content)),
			Kind:      model.KindSection,
			Ident:     sec.title,
			Parent:    parent,
			Content:   content,
		})
	}
	return chunks
}

// headingLevel reports whether line is an ATX markdown heading ("# ...",
// "## ...", up to level 6), returning its level and trimmed title text.
func headingLevel(line string) (int, string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if level == len(trimmed) {
		return level, "", true
	}
	if trimmed[level] != ' ' && trimmed[level] != '\t' {
		return 0, "", false
	}
	title := strings.TrimSpace(trimmed[level:])
	title = strings.TrimRight(title, "#")
	title = strings.TrimSpace(title)
	return level, title, true
}

// lineByteOffsets returns the byte offset of the start of each line plus a
// trailing sentinel offset equal to len(source), so that lineByteOffsets[n]
// to lineByteOffsets[n+1] brackets line n+1 (1-based) including its
// terminating newline.
func lineByteOffsets(source string, lines []string) []uint32 {
	offsets := make([]uint32, 0, len(lines)+1)
	var pos uint32
	for _, l := range lines {
		offsets = append(offsets, pos)
		pos += uint32(len(l)) + 1 // +1 for the newline split removed
	}
	offsets = append(offsets, uint32(len(source)))
	return offsets
}
