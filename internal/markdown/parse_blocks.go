package markdown

import "strings"

// Markdown block parsing is local: a block ends at the next blank line or at
// the next ATX heading, so every block's span can be computed in one pass.

type sourceLine struct {
	text   string
	start  int // offset of the first byte
	end    int // offset after the last byte, terminator excluded
	number int
}

// Parse splits src into top-level blocks. It never fails: anything that is
// not a heading becomes a paragraph.
func Parse(src string) Document {
	lines := splitLines(src)
	var blocks []Block
	i := 0
	for i < len(lines) {
		line := lines[i]
		if isBlankLine(line.text) {
			i++
			continue
		}

		if level, ok := parseHeading(line.text); ok {
			blocks = append(blocks, newBlock(src, KindHeading, level, line, line, len(blocks)))
			i++
			continue
		}

		block, next := parseParagraph(src, lines, i, len(blocks))
		blocks = append(blocks, block)
		i = next
	}
	return Document{Text: src, Blocks: blocks}
}

func splitLines(src string) []sourceLine {
	lines := make([]sourceLine, 0, strings.Count(src, "\n")+1)
	start := 0
	number := 1
	for start <= len(src) {
		end := len(src)
		next := len(src) + 1
		if rel := strings.IndexByte(src[start:], '\n'); rel >= 0 {
			end = start + rel
			next = end + 1
		}
		textEnd := end
		if textEnd > start && src[textEnd-1] == '\r' {
			textEnd--
		}
		lines = append(lines, sourceLine{
			text:   src[start:textEnd],
			start:  start,
			end:    textEnd,
			number: number,
		})
		start = next
		number++
	}
	return lines
}

func parseParagraph(src string, lines []sourceLine, start int, index int) (Block, int) {
	i := start
	for i < len(lines) {
		line := lines[i]
		if isBlankLine(line.text) {
			break
		}
		if i > start {
			if _, ok := parseHeading(line.text); ok {
				break
			}
			if level, ok := parseSetextUnderline(line.text); ok {
				return newBlock(src, KindHeading, level, lines[start], line, index), i + 1
			}
		}
		i++
	}
	return newBlock(src, KindParagraph, 0, lines[start], lines[i-1], index), i
}

func newBlock(src string, kind Kind, level int, first, last sourceLine, index int) Block {
	span := Span{
		StartOffset: first.start,
		EndOffset:   last.end,
		StartLine:   first.number,
		EndLine:     last.number,
		StartColumn: 1,
		EndColumn:   last.end - last.start + 1,
	}
	return Block{
		Kind:   kind,
		Level:  level,
		Span:   span,
		Source: src[span.StartOffset:span.EndOffset],
		Index:  index,
	}
}

// parseHeading recognises an ATX heading line: at most three spaces of
// indentation, one to six '#', then whitespace or the end of the line.
func parseHeading(text string) (int, bool) {
	trimmed := strings.TrimLeft(text, " ")
	if len(text)-len(trimmed) > 3 || !strings.HasPrefix(trimmed, "#") {
		return 0, false
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level > 6 {
		return 0, false
	}
	if level < len(trimmed) && !isSpaceOrTab(rune(trimmed[level])) {
		return 0, false
	}
	return level, true
}

func parseSetextUnderline(text string) (int, bool) {
	trimmed := strings.TrimLeft(text, " ")
	if len(text)-len(trimmed) > 3 {
		return 0, false
	}
	indicator := strings.TrimRight(trimmed, " \t")
	if indicator == "" {
		return 0, false
	}
	if allRunes(indicator, '=') {
		return 1, true
	}
	if allRunes(indicator, '-') {
		return 2, true
	}
	return 0, false
}

func isBlankLine(line string) bool {
	return strings.Trim(line, " \t") == ""
}

func isSpaceOrTab(r rune) bool {
	return r == ' ' || r == '\t'
}

func allRunes(s string, target rune) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != target {
			return false
		}
	}
	return true
}
