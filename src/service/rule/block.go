package rule

import "strings"

// blockEnd finds the line on which the block opened on line start closes.
// Scanning begins at the first '{' of the start line and stops when the
// running count of open and close braces returns to zero. A block that
// closes on the start line while another '{' follows it (a closure in a
// loop header) is skipped in favor of the later one. Braces inside string
// literals and after a line comment are ignored. ok is false when the
// start line opens no block or the braces never balance.
func blockEnd(lines []string, start int) (end int, ok bool) {
	_, end, ok = blockSpan(lines, start)
	return end, ok
}

// blockSpan is blockEnd that also reports the byte offset of the opening
// brace on the start line
func blockSpan(lines []string, start int) (open, end int, ok bool) {
	if start < 0 || start >= len(lines) {
		return 0, 0, false
	}

	depth := 0
	open = -1
	for i := start; i < len(lines); i++ {
		line := codeOnly(lines[i])
		for j := 0; j < len(line); j++ {
			switch line[j] {
			case '{':
				if depth == 0 && i == start {
					open = j
				}
				depth++
			case '}':
				if open < 0 {
					continue
				}
				depth--
				if depth > 0 {
					continue
				}
				if i == start && strings.IndexByte(line[j+1:], '{') >= 0 {
					continue
				}
				return open, i, true
			}
		}
		if open < 0 {
			// The block must open on the start line
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// codeOnly blanks string literal contents and line comments with spaces.
// Byte offsets into the result match offsets into line.
func codeOnly(line string) string {
	if strings.IndexByte(line, '"') < 0 && !strings.Contains(line, "//") {
		return line
	}

	b := []byte(line)
	inString := false
	for j := 0; j < len(b); j++ {
		if inString {
			switch b[j] {
			case '\\':
				b[j] = ' '
				if j+1 < len(b) {
					j++
					b[j] = ' '
				}
			case '"':
				inString = false
			default:
				b[j] = ' '
			}
			continue
		}
		switch {
		case b[j] == '"':
			inString = true
		case b[j] == '/' && j+1 < len(b) && b[j+1] == '/':
			for k := j; k < len(b); k++ {
				b[k] = ' '
			}
			return string(b)
		}
	}
	return string(b)
}

// blockBody returns the lines strictly inside the block opened on line
// start, or the text after the opening brace for a single-line block.
func blockBody(lines []string, start int) (string, bool) {
	open, end, ok := blockSpan(lines, start)
	if !ok {
		return "", false
	}
	if end == start {
		line := lines[start]
		body := line[open+1:]
		if k := strings.LastIndexByte(body, '}'); k >= 0 {
			body = body[:k]
		}
		return body, true
	}
	return window(lines, start+1, end), true
}
