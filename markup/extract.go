package markup

import (
	"fmt"
	"strings"
)

// extractText reconstructs clean documentation text from a located markup
// region: markers stripped, indentation normalized, boundary blank lines
// dropped. Empty output with a nil error means the markup held only
// whitespace. Indentation is counted in bytes assuming ASCII spaces; tabs
// are not handled.
func extractText(info *findInfo, found FoundMarkup) (string, error) {
	switch found.Kind {
	case BlockBefore, BlockAfter:
		return extractBlockText(info, found)
	case LineBangBefore, LineSlashBefore, LineBangAfter, LineSlashAfter:
		return extractLineText(info, found)
	}
	return "", fmt.Errorf("markup: cannot reconstruct text for kind %d", found.Kind)
}

// whitespaceIndent counts leading spaces.
func whitespaceIndent(line string) int {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	return indent
}

// unindent strips leading spaces, at most maxIndent of them. A negative
// maxIndent means no limit.
func unindent(line string, maxIndent int) string {
	indent := whitespaceIndent(line)
	if maxIndent >= 0 && indent > maxIndent {
		indent = maxIndent
	}
	return line[indent:]
}

// extractBlockText handles the single-token /** */ styles. The column at
// which the token starts caps how much indentation is stripped from interior
// lines, so relative indentation inside the comment survives.
func extractBlockText(info *findInfo, found FoundMarkup) (string, error) {
	tok := info.tokens[found.Start]
	offset := info.file.Offset(tok.Loc)
	startLine := info.file.LineIndexForOffset(offset)

	lines := strings.Split(tok.Text, "\n")
	maxIndent := -1

	var out strings.Builder
	for i, line := range lines {
		if i == 0 {
			// The token's column becomes the indent cap, but only when the
			// line table agrees the token starts on this line.
			if info.file.IsOffsetOnLine(offset, startLine) {
				maxIndent = offset - info.file.LineStart(startLine)
			}
			line = StripMarker(found.Kind, line)
		}
		if i == len(lines)-1 {
			line = strings.TrimSuffix(line, "*/")
		}
		line = unindent(line, maxIndent)
		// Boundary lines that are pure whitespace are dropped, not emitted blank.
		if (i == 0 || i == len(lines)-1) && strings.TrimSpace(line) == "" {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// extractLineText handles /// style runs. All retained lines shed the same
// minimum indent so a uniformly indented run aligns at column zero while
// nested indentation is preserved.
func extractLineText(info *findInfo, found FoundMarkup) (string, error) {
	var lines []string
	for i := found.Start; i < found.End; i++ {
		line := StripMarker(found.Kind, info.tokens[i].Text)
		if (i == found.Start || i == found.End-1) && strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "", nil
	}

	minIndent := whitespaceIndent(lines[0])
	for _, line := range lines[1:] {
		if indent := whitespaceIndent(line); indent < minIndent {
			minIndent = indent
		}
	}

	var out strings.Builder
	for _, line := range lines {
		out.WriteString(unindent(line, minIndent))
		out.WriteByte('\n')
	}
	return out.String(), nil
}
