package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpaces    = regexp.MustCompile(`\s+`)
	manyBlankLines = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes scraped or extracted text while keeping its line
// structure: CRLF to LF, trailing whitespace stripped, runs of spaces
// collapsed, at most one blank line between paragraphs of three or more.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = manyBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses internal whitespace but keeps leading indentation,
// which carries meaning in bullet lists.
func cleanLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" {
		return ""
	}

	indent := len(line) - len(trimmed)
	content := innerSpaces.ReplaceAllString(strings.TrimSpace(trimmed), " ")
	if indent > 0 {
		return strings.Repeat(" ", indent) + content
	}
	return content
}
