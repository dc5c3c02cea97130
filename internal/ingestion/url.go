// Package ingestion turns user-supplied inputs into pipeline-ready material:
// job URLs pulled out of free-form messages, resume PDFs read from disk, and
// text cleanup shared by both.
package ingestion

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrNoURLFound is returned when a message contains nothing URL-shaped.
var ErrNoURLFound = fmt.Errorf("no job URL found in message")

// jobURLPatterns are tried in order, most specific first. The bare-URL
// pattern at the end accepts anything http(s) as a last resort.
var jobURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://(?:www\.)?linkedin\.com/jobs/view/\d+/?[^\s]*`),
	regexp.MustCompile(`(?i)https?://[^\s]+\.com[^\s]*job[^\s]*`),
	regexp.MustCompile(`(?i)https?://[^\s]+job[^\s]*\.com[^\s]*`),
	regexp.MustCompile(`(?i)https?://careers\.[^\s]+`),
	regexp.MustCompile(`(?i)https?://[^\s]+/careers[^\s]*`),
	regexp.MustCompile(`(?i)https?://[^\s]+`),
}

// ExtractJobURL finds the job posting URL in a free-form message. Specific
// job-board shapes win over generic URLs when both are present.
func ExtractJobURL(message string) (string, error) {
	for _, pattern := range jobURLPatterns {
		if match := pattern.FindString(message); match != "" {
			return strings.TrimRight(match, ".,;)"), nil
		}
	}
	return "", ErrNoURLFound
}
