// Package extract produces clean job-posting text from raw HTML using a
// cascade of strategies: structured data, site-specific selectors, generic
// selectors, then a full-page fallback. First strategy to yield content wins.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxContentLength caps extracted content; anything beyond it is cut and
// marked.
const MaxContentLength = 10000

// truncationMarker is appended when content exceeds MaxContentLength.
const truncationMarker = "\n... [content truncated]"

// Content extracts job-posting text from html. The sourceURL selects
// site-specific selectors. Returns "" when no strategy finds anything; an
// empty result is non-fatal and left to the caller to classify.
func Content(html, sourceURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	// Scripts and styles pollute every downstream strategy.
	doc.Find("script:not([type='application/ld+json']), style, noscript").Remove()

	text := fromStructuredData(doc)
	if text == "" {
		text = fromSiteSelectors(doc, sourceURL)
	}
	if text == "" {
		text = fromGenericSelectors(doc)
	}
	if text == "" {
		text = nodeText(doc.Find("body"))
	}

	return postProcess(text)
}

// Title returns the page title, trimmed.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// nodeText extracts text from a selection with one line per node line,
// dropping blanks.
func nodeText(sel *goquery.Selection) string {
	return collapseLines(sel.Text())
}

// collapseLines trims every line and drops the empty ones.
func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// boilerplatePhrases are dropped wherever they appear in a line,
// case-insensitively. Job boards wrap postings in the same chrome.
var boilerplatePhrases = []string{
	"sign in",
	"sign up",
	"log in",
	"create account",
	"cookie policy",
	"accept cookies",
	"we use cookies",
	"privacy policy",
	"terms of service",
	"terms of use",
	"all rights reserved",
	"newsletter",
	"subscribe",
	"skip to main content",
	"enable javascript",
	"similar jobs",
	"people also viewed",
	"share this job",
	"report this job",
}

// postProcess strips boilerplate lines, collapses whitespace, and caps the
// result at MaxContentLength.
func postProcess(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || isBoilerplate(line) {
			continue
		}
		kept = append(kept, line)
	}

	result := strings.Join(kept, "\n")
	if len(result) > MaxContentLength {
		result = result[:MaxContentLength] + truncationMarker
	}
	return result
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
