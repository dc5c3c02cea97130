package ingestion

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoResumePDF is returned when the resume directory holds no PDF.
var ErrNoResumePDF = fmt.Errorf("no PDF files found in resume directory")

// Hyperlink is a URL or email address found in the resume text.
type Hyperlink struct {
	URL  string `json:"url"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// ResumeSource is the raw material for resume analysis: extracted text plus
// any links the candidate put in the document.
type ResumeSource struct {
	FileName   string
	Content    string
	Hyperlinks []Hyperlink
	PageCount  int
}

// linkPattern matches URLs, bare www hosts, and email addresses in plain
// text. Resume links usually survive PDF text extraction as literals.
var linkPattern = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+|www\.[^\s<>"{}|\\^` + "`" + `\[\]]+|[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ReadResume finds the resume PDF in dir and extracts its text and links.
// With multiple PDFs present, the lexicographically first is used.
func ReadResume(dir string) (*ResumeSource, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan resume directory: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNoResumePDF
	}
	sort.Strings(matches)
	path := matches[0]

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("failed to read PDF text from %s: %w", path, err)
	}

	content := CleanText(buf.String())
	return &ResumeSource{
		FileName:   filepath.Base(path),
		Content:    content,
		Hyperlinks: ExtractHyperlinks(content),
		PageCount:  reader.NumPage(),
	}, nil
}

// ExtractHyperlinks pulls deduplicated URLs and email addresses out of text.
func ExtractHyperlinks(text string) []Hyperlink {
	seen := make(map[string]bool)
	var links []Hyperlink
	for _, match := range linkPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;)")
		if seen[match] {
			continue
		}
		seen[match] = true

		kind := "url"
		if strings.Contains(match, "@") && !strings.HasPrefix(strings.ToLower(match), "http") {
			kind = "email"
		}
		links = append(links, Hyperlink{URL: match, Text: match, Type: kind})
	}
	return links
}
