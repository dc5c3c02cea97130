// Package render serializes the finished cover letter: plain text, PDF with
// graceful degradation, and the derived output filename.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxFieldLength bounds each sanitized filename field.
const maxFieldLength = 40

// SaveError represents a failure writing an output file. Saving is
// best-effort; callers log these instead of unwinding the pipeline.
type SaveError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SaveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("save failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("save failed for %s: %s", e.Path, e.Message)
}

func (e *SaveError) Unwrap() error {
	return e.Cause
}

// SaveText writes the letter content to path, creating parent directories.
func SaveText(content, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &SaveError{Path: path, Message: "creating output directory", Cause: err}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &SaveError{Path: path, Message: "writing text file", Cause: err}
	}
	return nil
}

// Filename derives the output base name from the candidate's last name and
// the company, suffixed with today's date. Both fields are sanitized; an
// unusable company field is simply omitted.
func Filename(lastName, company string) string {
	date := time.Now().Format("2006-01-02")

	candidate := Sanitize(lastName)
	if candidate == "" {
		candidate = "Candidate"
	}
	if sanitized := Sanitize(company); sanitized != "" {
		return fmt.Sprintf("%s_CoverLetter_%s_%s", candidate, sanitized, date)
	}
	return fmt.Sprintf("%s_CoverLetter_%s", candidate, date)
}

// Sanitize reduces a filename field to alphanumerics, hyphens, and
// underscores, with spaces collapsed to single underscores, bounded at
// maxFieldLength characters.
func Sanitize(field string) string {
	var b strings.Builder
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), "_")
	if len(cleaned) > maxFieldLength {
		cleaned = cleaned[:maxFieldLength]
	}
	return cleaned
}
