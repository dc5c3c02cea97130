//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CoverLetterRecord is the structured output of the drafting stage.
// WordCount is always derived from Content, never trusted from upstream.
type CoverLetterRecord struct {
	Content                 string   `json:"content" validate:"required"`
	WordCount               int      `json:"word_count"`
	KeyPointsCovered        []string `json:"key_points_covered,omitempty"`
	CompanySpecificMentions []string `json:"company_specific_mentions,omitempty"`
	QuantifiedAchievements  []string `json:"quantified_achievements,omitempty"`
	GeneratedDate           string   `json:"generated_date,omitempty"` // RFC3339
}

// NewCoverLetterRecord builds a record from markdown content, computing the
// word count and stamping the generation time.
func NewCoverLetterRecord(content string) *CoverLetterRecord {
	return &CoverLetterRecord{
		Content:       content,
		WordCount:     CountWords(content),
		GeneratedDate: time.Now().UTC().Format(time.RFC3339),
	}
}

// Finalize recomputes the derived fields in place. Used after decoding a
// model-produced record, whose self-reported word count is unreliable.
func (r *CoverLetterRecord) Finalize() {
	r.WordCount = CountWords(r.Content)
	if r.GeneratedDate == "" {
		r.GeneratedDate = time.Now().UTC().Format(time.RFC3339)
	}
}

// Validate checks the record invariants.
func (r *CoverLetterRecord) Validate() error {
	return validateStruct(r)
}

// CountWords returns the whitespace-token count of text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// lastNameOf returns the final whitespace-separated token of a full name.
func lastNameOf(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// recordValidator is the shared struct validator for record invariants.
var recordValidator = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs struct-tag validation on a record.
func validateStruct(v any) error {
	return recordValidator.Struct(v)
}
