package structured

import (
	"fmt"

	"github.com/jonathan/cover-agent/internal/schemas"
)

// previewLimit bounds how much of the offending text an error carries.
const previewLimit = 500

// MalformedRecordError reports text that could not be parsed as JSON even
// after repair. Callers must treat the stage as having produced no usable
// record.
type MalformedRecordError struct {
	Preview string // offending text, truncated to previewLimit
	Offset  int64  // byte offset of the parser error, -1 if unknown
	Cause   error
}

func (e *MalformedRecordError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("malformed record at offset %d: %v (preview: %s)", e.Offset, e.Cause, e.Preview)
	}
	return fmt.Sprintf("malformed record: %v (preview: %s)", e.Cause, e.Preview)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Cause
}

// SchemaViolationError reports JSON that parsed but does not conform to the
// target schema.
type SchemaViolationError struct {
	Schema string
	Cause  *schemas.ValidationError
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("record violates schema %s: %v", e.Schema, e.Cause)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}

// preview truncates raw text for inclusion in errors.
func preview(raw string) string {
	if len(raw) <= previewLimit {
		return raw
	}
	return raw[:previewLimit] + "..."
}
