package structured

import (
	"encoding/json"
	"time"

	"github.com/jonathan/cover-agent/internal/llm"
	"github.com/jonathan/cover-agent/internal/schemas"
)

// Options configures a Decode call.
type Options struct {
	// Schema is the embedded schema name the record must conform to.
	Schema string
	// Repair is the strategy attempted when direct parsing fails.
	Repair Strategy
	// TimestampField, if set and absent from the document, is injected with
	// the current RFC3339 time before schema validation. A defaulting step,
	// not a repair.
	TimestampField string
}

// Decode parses raw model output into T: markdown fences stripped, direct
// parse first, one repair pass on failure, defaulting, schema validation,
// then a typed decode. All failures come back as *MalformedRecordError or
// *SchemaViolationError; nothing is raised past this boundary.
func Decode[T any](raw string, opts Options) (*T, error) {
	text := llm.CleanJSONBlock(raw)

	doc, err := parse(text)
	if err != nil {
		repaired := repair(text, opts.Repair)
		doc, err = parse(repaired)
		if err != nil {
			return nil, malformed(raw, err)
		}
		text = repaired
	}

	if opts.TimestampField != "" && schemas.HasField(opts.Schema, opts.TimestampField) {
		if _, present := doc[opts.TimestampField]; !present || doc[opts.TimestampField] == nil {
			doc[opts.TimestampField] = time.Now().UTC().Format(time.RFC3339)
			normalized, err := json.Marshal(doc)
			if err != nil {
				return nil, malformed(raw, err)
			}
			text = string(normalized)
		}
	}

	if opts.Schema != "" {
		if err := schemas.Validate(opts.Schema, text); err != nil {
			if validationErr, ok := err.(*schemas.ValidationError); ok {
				return nil, &SchemaViolationError{Schema: opts.Schema, Cause: validationErr}
			}
			return nil, malformed(raw, err)
		}
	}

	var record T
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, malformed(raw, err)
	}
	return &record, nil
}

// parse unmarshals text into a generic object so fields can be inspected and
// defaulted before validation.
func parse(text string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// malformed wraps a parse failure with a bounded preview and, when the
// decoder reports one, the error offset.
func malformed(raw string, cause error) *MalformedRecordError {
	offset := int64(-1)
	if syntaxErr, ok := cause.(*json.SyntaxError); ok {
		offset = syntaxErr.Offset
	}
	if typeErr, ok := cause.(*json.UnmarshalTypeError); ok {
		offset = typeErr.Offset
	}
	return &MalformedRecordError{
		Preview: preview(raw),
		Offset:  offset,
		Cause:   cause,
	}
}
