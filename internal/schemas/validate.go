// Package schemas provides JSON Schema validation for the structured records
// produced by pipeline stages. Schemas are embedded at compile time.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"embed"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names accepted by Validate.
const (
	ResumeAnalysis = "resume_analysis"
	JobResearch    = "job_research"
	CoverLetter    = "cover_letter"
)

//go:embed *.schema.json
var schemaFiles embed.FS

var (
	compiled   = make(map[string]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError aggregates field-level schema violations.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is a single violation at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("schema %s validation failed:\n", ve.Schema))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError reports a failure loading or compiling a schema itself.
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Schema, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Validate checks jsonContent against the named embedded schema.
// Returns nil on success, *ValidationError on violations, *SchemaLoadError
// when the schema itself cannot be used.
func Validate(name, jsonContent string) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{
			Schema:  name,
			Message: "document could not be validated",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// HasField reports whether the named schema declares a top-level property.
// Used by the defaulting step to decide whether a timestamp field applies.
func HasField(name, field string) bool {
	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		return false
	}
	return strings.Contains(string(data), fmt.Sprintf("%q", field))
}

// load compiles and caches the named schema.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[name]; ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(name + ".schema.json")
	if err != nil {
		return nil, &SchemaLoadError{
			Schema:  name,
			Message: "unknown schema",
			Cause:   err,
		}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{
			Schema:  name,
			Message: "schema failed to compile",
			Cause:   err,
		}
	}

	compiled[name] = schema
	return schema, nil
}
