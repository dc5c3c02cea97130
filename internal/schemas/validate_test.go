package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ResumeAnalysis_Valid(t *testing.T) {
	doc := `{
		"personal_info": {"name": "Jane Doe", "email": "jane@example.com"},
		"skills": ["Python", "Go"],
		"total_experience_years": 5
	}`
	require.NoError(t, Validate(ResumeAnalysis, doc))
}

func TestValidate_ResumeAnalysis_MissingName(t *testing.T) {
	doc := `{"personal_info": {"email": "jane@example.com"}}`
	err := Validate(ResumeAnalysis, doc)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, ResumeAnalysis, validationErr.Schema)
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Errors[0].Field, "personal_info")
}

func TestValidate_ResumeAnalysis_WrongType(t *testing.T) {
	doc := `{"personal_info": {"name": "Jane"}, "total_experience_years": "five"}`
	err := Validate(ResumeAnalysis, doc)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidate_JobResearch_Valid(t *testing.T) {
	doc := `{
		"job_details": {
			"company": "Acme",
			"job_title": "Engineer",
			"job_description": "Build things.",
			"requirements": {"required_skills": ["Go"]}
		},
		"company_info": {"name": "Acme", "industry": null},
		"job_url": "https://example.com/jobs/1"
	}`
	require.NoError(t, Validate(JobResearch, doc))
}

func TestValidate_JobResearch_NullOptionalFields(t *testing.T) {
	// The original generators emit explicit nulls for unknown fields.
	doc := `{
		"job_details": {
			"company": "Acme",
			"job_title": "Engineer",
			"department": null,
			"salary_range": null,
			"job_description": "Build things."
		},
		"company_info": {"name": "Acme", "size": null, "main_business": null}
	}`
	require.NoError(t, Validate(JobResearch, doc))
}

func TestValidate_JobResearch_MissingJobTitle(t *testing.T) {
	doc := `{
		"job_details": {"company": "Acme", "job_description": "x"},
		"company_info": {"name": "Acme"}
	}`
	err := Validate(JobResearch, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job_title")
}

func TestValidate_CoverLetter_Valid(t *testing.T) {
	doc := `{"content": "Dear Hiring Manager", "word_count": 3}`
	require.NoError(t, Validate(CoverLetter, doc))
}

func TestValidate_CoverLetter_EmptyContent(t *testing.T) {
	doc := `{"content": ""}`
	require.Error(t, Validate(CoverLetter, doc))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nonexistent", `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestHasField(t *testing.T) {
	assert.True(t, HasField(JobResearch, "research_date"))
	assert.False(t, HasField(ResumeAnalysis, "research_date"))
}
