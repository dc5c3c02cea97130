package structured

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cover-agent/internal/schemas"
	"github.com/jonathan/cover-agent/internal/types"
)

const validResumeJSON = `{
	"personal_info": {"name": "Jane Doe", "email": "jane@example.com"},
	"skills": ["Python", "Go"],
	"total_experience_years": 5
}`

func TestDecode_ValidResume(t *testing.T) {
	record, err := Decode[types.ResumeRecord](validResumeJSON, Options{
		Schema: schemas.ResumeAnalysis,
		Repair: RepairEscapes,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.PersonalInfo.Name)
	assert.Equal(t, []string{"Python", "Go"}, record.Skills)
}

func TestDecode_Idempotent(t *testing.T) {
	// Re-validating an already-valid record returns the same record.
	opts := Options{Schema: schemas.ResumeAnalysis, Repair: RepairEscapes}

	first, err := Decode[types.ResumeRecord](validResumeJSON, opts)
	require.NoError(t, err)
	second, err := Decode[types.ResumeRecord](validResumeJSON, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDecode_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n" + validResumeJSON + "\n```"
	record, err := Decode[types.ResumeRecord](raw, Options{Schema: schemas.ResumeAnalysis})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", record.PersonalInfo.Name)
}

func TestDecode_RepairsSpuriousEscapes(t *testing.T) {
	raw := `{
		"personal_info": {"name": "Jane Doe"},
		"key_achievements": ["Cut costs by 30\%"]
	}`
	record, err := Decode[types.ResumeRecord](raw, Options{
		Schema: schemas.ResumeAnalysis,
		Repair: RepairEscapes,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cut costs by 30%"}, record.KeyAchievements)
}

func TestDecode_RepairsEmbeddedNewlines(t *testing.T) {
	raw := "{\"job_details\": {\"company\": \"Acme\", \"job_title\": \"Engineer\", " +
		"\"job_description\": \"Line one.\nLine two.\"}, \"company_info\": {\"name\": \"Acme\"}}"
	record, err := Decode[types.JobResearchRecord](raw, Options{
		Schema: schemas.JobResearch,
		Repair: RepairControlChars,
	})
	require.NoError(t, err)
	assert.Equal(t, "Line one.\nLine two.", record.JobDetails.JobDescription)
}

func TestDecode_InjectsTimestampField(t *testing.T) {
	raw := `{
		"job_details": {"company": "Acme", "job_title": "Engineer", "job_description": "x"},
		"company_info": {"name": "Acme"}
	}`
	record, err := Decode[types.JobResearchRecord](raw, Options{
		Schema:         schemas.JobResearch,
		Repair:         RepairControlChars,
		TimestampField: "research_date",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ResearchDate)
}

func TestDecode_PreservesProvidedTimestamp(t *testing.T) {
	raw := `{
		"job_details": {"company": "Acme", "job_title": "Engineer", "job_description": "x"},
		"company_info": {"name": "Acme"},
		"research_date": "2024-06-01T00:00:00Z"
	}`
	record, err := Decode[types.JobResearchRecord](raw, Options{
		Schema:         schemas.JobResearch,
		TimestampField: "research_date",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T00:00:00Z", record.ResearchDate)
}

func TestDecode_SchemaViolation(t *testing.T) {
	raw := `{"personal_info": {"email": "jane@example.com"}}`
	_, err := Decode[types.ResumeRecord](raw, Options{Schema: schemas.ResumeAnalysis})
	require.Error(t, err)

	var violation *SchemaViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, schemas.ResumeAnalysis, violation.Schema)
	assert.Contains(t, violation.Error(), "personal_info")
}

func TestDecode_IrrecoverableMalformation(t *testing.T) {
	raw := `{"personal_info": {"name": "Jane"` // truncated output
	_, err := Decode[types.ResumeRecord](raw, Options{
		Schema: schemas.ResumeAnalysis,
		Repair: RepairEscapes,
	})
	require.Error(t, err)

	var malformedErr *MalformedRecordError
	require.ErrorAs(t, err, &malformedErr)
	assert.Contains(t, malformedErr.Preview, "Jane")
}

func TestDecode_PreviewIsBounded(t *testing.T) {
	raw := "not json at all " + strings.Repeat("x", 2000)
	_, err := Decode[types.ResumeRecord](raw, Options{Repair: RepairEscapes})
	require.Error(t, err)

	var malformedErr *MalformedRecordError
	require.ErrorAs(t, err, &malformedErr)
	assert.LessOrEqual(t, len(malformedErr.Preview), previewLimit+3)
}

func TestDecode_WrongRepairStrategyStillFails(t *testing.T) {
	// Escape repair cannot fix embedded raw newlines.
	raw := "{\"a\": \"line\nbreak\"}"
	_, err := Decode[map[string]string](raw, Options{Repair: RepairEscapes})
	require.Error(t, err)

	var malformedErr *MalformedRecordError
	require.ErrorAs(t, err, &malformedErr)
}
