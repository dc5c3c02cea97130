package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeRecord_Validate(t *testing.T) {
	record := &ResumeRecord{
		PersonalInfo: PersonalInfo{Name: "Jane Doe"},
		Skills:       []string{"Python"},
	}
	require.NoError(t, record.Validate())
}

func TestResumeRecord_Validate_MissingName(t *testing.T) {
	record := &ResumeRecord{}
	err := record.Validate()
	require.Error(t, err)
	// Validation must descend into the nested struct and name the field
	// that is actually empty, not stop at PersonalInfo itself.
	assert.Contains(t, err.Error(), "PersonalInfo.Name")
	assert.Contains(t, err.Error(), "required")
}

func TestResumeRecord_Validate_IncompleteExperience(t *testing.T) {
	record := &ResumeRecord{
		PersonalInfo: PersonalInfo{Name: "Jane Doe"},
		WorkExperience: []WorkExperience{
			{Company: "Acme", Position: "Engineer"}, // no duration
		},
	}
	err := record.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duration")
}

func TestResumeRecord_CandidateLastName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{"two names", "Jane Doe", "Doe"},
		{"three names", "Jane van Dyke", "Dyke"},
		{"single name", "Prince", "Prince"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ResumeRecord{PersonalInfo: PersonalInfo{Name: tt.full}}
			assert.Equal(t, tt.want, r.CandidateLastName())
		})
	}
}

func TestJobResearchRecord_Validate(t *testing.T) {
	record := &JobResearchRecord{
		JobDetails: JobDetails{
			Company:        "Acme",
			JobTitle:       "Engineer",
			JobDescription: "Build things.",
		},
		CompanyInfo: CompanyInfo{Name: "Acme"},
	}
	require.NoError(t, record.Validate())
}

func TestJobResearchRecord_Validate_MissingDescription(t *testing.T) {
	record := &JobResearchRecord{
		JobDetails:  JobDetails{Company: "Acme", JobTitle: "Engineer"},
		CompanyInfo: CompanyInfo{Name: "Acme"},
	}
	err := record.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JobDetails.JobDescription")
}

func TestNewCoverLetterRecord(t *testing.T) {
	record := NewCoverLetterRecord("Dear Hiring Manager,\n\nI am writing to apply.")
	assert.Equal(t, 8, record.WordCount)
	assert.NotEmpty(t, record.GeneratedDate)
	require.NoError(t, record.Validate())
}

func TestCoverLetterRecord_Finalize_OverwritesWordCount(t *testing.T) {
	record := &CoverLetterRecord{Content: "one two three", WordCount: 99}
	record.Finalize()
	assert.Equal(t, 3, record.WordCount)
	assert.NotEmpty(t, record.GeneratedDate)
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("  \n\t "))
	assert.Equal(t, 4, CountWords("a  b\nc\td"))
}
