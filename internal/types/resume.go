// Package types provides type definitions for the structured records exchanged
// between pipeline stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PersonalInfo holds contact details extracted from a resume
type PersonalInfo struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// WorkExperience represents a single employment entry
type WorkExperience struct {
	Company      string   `json:"company" validate:"required"`
	Position     string   `json:"position" validate:"required"`
	Duration     string   `json:"duration" validate:"required"` // e.g., "Jan 2020 - Dec 2022"
	Location     string   `json:"location,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// Education represents a single education entry
type Education struct {
	Institution string   `json:"institution" validate:"required"`
	Degree      string   `json:"degree" validate:"required"`
	Graduation  string   `json:"graduation,omitempty"`
	GPA         string   `json:"gpa,omitempty"`
	Honors      []string `json:"honors,omitempty"`
}

// ResumeRecord is the structured output of the resume analysis stage.
// It is created once per session and never mutated afterward.
type ResumeRecord struct {
	PersonalInfo         PersonalInfo     `json:"personal_info"`
	ProfessionalSummary  string           `json:"professional_summary,omitempty"`
	WorkExperience       []WorkExperience `json:"work_experience,omitempty" validate:"dive"`
	Education            []Education      `json:"education,omitempty" validate:"dive"`
	Skills               []string         `json:"skills,omitempty"`
	TotalExperienceYears float64          `json:"total_experience_years,omitempty" validate:"gte=0"`
	KeyAchievements      []string         `json:"key_achievements,omitempty"`
}

// Validate checks the record invariants (name non-empty, required entry fields).
func (r *ResumeRecord) Validate() error {
	return validateStruct(r)
}

// CandidateLastName returns the last whitespace-separated token of the
// candidate name, used for derived filenames.
func (r *ResumeRecord) CandidateLastName() string {
	return lastNameOf(r.PersonalInfo.Name)
}
