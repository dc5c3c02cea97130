//nolint:revive // types is a standard Go package name pattern
package types

// JobRequirements holds the qualification section of a job posting
type JobRequirements struct {
	RequiredSkills        []string `json:"required_skills,omitempty"`
	PreferredSkills       []string `json:"preferred_skills,omitempty"`
	ExperienceLevel       string   `json:"experience_level,omitempty"`
	EducationRequirements []string `json:"education_requirements,omitempty"`
}

// JobDetails represents the core job posting information
type JobDetails struct {
	Company             string          `json:"company" validate:"required"`
	JobTitle            string          `json:"job_title" validate:"required"`
	Department          string          `json:"department,omitempty"`
	Location            string          `json:"location,omitempty"`
	EmploymentType      string          `json:"employment_type,omitempty"`
	SalaryRange         string          `json:"salary_range,omitempty"`
	JobDescription      string          `json:"job_description" validate:"required"`
	Responsibilities    []string        `json:"responsibilities,omitempty"`
	Requirements        JobRequirements `json:"requirements"`
	ApplicationDeadline string          `json:"application_deadline,omitempty"`
}

// CompanyInfo represents company research findings
type CompanyInfo struct {
	Name         string   `json:"name" validate:"required"`
	Industry     string   `json:"industry,omitempty"`
	Size         string   `json:"size,omitempty"`
	RecentNews   []string `json:"recent_news,omitempty"`
	MainBusiness string   `json:"main_business,omitempty"`
	Notes        string   `json:"notes,omitempty"` // culture, values, mission, competitors, funding
}

// JobResearchRecord is the structured output of the job research stage.
// It is created once per session and never mutated afterward.
type JobResearchRecord struct {
	JobDetails      JobDetails  `json:"job_details"`
	CompanyInfo     CompanyInfo `json:"company_info"`
	JobURL          string      `json:"job_url,omitempty"`
	MarketInsights  []string    `json:"market_insights,omitempty"`
	ApplicationTips []string    `json:"application_tips,omitempty"`
	ResearchDate    string      `json:"research_date,omitempty"` // RFC3339, defaulted at validation time
}

// Validate checks the record invariants.
func (r *JobResearchRecord) Validate() error {
	return validateStruct(r)
}
