// Package types provides type definitions for the structured artifacts that
// flow through the resume pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// IdealCandidateProfile is the target-skills extraction derived from a job
// posting. It is the primary analysis output and drives every build step.
type IdealCandidateProfile struct {
	// TopTechnicalSkills lists the most critical technical skills for the
	// role, most important first. Typically 5-7 entries.
	TopTechnicalSkills []string `json:"top_technical_skills"`
	// TopSoftSkills lists the most important soft skills. Typically 3-4.
	TopSoftSkills []string `json:"top_soft_skills"`
	// ExperienceSummary is a short free-text description of the ideal
	// candidate's background. Doubles as the built resume's target role.
	ExperienceSummary string `json:"experience_summary"`
}

// JobListing is the legacy flat analysis shape, kept for backward
// compatibility with sessions produced before the ideal-profile analyzer.
// All fields are pointers so the model can return null for anything it
// cannot infer from the posting.
type JobListing struct {
	CompanyName    *string  `json:"company_name"`
	PositionTitle  *string  `json:"position_title"`
	JobURL         *string  `json:"job_url"`
	Description    *string  `json:"description"`
	Location       *string  `json:"location"`
	SalaryRange    *string  `json:"salary_range"`
	Keywords       []string `json:"keywords"`
	WorkLocation   *string  `json:"work_location"`   // remote, in_person, hybrid
	EmploymentType *string  `json:"employment_type"` // full_time, part_time, co_op, internship, contract
}
