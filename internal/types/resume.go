package types

import "encoding/json"

// WorkExperience is a single rewritten role in the built resume.
type WorkExperience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Date         string   `json:"date"`
	Description  []string `json:"description"`
	Location     string   `json:"location,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// SkillGroup is one category of the skills section.
type SkillGroup struct {
	Category string   `json:"category"`
	Entries  []string `json:"entries"`
}

// TailoredResume is the synthesized resume content prior to rendering.
//
// Education and Projects are raw JSON carried forward from the user profile
// without ever passing through a typed struct: the builder must not touch
// them, and keeping them as json.RawMessage guarantees the stored bytes are
// identical to the profile's.
type TailoredResume struct {
	Summary        string           `json:"summary"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      json.RawMessage  `json:"education"`
	Skills         []SkillGroup     `json:"skills"`
	Projects       json.RawMessage  `json:"projects"`
	TargetRole     string           `json:"target_role"`
}

// Education is the display shape of one education entry. Used by the
// renderer only; the builder never materializes these.
type Education struct {
	School       string   `json:"school"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field,omitempty"`
	Date         string   `json:"date,omitempty"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Project is the display shape of one project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  []string `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	Date         string   `json:"date,omitempty"`
	URL          string   `json:"url,omitempty"`
	GitHubURL    string   `json:"github_url,omitempty"`
}
