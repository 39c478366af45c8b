package rendering

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/marcus/resume-pilot/internal/config"
	"github.com/marcus/resume-pilot/internal/profile"
	"github.com/marcus/resume-pilot/internal/types"
)

//go:embed resume_template.html
var resumeTemplate string

//go:embed resume_styles.css
var resumeStyles string

var tmpl = template.Must(template.New("resume").Parse(resumeTemplate))

// templateData is the rendering context for the resume template.
type templateData struct {
	Styles         template.CSS
	Name           string
	ContactItems   []string
	SectionOrder   []string
	Summary        string
	WorkExperience []types.WorkExperience
	Education      []types.Education
	Skills         []types.SkillGroup
	Projects       []types.Project
}

// renderHTML produces the resume HTML document. Contact items and section
// order follow the layout configuration.
func renderHTML(info profile.PersonalInfo, resume *resolvedResume, layout config.LayoutConfig) (string, error) {
	data := templateData{
		Styles:         template.CSS(resumeStyles),
		Name:           info.Name,
		ContactItems:   contactItems(info, layout.ContactInfoFields),
		SectionOrder:   layout.SectionOrder,
		Summary:        resume.Summary,
		WorkExperience: resume.WorkExperience,
		Education:      resume.Education,
		Skills:         resume.Skills,
		Projects:       resume.Projects,
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", &Error{Message: "template execution failed", Cause: err}
	}
	return sb.String(), nil
}

func contactItems(info profile.PersonalInfo, fields []string) []string {
	var items []string
	for _, field := range fields {
		var value string
		switch field {
		case "location":
			value = info.Location
		case "email":
			value = info.Email
		case "phone_number":
			value = info.PhoneNumber
		case "linkedin_url":
			value = info.LinkedInURL
		}
		if strings.TrimSpace(value) != "" {
			items = append(items, value)
		}
	}
	return items
}
