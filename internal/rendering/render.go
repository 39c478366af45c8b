// Package rendering merges tailored content with the user profile and
// produces the final resume data, HTML, and PDF artifacts.
package rendering

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/marcus/resume-pilot/internal/config"
	"github.com/marcus/resume-pilot/internal/profile"
	"github.com/marcus/resume-pilot/internal/session"
	"github.com/marcus/resume-pilot/internal/types"
)

// Error represents a failure during rendering.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// resolvedResume is the typed view of the merged final resume used for
// template rendering.
type resolvedResume struct {
	Summary        string
	WorkExperience []types.WorkExperience
	Education      []types.Education
	Skills         []types.SkillGroup
	Projects       []types.Project
}

// Renderer produces the final resume artifacts for a session.
type Renderer struct {
	engine PDFEngine
	layout config.LayoutConfig
}

// NewRenderer creates a Renderer.
func NewRenderer(engine PDFEngine, layout config.LayoutConfig) *Renderer {
	return &Renderer{engine: engine, layout: layout}
}

// Render merges the tailored content over the session's user profile,
// persists final_resume_data.json and the rendered HTML, and writes the
// PDF. It returns the PDF path.
func (r *Renderer) Render(ctx context.Context, sess *session.Session) (string, error) {
	var tailored map[string]json.RawMessage
	if err := sess.ReadJSON(session.FileTailored, &tailored); err != nil {
		return "", err
	}

	if !sess.Has(session.FileUserProfile) {
		return "", &session.NotFoundError{SessionID: sess.ID, Artifact: session.FileUserProfile}
	}
	userProfile, err := profile.Load(sess.Path(session.FileUserProfile))
	if err != nil {
		return "", err
	}

	final, err := assembleFinal(sess, userProfile, tailored)
	if err != nil {
		return "", err
	}

	encoded, err := json.MarshalIndent(final, "", "    ")
	if err != nil {
		return "", &Error{Message: "failed to encode final resume data", Cause: err}
	}
	if err := sess.WriteText(session.FileFinalResume, string(encoded)); err != nil {
		return "", err
	}

	info, err := userProfile.PersonalInfo()
	if err != nil {
		return "", err
	}

	resolved, err := resolveSections(final)
	if err != nil {
		return "", err
	}

	html, err := renderHTML(info, resolved, r.layout)
	if err != nil {
		return "", err
	}
	if err := sess.WriteText(session.FileRenderedHTML, html); err != nil {
		return "", err
	}

	pdf, err := r.engine.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(sess.Path(session.FileResumePDF), pdf, 0o644); err != nil {
		return "", &session.StoreError{Message: "failed to write " + session.FileResumePDF, Cause: err}
	}

	return sess.Path(session.FileResumePDF), nil
}

// assembleFinal starts from the full user profile document and overlays
// every tailored section that is present and non-null. Target company is
// taken from the legacy listing when one exists.
func assembleFinal(sess *session.Session, userProfile *profile.UserProfile, tailored map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	final := map[string]json.RawMessage{}
	if err := json.Unmarshal(userProfile.JSON(), &final); err != nil {
		return nil, &Error{Message: "failed to decode user profile", Cause: err}
	}

	for _, key := range []string{"summary", "work_experience", "education", "skills", "projects", "target_role"} {
		if raw, ok := tailored[key]; ok && string(raw) != "null" {
			final[key] = raw
		}
	}

	if sess.Has(session.FileLegacyListing) {
		var listing types.JobListing
		if err := sess.ReadJSON(session.FileLegacyListing, &listing); err != nil {
			return nil, err
		}
		if listing.CompanyName != nil && *listing.CompanyName != "" {
			company, err := json.Marshal(*listing.CompanyName)
			if err != nil {
				return nil, &Error{Message: "failed to encode target company", Cause: err}
			}
			final["target_company"] = company
		}
	}

	return final, nil
}

func resolveSections(final map[string]json.RawMessage) (*resolvedResume, error) {
	resolved := &resolvedResume{}

	sections := map[string]any{
		"summary":         &resolved.Summary,
		"work_experience": &resolved.WorkExperience,
		"education":       &resolved.Education,
		"skills":          &resolved.Skills,
		"projects":        &resolved.Projects,
	}
	for key, target := range sections {
		raw, ok := final[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, &Error{Message: "invalid " + key + " section", Cause: err}
		}
	}

	return resolved, nil
}
