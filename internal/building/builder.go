// Package building synthesizes tailored resume content from the ideal
// candidate profile and the user's master profile.
package building

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/marcus/resume-pilot/internal/llm"
	"github.com/marcus/resume-pilot/internal/profile"
	"github.com/marcus/resume-pilot/internal/prompts"
	"github.com/marcus/resume-pilot/internal/schemas"
	"github.com/marcus/resume-pilot/internal/session"
	"github.com/marcus/resume-pilot/internal/types"
)

// StepError identifies which build step failed.
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("build step %s failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// Builder runs the resume construction steps against an LLM client.
type Builder struct {
	client llm.Client
}

// NewBuilder creates a Builder.
func NewBuilder(client llm.Client) *Builder {
	return &Builder{client: client}
}

// sectionEnvelope matches the JSON objects the build prompts ask for.
// Each step populates a different subset of fields.
type sectionEnvelope struct {
	Summary        string                 `json:"summary"`
	WorkExperience []types.WorkExperience `json:"work_experience"`
	Skills         []types.SkillGroup     `json:"skills"`
}

// Build constructs the tailored resume and persists it to the session.
// Work experience and skills are produced independently; the summary is
// written last so it can draw on what those steps selected. Education and
// projects are carried from the profile verbatim. Nothing is persisted
// when any step fails.
func (b *Builder) Build(ctx context.Context, sess *session.Session, userProfile *profile.UserProfile, keywords []string) (*types.TailoredResume, error) {
	ideal, idealJSON, err := loadIdealProfile(sess)
	if err != nil {
		return nil, err
	}

	jobDescription, err := sess.ReadText(session.FilePosting)
	if err != nil {
		return nil, err
	}

	profileJSON := string(userProfile.JSON())

	var experience []types.WorkExperience
	var skills []types.SkillGroup

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		experience, err = b.buildWorkExperience(gctx, idealJSON, profileJSON, jobDescription, keywords)
		return err
	})
	g.Go(func() error {
		var err error
		skills, err = b.buildSkills(gctx, idealJSON, profileJSON)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary, err := b.buildSummary(ctx, idealJSON, experience, skills)
	if err != nil {
		return nil, err
	}

	resume := &types.TailoredResume{
		Summary:        summary,
		WorkExperience: experience,
		Education:      userProfile.Education(),
		Skills:         skills,
		Projects:       userProfile.Projects(),
		TargetRole:     ideal.ExperienceSummary,
	}

	encoded, err := json.MarshalIndent(resume, "", "    ")
	if err != nil {
		return nil, &StepError{Step: "assemble", Cause: err}
	}
	if err := schemas.Validate(schemas.TailoredResume, string(encoded)); err != nil {
		return nil, &StepError{Step: "assemble", Cause: err}
	}

	if err := sess.WriteText(session.FileTailored, string(encoded)); err != nil {
		return nil, err
	}
	return resume, nil
}

func (b *Builder) buildWorkExperience(ctx context.Context, idealJSON, profileJSON, jobDescription string, keywords []string) ([]types.WorkExperience, error) {
	system := prompts.MustGet("building.json", "work_experience")

	keywordInjection := ""
	if len(keywords) > 0 {
		keywordInjection = fmt.Sprintf("\n\n**Additional Keywords to Prioritize:** %s", strings.Join(keywords, ", "))
	}

	user := fmt.Sprintf(
		"**Ideal Candidate Profile:**\n%s\n\n**User's Full Profile (for achievement selection):**\n%s\n\n**Original Job Description (for keyword alignment):**\n%s%s",
		idealJSON, profileJSON, jobDescription, keywordInjection,
	)

	env, err := b.generateSection(ctx, "work_experience", system, user)
	if err != nil {
		return nil, err
	}
	if len(env.WorkExperience) == 0 {
		return nil, &StepError{Step: "work_experience", Cause: fmt.Errorf("model returned no work experience")}
	}
	return env.WorkExperience, nil
}

func (b *Builder) buildSkills(ctx context.Context, idealJSON, profileJSON string) ([]types.SkillGroup, error) {
	system := prompts.MustGet("building.json", "skills")
	user := fmt.Sprintf(
		"**Ideal Candidate Profile:**\n%s\n\n**User's Full Profile (for skill selection):**\n%s",
		idealJSON, profileJSON,
	)

	env, err := b.generateSection(ctx, "skills", system, user)
	if err != nil {
		return nil, err
	}
	if len(env.Skills) == 0 {
		return nil, &StepError{Step: "skills", Cause: fmt.Errorf("model returned no skills")}
	}
	return env.Skills, nil
}

func (b *Builder) buildSummary(ctx context.Context, idealJSON string, experience []types.WorkExperience, skills []types.SkillGroup) (string, error) {
	system := prompts.MustGet("building.json", "summary")

	built, err := json.MarshalIndent(map[string]any{
		"work_experience": experience,
		"skills":          skills,
	}, "", "  ")
	if err != nil {
		return "", &StepError{Step: "summary", Cause: err}
	}

	user := fmt.Sprintf(
		"**Ideal Candidate Profile:**\n%s\n\n**Built Resume Sections (for synthesis):**\n%s",
		idealJSON, string(built),
	)

	env, err := b.generateSection(ctx, "summary", system, user)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(env.Summary) == "" {
		return "", &StepError{Step: "summary", Cause: fmt.Errorf("model returned an empty summary")}
	}
	return env.Summary, nil
}

func (b *Builder) generateSection(ctx context.Context, step, system, user string) (*sectionEnvelope, error) {
	raw, err := b.client.GenerateJSON(ctx, system, user)
	if err != nil {
		return nil, &StepError{Step: step, Cause: err}
	}

	var env sectionEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, &StepError{Step: step, Cause: err}
	}
	return &env, nil
}

// loadIdealProfile reads the ideal profile artifact both as a typed value
// and as the stored JSON text used inside prompts.
func loadIdealProfile(sess *session.Session) (*types.IdealCandidateProfile, string, error) {
	raw, err := sess.ReadText(session.FileIdealProfile)
	if err != nil {
		return nil, "", err
	}

	var ideal types.IdealCandidateProfile
	if err := json.Unmarshal([]byte(raw), &ideal); err != nil {
		return nil, "", &session.FormatError{Artifact: session.FileIdealProfile, Cause: err}
	}
	return &ideal, raw, nil
}
