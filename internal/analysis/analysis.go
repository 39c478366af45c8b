// Package analysis turns raw job posting content into structured data,
// either the ideal candidate profile or the legacy listing extraction.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/marcus/resume-pilot/internal/llm"
	"github.com/marcus/resume-pilot/internal/prompts"
	"github.com/marcus/resume-pilot/internal/schemas"
	"github.com/marcus/resume-pilot/internal/session"
	"github.com/marcus/resume-pilot/internal/types"
)

// Error represents a failure during job posting analysis.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// AnalyzeIdealProfile extracts an ideal candidate profile from the
// session's posting artifact and persists it. Nothing is written when
// the model output fails schema validation.
func AnalyzeIdealProfile(ctx context.Context, sess *session.Session, client llm.Client) (*types.IdealCandidateProfile, error) {
	content, err := sess.ReadText(session.FilePosting)
	if err != nil {
		return nil, err
	}

	system := prompts.MustGet("analysis.json", "job_analysis")
	user := prompts.Format(prompts.MustGet("analysis.json", "analysis_user"), map[string]string{"Posting": content})

	raw, err := client.GenerateJSON(ctx, system, user)
	if err != nil {
		return nil, &Error{Message: "ideal profile generation failed", Cause: err}
	}

	if err := schemas.Validate(schemas.IdealCandidateProfile, raw); err != nil {
		return nil, &Error{Message: "model output failed validation", Cause: err}
	}

	var profile types.IdealCandidateProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, &Error{Message: "model output is not valid JSON", Cause: err}
	}

	if err := writeIndented(sess, session.FileIdealProfile, raw); err != nil {
		return nil, err
	}
	return &profile, nil
}

// AnalyzeLegacyListing extracts the flat legacy listing structure from
// the session's posting artifact and persists it.
func AnalyzeLegacyListing(ctx context.Context, sess *session.Session, client llm.Client) (*types.JobListing, error) {
	content, err := sess.ReadText(session.FilePosting)
	if err != nil {
		return nil, err
	}

	system := prompts.MustGet("analysis.json", "legacy_analysis")
	user := prompts.Format(prompts.MustGet("analysis.json", "analysis_user"), map[string]string{"Posting": content})

	raw, err := client.GenerateJSON(ctx, system, user)
	if err != nil {
		return nil, &Error{Message: "listing extraction failed", Cause: err}
	}

	if err := schemas.Validate(schemas.JobListing, raw); err != nil {
		return nil, &Error{Message: "model output failed validation", Cause: err}
	}

	var listing types.JobListing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		return nil, &Error{Message: "model output is not valid JSON", Cause: err}
	}

	if err := writeIndented(sess, session.FileLegacyListing, raw); err != nil {
		return nil, err
	}
	return &listing, nil
}

// writeIndented persists validated model output without re-marshaling it
// through typed structs, so fields the types do not know about survive.
func writeIndented(sess *session.Session, name, raw string) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "    "); err != nil {
		return &Error{Message: "failed to format output", Cause: err}
	}
	return sess.WriteText(name, buf.String())
}
