package pipeline

import (
	"fmt"

	"github.com/marcus/resume-pilot/internal/session"
)

// Step names, in execution order.
const (
	StepFetch   = "fetch"
	StepAnalyze = "analyze"
	StepBuild   = "build"
	StepRender  = "render"
	StepScore   = "score"
)

// StepDefinition defines metadata for a pipeline step. Requires lists the
// artifact files that must exist in the session before the step runs;
// Produces lists what the step writes.
type StepDefinition struct {
	Name     string
	Requires []string
	Produces []string
}

// Order is the canonical linear execution order.
var Order = []string{StepFetch, StepAnalyze, StepBuild, StepRender, StepScore}

// Registry holds all step definitions keyed by name.
var Registry = map[string]StepDefinition{
	StepFetch: {
		Name:     StepFetch,
		Requires: []string{},
		Produces: []string{session.FilePosting},
	},
	StepAnalyze: {
		Name:     StepAnalyze,
		Requires: []string{session.FilePosting},
		Produces: []string{session.FileIdealProfile},
	},
	StepBuild: {
		Name:     StepBuild,
		Requires: []string{session.FilePosting, session.FileIdealProfile},
		Produces: []string{session.FileTailored, session.FileUserProfile},
	},
	StepRender: {
		Name:     StepRender,
		Requires: []string{session.FileTailored, session.FileUserProfile},
		Produces: []string{session.FileFinalResume, session.FileRenderedHTML, session.FileResumePDF},
	},
	StepScore: {
		Name:     StepScore,
		Requires: []string{session.FilePosting, session.FileResumePDF},
		Produces: []string{session.FileMatchReport},
	},
}

// DependencyError reports artifacts a step needs that the session does
// not yet contain. It always means "re-run the prior step".
type DependencyError struct {
	Step             string
	MissingArtifacts []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing artifacts: %v", e.Step, e.MissingArtifacts)
}

// ValidateDependencies checks that every artifact a step requires exists
// in the session.
func ValidateDependencies(sess *session.Session, stepName string) error {
	def, ok := Registry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, artifact := range def.Requires {
		if !sess.Has(artifact) {
			missing = append(missing, artifact)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingArtifacts: missing}
	}
	return nil
}

// NextStep returns the first step in Order whose outputs are not yet all
// present, or "" when every step has run.
func NextStep(sess *session.Session) string {
	for _, name := range Order {
		def := Registry[name]
		done := true
		for _, artifact := range def.Produces {
			if !sess.Has(artifact) {
				done = false
				break
			}
		}
		if !done {
			return name
		}
	}
	return ""
}
