// Package pipeline provides the high-level orchestration for the resume
// tailoring process: fetch, analyze, build, render, score.
package pipeline

import (
	"context"
	"io"

	"github.com/marcus/resume-pilot/internal/analysis"
	"github.com/marcus/resume-pilot/internal/building"
	"github.com/marcus/resume-pilot/internal/config"
	"github.com/marcus/resume-pilot/internal/ingestion"
	"github.com/marcus/resume-pilot/internal/llm"
	"github.com/marcus/resume-pilot/internal/observability"
	"github.com/marcus/resume-pilot/internal/profile"
	"github.com/marcus/resume-pilot/internal/rendering"
	"github.com/marcus/resume-pilot/internal/scoring"
	"github.com/marcus/resume-pilot/internal/session"
	"github.com/marcus/resume-pilot/internal/types"
)

// Runner wires the pipeline steps to their dependencies and executes
// them against a session.
type Runner struct {
	cfg     *config.Config
	store   *session.Store
	client  llm.Client
	engine  rendering.PDFEngine
	printer *observability.Printer
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, store *session.Store, client llm.Client, engine rendering.PDFEngine, out io.Writer) *Runner {
	return &Runner{
		cfg:     cfg,
		store:   store,
		client:  client,
		engine:  engine,
		printer: observability.NewPrinter(out),
	}
}

// Store exposes the session store the runner operates on.
func (r *Runner) Store() *session.Store {
	return r.store
}

// RunOptions configures a full pipeline run.
type RunOptions struct {
	Company     string
	Position    string
	Source      ingestion.Source
	ProfilePath string
	Keywords    []string
}

// Run executes the full pipeline in a new session and returns it. Steps
// run strictly in order; the first failure stops the run, leaving the
// session at its last completed checkpoint.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*session.Session, error) {
	sess, err := r.store.Create(opts.Company, opts.Position)
	if err != nil {
		return nil, err
	}

	if _, err := r.Fetch(ctx, sess, opts.Source); err != nil {
		return sess, err
	}
	if _, err := r.Analyze(ctx, sess); err != nil {
		return sess, err
	}
	if _, err := r.Build(ctx, sess, opts.ProfilePath, opts.Keywords); err != nil {
		return sess, err
	}
	if _, err := r.Render(ctx, sess); err != nil {
		return sess, err
	}
	if _, err := r.Score(ctx, sess); err != nil {
		return sess, err
	}

	return sess, nil
}

// Resume continues an existing session from its checkpoint through the
// remaining steps. The session must already hold a job posting; resuming
// cannot re-fetch because the source is not persisted.
func (r *Runner) Resume(ctx context.Context, sess *session.Session, profilePath string, keywords []string) error {
	for {
		switch NextStep(sess) {
		case "":
			return nil
		case StepFetch:
			return &DependencyError{Step: StepAnalyze, MissingArtifacts: []string{session.FilePosting}}
		case StepAnalyze:
			if _, err := r.Analyze(ctx, sess); err != nil {
				return err
			}
		case StepBuild:
			if _, err := r.Build(ctx, sess, profilePath, keywords); err != nil {
				return err
			}
		case StepRender:
			if _, err := r.Render(ctx, sess); err != nil {
				return err
			}
		case StepScore:
			if _, err := r.Score(ctx, sess); err != nil {
				return err
			}
		}
	}
}

// Fetch captures posting content into the session.
func (r *Runner) Fetch(ctx context.Context, sess *session.Session, src ingestion.Source) (string, error) {
	if err := ValidateDependencies(sess, StepFetch); err != nil {
		return "", err
	}
	if r.cfg.Verbose {
		r.printer.PrintStep("Step 1", "Loading Job Posting")
	}
	return ingestion.Ingest(ctx, sess, src, ingestion.Options{
		UseBrowser: r.cfg.UseBrowser,
		Verbose:    r.cfg.Verbose,
	})
}

// Analyze extracts the ideal candidate profile from the stored posting.
func (r *Runner) Analyze(ctx context.Context, sess *session.Session) (*types.IdealCandidateProfile, error) {
	if err := ValidateDependencies(sess, StepAnalyze); err != nil {
		return nil, err
	}
	if r.cfg.Verbose {
		r.printer.PrintStep("Step 2", "Analyzing Job Posting")
	}

	ideal, err := analysis.AnalyzeIdealProfile(ctx, sess, r.client)
	if err != nil {
		return nil, err
	}
	if r.cfg.Verbose {
		r.printer.PrintIdealProfile(ideal)
	}
	return ideal, nil
}

// AnalyzeLegacy extracts the flat legacy listing instead of the ideal
// profile. Kept for sessions whose downstream tooling reads the legacy
// file format.
func (r *Runner) AnalyzeLegacy(ctx context.Context, sess *session.Session) (*types.JobListing, error) {
	if err := ValidateDependencies(sess, StepAnalyze); err != nil {
		return nil, err
	}
	return analysis.AnalyzeLegacyListing(ctx, sess, r.client)
}

// Build synthesizes the tailored resume content.
func (r *Runner) Build(ctx context.Context, sess *session.Session, profilePath string, keywords []string) (*types.TailoredResume, error) {
	if err := ValidateDependencies(sess, StepBuild); err != nil {
		return nil, err
	}
	if r.cfg.Verbose {
		r.printer.PrintStep("Step 3", "Building Resume Content")
	}

	userProfile, err := profile.Resolve(sess, profilePath)
	if err != nil {
		return nil, err
	}

	resume, err := building.NewBuilder(r.client).Build(ctx, sess, userProfile, keywords)
	if err != nil {
		return nil, err
	}
	if r.cfg.Verbose {
		r.printer.PrintResumeSummary(resume)
	}
	return resume, nil
}

// Render produces the final resume data, HTML, and PDF.
func (r *Runner) Render(ctx context.Context, sess *session.Session) (string, error) {
	if err := ValidateDependencies(sess, StepRender); err != nil {
		return "", err
	}
	if r.cfg.Verbose {
		r.printer.PrintStep("Step 4", "Generating PDF")
	}
	return rendering.NewRenderer(r.engine, r.cfg.Layout).Render(ctx, sess)
}

// Score runs the ATS validation of the generated PDF.
func (r *Runner) Score(ctx context.Context, sess *session.Session) (*types.MatchReport, error) {
	if err := ValidateDependencies(sess, StepScore); err != nil {
		return nil, err
	}
	if r.cfg.Verbose {
		r.printer.PrintStep("Step 5", "Validating Resume (ATS Score)")
	}

	report, err := scoring.Score(ctx, sess, r.client)
	if err != nil {
		return nil, err
	}
	if r.cfg.Verbose {
		r.printer.PrintMatchReport(report)
	}
	return report, nil
}
