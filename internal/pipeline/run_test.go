package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcus/resume-pilot/internal/config"
	"github.com/marcus/resume-pilot/internal/ingestion"
	"github.com/marcus/resume-pilot/internal/session"
)

// scriptedClient answers prompts from canned responses keyed by a
// substring of the system prompt.
type scriptedClient struct {
	responses map[string]string
}

func (c *scriptedClient) GenerateJSON(_ context.Context, systemPrompt, _ string) (string, error) {
	for key, out := range c.responses {
		if strings.Contains(systemPrompt, key) {
			return out, nil
		}
	}
	return "", errors.New("no scripted response for prompt")
}

func (c *scriptedClient) Model() string { return "scripted" }
func (c *scriptedClient) Close() error  { return nil }

type stubEngine struct{}

func (stubEngine) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func pipelineClient() *scriptedClient {
	return &scriptedClient{responses: map[string]string{
		"expert HR analyst": `{
			"top_technical_skills": ["Go"],
			"top_soft_skills": ["Communication"],
			"experience_summary": "Backend developer"
		}`,
		"Work Experience": `{"work_experience": [{
			"company": "TestCo",
			"position": "Developer",
			"date": "2019 - Present",
			"description": ["Shipped the widget service."]
		}]}`,
		"'Skills' section":     `{"skills": [{"category": "Languages", "entries": ["Go"]}]}`,
		"professional summary": `{"summary": "Backend developer who ships."}`,
	}}
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := config.Defaults()
	store := session.NewStore(t.TempDir())
	return NewRunner(&cfg, store, pipelineClient(), stubEngine{}, io.Discard)
}

func TestRunner_StepsThroughRender(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	sess, err := r.Store().Create("Acme", "Engineer")
	require.NoError(t, err)

	_, err = r.Fetch(ctx, sess, ingestion.Source{InlineText: "# Go Developer\n\nGo required."})
	require.NoError(t, err)
	assert.Equal(t, session.StagePosting, sess.Checkpoint())

	ideal, err := r.Analyze(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "Backend developer", ideal.ExperienceSummary)
	assert.Equal(t, session.StageAnalyzed, sess.Checkpoint())

	resume, err := r.Build(ctx, sess, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Backend developer who ships.", resume.Summary)
	assert.Equal(t, session.StageBuilt, sess.Checkpoint())

	pdfPath, err := r.Render(ctx, sess)
	require.NoError(t, err)
	assert.True(t, sess.Has(session.FileResumePDF))
	assert.Equal(t, sess.Path(session.FileResumePDF), pdfPath)
}

func TestRunner_StepsGateOnDependencies(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	sess, err := r.Store().Create("Acme", "Engineer")
	require.NoError(t, err)

	var depErr *DependencyError

	_, err = r.Analyze(ctx, sess)
	require.ErrorAs(t, err, &depErr)

	_, err = r.Build(ctx, sess, "", nil)
	require.ErrorAs(t, err, &depErr)

	_, err = r.Render(ctx, sess)
	require.ErrorAs(t, err, &depErr)

	_, err = r.Score(ctx, sess)
	require.ErrorAs(t, err, &depErr)
}

func TestRunner_ResumeFromPosting(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	sess, err := r.Store().Create("Acme", "Engineer")
	require.NoError(t, err)
	require.NoError(t, sess.WriteText(session.FilePosting, "# Go Developer\n\nGo required."))

	// The stub engine writes bytes no PDF reader can parse, so the run
	// fails at scoring. Everything up to the PDF must exist by then.
	err = r.Resume(ctx, sess, "", nil)
	require.Error(t, err)
	assert.Equal(t, session.StageBuilt, sess.Checkpoint())
	assert.True(t, sess.Has(session.FileRenderedHTML))
	assert.True(t, sess.Has(session.FileResumePDF))
	assert.False(t, sess.Has(session.FileMatchReport))
}

func TestRunner_ResumeNeedsPosting(t *testing.T) {
	r := newRunner(t)

	sess, err := r.Store().Create("Acme", "Engineer")
	require.NoError(t, err)

	var depErr *DependencyError
	err = r.Resume(context.Background(), sess, "", nil)
	require.ErrorAs(t, err, &depErr)
	assert.Contains(t, depErr.MissingArtifacts, session.FilePosting)
}

func TestRunner_AnalyzeLegacy(t *testing.T) {
	cfg := config.Defaults()
	store := session.NewStore(t.TempDir())
	client := &scriptedClient{responses: map[string]string{
		"structured data extraction": `{"company_name": "Acme", "keywords": ["go"]}`,
	}}
	r := NewRunner(&cfg, store, client, stubEngine{}, io.Discard)

	sess, err := store.Create("Acme", "Engineer")
	require.NoError(t, err)
	require.NoError(t, sess.WriteText(session.FilePosting, "# Posting"))

	listing, err := r.AnalyzeLegacy(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, listing.CompanyName)
	assert.Equal(t, "Acme", *listing.CompanyName)
	assert.Equal(t, session.ModeLegacy, sess.AnalysisMode())
}
